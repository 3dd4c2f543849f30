package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/presensi-backend/internal/config"
	"github.com/stemsi/presensi-backend/internal/database"
	"github.com/stemsi/presensi-backend/internal/handler"
	"github.com/stemsi/presensi-backend/internal/logger"
	"github.com/stemsi/presensi-backend/internal/middleware"
	"github.com/stemsi/presensi-backend/internal/repository"
	"github.com/stemsi/presensi-backend/internal/router"
	"github.com/stemsi/presensi-backend/internal/service"
	"github.com/stemsi/presensi-backend/internal/validator"
	ws "github.com/stemsi/presensi-backend/internal/websocket"
	"github.com/stemsi/presensi-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("practical_class_type", cfg.PracticalMarker).
		Msg("Starting Presensi Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	orgRepo := repository.NewOrgUnitRepository(pool)
	sectionRepo := repository.NewSectionRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	allocationRepo := repository.NewAllocationRepository(pool)
	timetableRepo := repository.NewTimetableRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)
	reportRepo := repository.NewReportRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	feed := ws.NewRedisFeed(rdb)
	authService := service.NewAuthService(cfg, service.NewRedisSessionStore(rdb))
	sectionService := service.NewSectionService(sectionRepo, authService, log)
	orgService := service.NewOrgService(orgRepo, log)
	userService := service.NewUserService(userRepo, sectionService, authService, log)
	courseService := service.NewCourseService(courseRepo, allocationRepo, userRepo, sectionService, log)
	timetableService := service.NewTimetableService(timetableRepo, courseRepo, sectionService, log)
	attendanceService := service.NewAttendanceService(
		attendanceRepo, timetableRepo, userRepo,
		courseService, sectionService, feed,
		cfg.PracticalMarker, log,
	)
	reportService := service.NewReportService(reportRepo, courseService, sectionService, log)
	dashboardService := service.NewDashboardService(dashboardRepo, rdb, cfg.DashboardTTL, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, userService),
		Org:        handler.NewOrgHandler(orgService),
		Section:    handler.NewSectionHandler(sectionService),
		User:       handler.NewUserHandler(userService, cfg.MaxImportBytes),
		Course:     handler.NewCourseHandler(courseService),
		Timetable:  handler.NewTimetableHandler(timetableService),
		Attendance: handler.NewAttendanceHandler(attendanceService),
		Report:     handler.NewReportHandler(reportService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		Feed:       handler.NewFeedHandler(feed, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	if cfg.SweepInterval > 0 {
		sweeper := worker.NewSessionSweeper(rdb, cfg.SweepInterval, log)
		go sweeper.Start(ctx)
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	var loginLimiter *middleware.RateLimiter
	if cfg.LoginRateLimit > 0 {
		loginLimiter = middleware.NewRateLimiter(ctx, cfg.LoginRateLimit, time.Minute)
	}
	r := router.SetupRouter(authService, handlers, cfg, log, loginLimiter)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// Stop accepting new HTTP requests (5s timeout). Hijacked feed sockets
	// are not tracked by Shutdown and close with the process.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// Stop the session sweeper and the rate limiter cleanup.
	cancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
