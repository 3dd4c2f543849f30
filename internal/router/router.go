package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/presensi-backend/internal/config"
	"github.com/stemsi/presensi-backend/internal/handler"
	"github.com/stemsi/presensi-backend/internal/middleware"
	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stemsi/presensi-backend/internal/response"
	"github.com/stemsi/presensi-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Org        *handler.OrgHandler
	Section    *handler.SectionHandler
	User       *handler.UserHandler
	Course     *handler.CourseHandler
	Timetable  *handler.TimetableHandler
	Attendance *handler.AttendanceHandler
	Report     *handler.ReportHandler
	Dashboard  *handler.DashboardHandler
	Feed       *handler.FeedHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// loginLimiter may be nil to disable login rate limiting.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
	loginLimiter *middleware.RateLimiter,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so the request logger can read it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Auth Group (Public, Login Rate Limited) ────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(middleware.NoStore())
	{
		if loginLimiter != nil {
			auth.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)
		} else {
			auth.POST("/login", handlers.Auth.Login)
		}
		auth.POST("/register-admin", handlers.Auth.RegisterAdmin)

		auth.POST("/logout", middleware.RequireJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Catalog Group (Any Authenticated Role) ─────────────────────
	// Dropdown data shared by every portal.
	catalog := router.Group("/api/v1/catalog")
	catalog.Use(middleware.RequireJWT(authService), middleware.CacheControl(60))
	{
		catalog.GET("/batches", handlers.Org.List(model.OrgBatch))
		catalog.GET("/departments", handlers.Org.List(model.OrgDepartment))
		catalog.GET("/semesters", handlers.Org.List(model.OrgSemester))
		catalog.GET("/sections", handlers.Section.ListSections)
	}

	// ─── 3. Admin Group (JWT + Admin Role) ─────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(
		middleware.RequireJWT(authService),
		middleware.RequireRole(model.RoleAdmin),
		middleware.NoStore(),
	)
	{
		adminAPI.GET("/dashboard", handlers.Dashboard.GetDashboardData)

		// Batches, departments, semesters
		for kind, path := range map[model.OrgKind]string{
			model.OrgBatch:      "/batches",
			model.OrgDepartment: "/departments",
			model.OrgSemester:   "/semesters",
		} {
			adminAPI.GET(path, handlers.Org.List(kind))
			adminAPI.POST(path, handlers.Org.Create(kind))
			adminAPI.PUT(path+"/:id", handlers.Org.Rename(kind))
			adminAPI.DELETE(path+"/:id", handlers.Org.Delete(kind))
		}

		// Sections
		adminAPI.GET("/sections", handlers.Section.ListSections)
		adminAPI.POST("/sections", handlers.Section.CreateSection)
		adminAPI.PUT("/sections/:id", handlers.Section.RenameSection)
		adminAPI.DELETE("/sections/:id", handlers.Section.DeleteSection)

		// Users
		adminAPI.POST("/users", handlers.User.CreateUser)
		adminAPI.POST("/users/import", handlers.User.ImportUsers)
		adminAPI.DELETE("/users/:id", handlers.User.DeleteUser)
		adminAPI.GET("/students", handlers.User.ListStudents)
		adminAPI.PUT("/students/:id", handlers.User.UpdateStudent)
		adminAPI.GET("/teachers", handlers.User.ListTeachers)
		adminAPI.PUT("/teachers/:id", handlers.User.UpdateTeacher)

		// Courses and allocations
		adminAPI.GET("/courses", handlers.Course.ListCourses)
		adminAPI.POST("/courses", handlers.Course.CreateCourse)
		adminAPI.DELETE("/courses/:id", handlers.Course.DeleteCourse)
		adminAPI.GET("/allocations", handlers.Course.ListAllocations)
		adminAPI.POST("/allocations", handlers.Course.Allocate)

		// Timetable
		adminAPI.GET("/timetable", handlers.Timetable.Grid)
		adminAPI.POST("/timetable", handlers.Timetable.CreateEntry)
		adminAPI.PUT("/timetable/:id", handlers.Timetable.UpdateEntry)
		adminAPI.DELETE("/timetable/:id", handlers.Timetable.DeleteEntry)

		// Attendance and reports
		adminAPI.GET("/attendance", handlers.Attendance.Search)
		adminAPI.PUT("/attendance/:id", handlers.Attendance.UpdateStatus)
		adminAPI.DELETE("/attendance/:id", handlers.Attendance.DeleteRecord)
		adminAPI.GET("/reports", handlers.Report.AdminReport)
	}

	// ─── 4. Teacher Group (JWT + Teacher Role) ─────────────────────────
	teacherAPI := router.Group("/api/v1/teacher")
	teacherAPI.Use(
		middleware.RequireJWT(authService),
		middleware.RequireRole(model.RoleTeacher),
		middleware.NoStore(),
	)
	{
		teacherAPI.GET("/courses", handlers.Course.ListTeacherCourses)
		teacherAPI.GET("/timetable", handlers.Timetable.Grid)
		teacherAPI.GET("/roster", handlers.Attendance.Roster)
		teacherAPI.POST("/attendance", handlers.Attendance.Mark)
		teacherAPI.GET("/reports", handlers.Report.TeacherReport)
	}

	// ─── 5. Student Group (JWT + Student Role) ─────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireJWT(authService),
		middleware.RequireRole(model.RoleStudent),
		middleware.NoStore(),
	)
	{
		studentAPI.GET("/courses", handlers.Course.ListStudentCourses)
		studentAPI.GET("/courses/:id/attendance", handlers.Attendance.MyAttendance)
		studentAPI.GET("/timetable", handlers.Timetable.StudentGrid)
	}

	// ─── 6. WebSocket Group (Admin WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService), middleware.RequireRole(model.RoleAdmin))
	{
		ws.GET("/admin/attendance/feed", handlers.Feed.AttendanceFeed)
	}

	return router
}
