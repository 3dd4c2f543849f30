package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/presensi-backend/internal/config"
	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stemsi/presensi-backend/internal/repository"
	"golang.org/x/sync/errgroup"
)

const recentSessionLimit = 10

// DashboardSource is the read model behind the admin dashboard.
type DashboardSource interface {
	GetSummaryCounts(ctx context.Context) (model.DashboardSummary, error)
	GetTodayStatusCounts(ctx context.Context) (map[model.AttendanceStatus]int, error)
	GetRecentSessions(ctx context.Context, limit int) ([]repository.DashboardRecentSession, error)
}

// DashboardData consolidates all metrics for the admin dashboard.
type DashboardData struct {
	Summary          model.DashboardSummary              `json:"summary"`
	TodayStatusCount map[model.AttendanceStatus]int      `json:"today_status_counts"`
	RecentSessions   []repository.DashboardRecentSession `json:"recent_sessions"`
	GeneratedAt      time.Time                           `json:"generated_at"`
}

// DashboardService assembles the admin overview, serving a short-lived
// Redis snapshot when one exists.
type DashboardService struct {
	source DashboardSource
	rdb    *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
	now    func() time.Time
}

// NewDashboardService creates a new DashboardService. A nil rdb or a zero
// ttl disables the snapshot cache.
func NewDashboardService(source DashboardSource, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *DashboardService {
	return &DashboardService{
		source: source,
		rdb:    rdb,
		ttl:    ttl,
		log:    log.With().Str("component", "dashboard_service").Logger(),
		now:    time.Now,
	}
}

func (s *DashboardService) cacheEnabled() bool {
	return s.rdb != nil && s.ttl > 0
}

// GetDashboardData returns today's overview. Cache failures fall through
// to the database; fresh skips the cached snapshot and replaces it.
func (s *DashboardService) GetDashboardData(ctx context.Context, fresh bool) (*DashboardData, error) {
	key := config.CacheKey.DashboardKey(s.now().Format(time.DateOnly))

	if s.cacheEnabled() && !fresh {
		raw, err := s.rdb.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var cached DashboardData
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
			s.log.Warn().Str("key", key).Msg("Discarding unreadable dashboard snapshot")
		case !errors.Is(err, redis.Nil):
			s.log.Warn().Err(err).Msg("Dashboard cache read failed")
		}
	}

	data, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		if raw, err := json.Marshal(data); err == nil {
			if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
				s.log.Warn().Err(err).Msg("Dashboard cache write failed")
			}
		}
	}
	return data, nil
}

// collect runs the dashboard queries concurrently.
func (s *DashboardService) collect(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{GeneratedAt: s.now().UTC()}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := s.source.GetSummaryCounts(gctx)
		data.Summary = summary
		return err
	})
	g.Go(func() error {
		counts, err := s.source.GetTodayStatusCounts(gctx)
		data.TodayStatusCount = counts
		return err
	})
	g.Go(func() error {
		recent, err := s.source.GetRecentSessions(gctx, recentSessionLimit)
		data.RecentSessions = recent
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}
