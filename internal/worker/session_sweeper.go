package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/presensi-backend/internal/config"
)

const sweepScanCount = 200

// SessionSweeper prunes token ids from the per-user session sets once
// their session keys have expired. Session keys carry their own TTL, but
// the set is refreshed on every login and would otherwise accumulate dead
// ids for users who log in often.
type SessionSweeper struct {
	rdb      *redis.Client
	interval time.Duration
	log      zerolog.Logger
}

func NewSessionSweeper(rdb *redis.Client, interval time.Duration, log zerolog.Logger) *SessionSweeper {
	return &SessionSweeper{
		rdb:      rdb,
		interval: interval,
		log:      log.With().Str("component", "session_sweeper").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop
// ----------------------------------------------------------------

func (w *SessionSweeper) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("SessionSweeper started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("SessionSweeper stopped")
			return
		case <-ticker.C:
			removed, err := w.Sweep(ctx)
			if err != nil && ctx.Err() == nil {
				w.log.Error().Err(err).Msg("Session sweep failed")
				continue
			}
			if removed > 0 {
				w.log.Info().Int("removed", removed).Msg("Stale session ids pruned")
			}
		}
	}
}

// Sweep walks every user session set once and removes ids whose session
// key no longer exists. It returns how many ids were removed.
func (w *SessionSweeper) Sweep(ctx context.Context) (int, error) {
	removed := 0
	iter := w.rdb.Scan(ctx, 0, config.CacheKey.UserSessionsPattern(), sweepScanCount).Iterator()
	for iter.Next(ctx) {
		n, err := w.sweepSet(ctx, iter.Val())
		if err != nil {
			return removed, err
		}
		removed += n
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("scan session sets: %w", err)
	}
	return removed, nil
}

func (w *SessionSweeper) sweepSet(ctx context.Context, setKey string) (int, error) {
	jtis, err := w.rdb.SMembers(ctx, setKey).Result()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", setKey, err)
	}
	if len(jtis) == 0 {
		return 0, nil
	}

	pipe := w.rdb.Pipeline()
	checks := make([]*redis.IntCmd, len(jtis))
	for i, jti := range jtis {
		checks[i] = pipe.Exists(ctx, config.CacheKey.SessionKey(jti))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("check sessions of %s: %w", setKey, err)
	}

	alive := make([]bool, len(checks))
	for i, cmd := range checks {
		alive[i] = cmd.Val() > 0
	}
	stale := staleIDs(jtis, alive)
	if len(stale) == 0 {
		return 0, nil
	}

	members := make([]interface{}, len(stale))
	for i, id := range stale {
		members[i] = id
	}
	if err := w.rdb.SRem(ctx, setKey, members...).Err(); err != nil {
		return 0, fmt.Errorf("prune %s: %w", setKey, err)
	}
	return len(stale), nil
}

// staleIDs returns the ids whose alive flag is false, in input order.
func staleIDs(ids []string, alive []bool) []string {
	var stale []string
	for i, id := range ids {
		if i < len(alive) && alive[i] {
			continue
		}
		stale = append(stale, id)
	}
	return stale
}
