package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/presensi-backend/internal/config"
	"github.com/stemsi/presensi-backend/internal/model"
)

// RedisFeed publishes committed markings on the attendance Pub/Sub channel
// so every server instance can relay them to its connected admins.
type RedisFeed struct {
	rdb *redis.Client
}

// NewRedisFeed creates a new RedisFeed.
func NewRedisFeed(rdb *redis.Client) *RedisFeed {
	return &RedisFeed{rdb: rdb}
}

// PublishAttendance serializes the event onto the feed channel.
func (f *RedisFeed) PublishAttendance(ctx context.Context, ev model.AttendanceEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal attendance event: %w", err)
	}
	return f.rdb.Publish(ctx, config.CacheKey.AttendanceFeedChannel(), payload).Err()
}

// Subscribe opens a subscription to the feed channel. The caller closes it.
func (f *RedisFeed) Subscribe(ctx context.Context) *redis.PubSub {
	return f.rdb.Subscribe(ctx, config.CacheKey.AttendanceFeedChannel())
}
