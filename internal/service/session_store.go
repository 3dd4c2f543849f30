package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/presensi-backend/internal/config"
)

// SessionStore registers issued token ids so they can be revoked before
// they expire.
type SessionStore interface {
	Register(ctx context.Context, userID, jti string, ttl time.Duration) error
	Owner(ctx context.Context, jti string) (string, error)
	Revoke(ctx context.Context, jti string) error
	RevokeUser(ctx context.Context, userID string) error
}

// RedisSessionStore keeps one key per token id plus a set of ids per user.
type RedisSessionStore struct {
	rdb *redis.Client
}

// NewRedisSessionStore creates a new RedisSessionStore.
func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

func (s *RedisSessionStore) Register(ctx context.Context, userID, jti string, ttl time.Duration) error {
	userKey := config.CacheKey.UserSessionsKey(userID)
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, config.CacheKey.SessionKey(jti), userID, ttl)
	pipe.SAdd(ctx, userKey, jti)
	pipe.Expire(ctx, userKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("register session: %w", err)
	}
	return nil
}

// Owner returns the user a live token id belongs to, or ErrSessionRevoked.
func (s *RedisSessionStore) Owner(ctx context.Context, jti string) (string, error) {
	userID, err := s.rdb.Get(ctx, config.CacheKey.SessionKey(jti)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionRevoked
		}
		return "", fmt.Errorf("check session: %w", err)
	}
	return userID, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, jti string) error {
	return s.rdb.Del(ctx, config.CacheKey.SessionKey(jti)).Err()
}

// RevokeUser drops every token issued to the user.
func (s *RedisSessionStore) RevokeUser(ctx context.Context, userID string) error {
	userKey := config.CacheKey.UserSessionsKey(userID)
	jtis, err := s.rdb.SMembers(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	keys := make([]string, 0, len(jtis)+1)
	for _, jti := range jtis {
		keys = append(keys, config.CacheKey.SessionKey(jti))
	}
	keys = append(keys, userKey)
	return s.rdb.Del(ctx, keys...).Err()
}
