package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		parseOrigins(" https://a.example, ,https://b.example "))
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_EXPIRY_HOURS", "3")
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("PRACTICAL_CLASS_TYPE", "Lab")
	t.Setenv("DASHBOARD_CACHE_SECONDS", "0")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 3*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "Lab", cfg.PracticalMarker)
	assert.Zero(t, cfg.DashboardTTL)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "session:abc", CacheKey.SessionKey("abc"))
	assert.Equal(t, "user:T-01:sessions", CacheKey.UserSessionsKey("T-01"))
	assert.Equal(t, "attendance:feed", CacheKey.AttendanceFeedChannel())
	assert.Equal(t, "user:*:sessions", CacheKey.UserSessionsPattern())
	assert.Equal(t, "dashboard:2030-01-07", CacheKey.DashboardKey("2030-01-07"))
}
