package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionKey returns the cache key holding the owner of a token's JTI.
func (r *CacheKeyStruct) SessionKey(jti string) string {
	return fmt.Sprintf("session:%s", jti)
}

// UserSessionsKey returns the cache key of the set of JTIs issued to a user.
func (r *CacheKeyStruct) UserSessionsKey(userID string) string {
	return fmt.Sprintf("user:%s:sessions", userID)
}

// UserSessionsPattern matches every per-user session set, for SCAN.
func (r *CacheKeyStruct) UserSessionsPattern() string {
	return "user:*:sessions"
}

// AttendanceFeedChannel returns the Redis PubSub channel carrying committed markings.
func (r *CacheKeyStruct) AttendanceFeedChannel() string {
	return "attendance:feed"
}

// DashboardKey returns the cache key of the admin dashboard snapshot for a day.
func (r *CacheKeyStruct) DashboardKey(date string) string {
	return fmt.Sprintf("dashboard:%s", date)
}

var CacheKey = NewCacheKeyStruct()
