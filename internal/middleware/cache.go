package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// CacheControl lets the client keep reference data for maxAgeSeconds.
// Responses stay private since every caller is authenticated.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", maxAgeSeconds))
		c.Next()
	}
}

// NoStore marks responses as uncacheable. Applied to every authenticated
// route so per-user data is never kept by shared caches.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}
