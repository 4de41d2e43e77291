package middleware

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter stores rate limiters for different request keys
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	mutex    sync.RWMutex
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
	}
}

// GetLimiterWithConfig returns a limiter for a composite key with dynamic limits
func (rl *RateLimiter) GetLimiterWithConfig(key string, limit rate.Limit, burst int) *rate.Limiter {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(limit, burst)
		rl.limiters[key] = limiter
	}
	rl.lastSeen[key] = time.Now()
	return limiter
}

// Cleanup removes old limiters to prevent memory leaks
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	// Remove limiters that have been idle for more than 1 hour
	now := time.Now()
	for key, t := range rl.lastSeen {
		if now.Sub(t) > time.Hour {
			delete(rl.limiters, key)
			delete(rl.lastSeen, key)
		}
	}
}

var globalRateLimiter = NewRateLimiter()

// StartRateLimiterCleanup evicts idle limiters on a fixed interval.
func StartRateLimiterCleanup() {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			globalRateLimiter.Cleanup()
		}
	}()
}

// RateLimitMiddleware implements rate limiting
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		clientIP := c.ClientIP()
		key := path + "|" + clientIP

		// Relax limits for the WebSocket endpoint and therapist order polling
		var lim rate.Limit
		var burst int
		if strings.HasPrefix(path, "/api/v1/notifications/ws") {
			// WebSocket upgrade plus reconnect attempts
			lim = rate.Every(time.Second)
			burst = 5
		} else if c.Request.Method == http.MethodGet && strings.HasPrefix(path, "/api/v1/therapist") {
			// Therapist apps poll the order list while waiting for work
			lim = rate.Every(time.Second)
			burst = 3
		} else {
			lim = rate.Every(time.Minute / 10) // 10 req/min
			burst = 20
		}

		limiter := globalRateLimiter.GetLimiterWithConfig(key, lim, burst)

		if !limiter.Allow() {
			log.Printf("🚫 Rate limit exceeded for %s %s from %s", c.Request.Method, path, clientIP)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message":     "Too many requests. Please try again later.",
				"retry_after": 60,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// SecurityHeadersMiddleware adds security headers
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'; connect-src 'self' ws: wss:;")
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		c.Header("Server", "")

		c.Next()
	}
}

// AuditLogMiddleware logs request outcomes
func AuditLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		if status >= 400 {
			log.Printf("⚠️ AUDIT: %s %s returned %d in %v", c.Request.Method, c.Request.URL.Path, status, duration)
		} else {
			log.Printf("✅ AUDIT: %s %s returned %d in %v", c.Request.Method, c.Request.URL.Path, status, duration)
		}
	}
}
