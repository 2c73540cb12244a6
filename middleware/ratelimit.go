package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type windowEntry struct {
	count       int
	windowStart time.Time
}

// RateLimiter is a fixed-window per-IP limiter used on the auth
// endpoints to slow down credential stuffing.
type RateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*windowEntry
	maxRequests int
	window      time.Duration
}

func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:     make(map[string]*windowEntry),
		maxRequests: maxRequests,
		window:      window,
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, entry := range rl.clients {
			if now.Sub(entry.windowStart) > 2*rl.window {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	entry, exists := rl.clients[clientIP]
	if !exists || now.Sub(entry.windowStart) >= rl.window {
		rl.clients[clientIP] = &windowEntry{count: 1, windowStart: now}
		return true
	}

	if entry.count >= rl.maxRequests {
		return false
	}
	entry.count++
	return true
}

// Middleware returns a gin middleware that rate limits requests by
// client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			c.Abort()
			return
		}
		c.Next()
	}
}
