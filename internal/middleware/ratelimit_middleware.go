package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/SmartDevNG/smartdev_api/internal/utils"
)

// SessionCreateLimiter is a fixed-window, per-IP limiter for opening
// purchase sessions.
type SessionCreateLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptInfo
	limit    int
	window   time.Duration
	now      func() time.Time
}

type attemptInfo struct {
	count   int
	firstAt time.Time
}

// NewSessionCreateLimiter allows limit session creations per IP per window.
func NewSessionCreateLimiter(limit int, window time.Duration) *SessionCreateLimiter {
	return &SessionCreateLimiter{
		attempts: make(map[string]*attemptInfo),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow records an attempt from ip. When the window is spent it returns
// false and how long until the window reopens. A limit of zero or less
// disables limiting.
func (r *SessionCreateLimiter) Allow(ip string) (bool, time.Duration) {
	if r.limit <= 0 {
		return true, 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	info, exists := r.attempts[ip]
	if !exists || now.Sub(info.firstAt) >= r.window {
		r.attempts[ip] = &attemptInfo{count: 1, firstAt: now}
		return true, 0
	}

	if info.count >= r.limit {
		return false, info.firstAt.Add(r.window).Sub(now)
	}
	info.count++
	return true, 0
}

// Middleware rejects requests over the limit with 429 and Retry-After.
func (r *SessionCreateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := r.Allow(c.ClientIP())
		if !ok {
			log.Warn().Str("ip", c.ClientIP()).Dur("retry_after", wait).Msg("Session creation rate limited")
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			utils.AbortWithError(c, http.StatusTooManyRequests, utils.ErrTooManyRequests.Error(), "Too many purchase sessions, try again shortly")
			return
		}
		c.Next()
	}
}

// Start drops expired windows periodically until ctx is canceled.
func (r *SessionCreateLimiter) Start(ctx context.Context) {
	ticker := time.NewTicker(5 * r.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-ctx.Done():
			return
		}
	}
}

func (r *SessionCreateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for ip, info := range r.attempts {
		if now.Sub(info.firstAt) >= r.window {
			delete(r.attempts, ip)
		}
	}
}
