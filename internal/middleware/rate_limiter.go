package middleware

import (
	"sync"
	"time"

	"navhub/internal/common"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 30 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-IP token bucket for the password endpoints.
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

func NewRateLimiter(limit rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
		now:      time.Now,
	}
}

// NewAuthRateLimiter allows a burst of 5 attempts, refilling one every 2s.
func NewAuthRateLimiter() *RateLimiter {
	return NewRateLimiter(rate.Every(2*time.Second), 5)
}

func (r *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !r.allow(c.RealIP()) {
				return common.NewError(common.ErrTooManyAttempts, "too many requests, slow down")
			}
			return next(c)
		}
	}
}

func (r *RateLimiter) allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	v, exists := r.visitors[ip]
	if !exists {
		r.evictIdle(now)
		v = &visitor{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// evictIdle drops visitors unseen for limiterIdleTTL. Called with mu held.
func (r *RateLimiter) evictIdle(now time.Time) {
	for ip, v := range r.visitors {
		if now.Sub(v.lastSeen) > limiterIdleTTL {
			delete(r.visitors, ip)
		}
	}
}
