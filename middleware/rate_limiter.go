// middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/glownetwork/glow_backend/models"
)

type endpointLimit struct {
	limit rate.Limit
	burst int
}

// RateLimiter keeps a per-IP token bucket, with stricter overrides for the
// endpoints most exposed to abuse (login brute force, signup floods,
// repeated purchase requests).
type RateLimiter struct {
	mu             sync.RWMutex
	ips            map[string]*rate.Limiter
	blockedIPs     map[string]time.Time
	defaultLimit   rate.Limit
	defaultBurst   int
	blockDuration  time.Duration
	endpointLimits map[string]endpointLimit
}

func NewRateLimiter() *RateLimiter {
	limiter := &RateLimiter{
		ips:           make(map[string]*rate.Limiter),
		blockedIPs:    make(map[string]time.Time),
		defaultLimit:  rate.Every(100 * time.Millisecond), // 10 requests per second
		defaultBurst:  20,
		blockDuration: 5 * time.Minute,
		endpointLimits: map[string]endpointLimit{
			"/api/auth/login":        {limit: rate.Every(2 * time.Second), burst: 5},
			"/api/auth/signup":       {limit: rate.Every(500 * time.Millisecond), burst: 5},
			"/api/packages/purchase": {limit: rate.Every(time.Second), burst: 3},
			"/api/rank/upgrade":      {limit: rate.Every(time.Second), burst: 5},
			"/api/incentives/apply":  {limit: rate.Every(time.Second), burst: 3},
		},
	}

	go limiter.cleanup()
	return limiter
}

// cleanup periodically drops idle limiters and expired blocks.
func (rl *RateLimiter) cleanup() {
	for {
		time.Sleep(10 * time.Minute)
		rl.mu.Lock()
		now := time.Now()
		for ip, until := range rl.blockedIPs {
			if now.After(until) {
				delete(rl.blockedIPs, ip)
			}
		}
		rl.ips = make(map[string]*rate.Limiter)
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) limiterFor(ip, path string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	key := ip + path
	if limiter, ok := rl.ips[key]; ok {
		return limiter
	}

	limit, burst := rl.defaultLimit, rl.defaultBurst
	if override, ok := rl.endpointLimits[path]; ok {
		limit, burst = override.limit, override.burst
	}
	limiter := rate.NewLimiter(limit, burst)
	rl.ips[key] = limiter
	return limiter
}

// RateLimit is the echo middleware entry point.
func (rl *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			rl.mu.RLock()
			blockedUntil, blocked := rl.blockedIPs[ip]
			rl.mu.RUnlock()
			if blocked && time.Now().Before(blockedUntil) {
				return c.JSON(http.StatusTooManyRequests, models.Response{
					Status:  http.StatusTooManyRequests,
					Message: "Too many requests. Try again later.",
				})
			}

			if !rl.limiterFor(ip, c.Path()).Allow() {
				rl.mu.Lock()
				rl.blockedIPs[ip] = time.Now().Add(rl.blockDuration)
				rl.mu.Unlock()
				return c.JSON(http.StatusTooManyRequests, models.Response{
					Status:  http.StatusTooManyRequests,
					Message: "Too many requests. Try again later.",
				})
			}

			return next(c)
		}
	}
}
