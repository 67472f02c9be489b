// middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// EndpointLimit overrides the default rate for one route path
type EndpointLimit struct {
	Limit rate.Limit
	Burst int
}

type RateLimiter struct {
	ips            map[string]*rate.Limiter
	blockedIPs     map[string]time.Time
	mu             *sync.Mutex
	defaultLimit   rate.Limit
	defaultBurst   int
	blockDuration  time.Duration
	endpointLimits map[string]EndpointLimit
}

func NewRateLimiter(endpointLimits map[string]EndpointLimit) *RateLimiter {
	limiter := &RateLimiter{
		ips:            make(map[string]*rate.Limiter),
		blockedIPs:     make(map[string]time.Time),
		mu:             &sync.Mutex{},
		defaultLimit:   rate.Every(100 * time.Millisecond), // 10 requests per second
		defaultBurst:   20,
		blockDuration:  time.Minute,
		endpointLimits: make(map[string]EndpointLimit),
	}
	for path, l := range endpointLimits {
		limiter.endpointLimits[path] = l
	}

	go limiter.cleanupBlockedIPs()

	return limiter
}

// APIEndpointLimits are the per-route limits of the ordering API
func APIEndpointLimits() map[string]EndpointLimit {
	return map[string]EndpointLimit{
		"/api/orders/checkout":          {Limit: rate.Every(2 * time.Second), Burst: 3},
		"/api/favorites/toggle":         {Limit: rate.Every(200 * time.Millisecond), Burst: 10},
		"/api/notifications/initialize": {Limit: rate.Every(10 * time.Second), Burst: 3},
	}
}

// MailRelayEndpointLimits keep the relay from being used to spam
func MailRelayEndpointLimits() map[string]EndpointLimit {
	return map[string]EndpointLimit{
		"/api/email/contact":            {Limit: rate.Every(10 * time.Second), Burst: 5},
		"/api/email/booking":            {Limit: rate.Every(10 * time.Second), Burst: 5},
		"/api/email/order-confirmation": {Limit: rate.Every(2 * time.Second), Burst: 10},
	}
}

func (r *RateLimiter) cleanupBlockedIPs() {
	for {
		time.Sleep(1 * time.Hour)
		r.mu.Lock()
		now := time.Now()
		for ip, blockUntil := range r.blockedIPs {
			if now.After(blockUntil) {
				delete(r.blockedIPs, ip)
				// Also remove the limiters to reset their state
				for key := range r.ips {
					if strings.HasPrefix(key, ip+"|") {
						delete(r.ips, key)
					}
				}
			}
		}
		r.mu.Unlock()
	}
}

func (r *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			r.mu.Lock()
			if blockUntil, blocked := r.blockedIPs[ip]; blocked {
				if time.Now().Before(blockUntil) {
					r.mu.Unlock()
					return tooManyRequests(c, "IP address blocked due to too many requests", blockUntil)
				}
				delete(r.blockedIPs, ip)
			}
			r.mu.Unlock()

			path := c.Path()
			limit := r.defaultLimit
			burst := r.defaultBurst
			key := ip + "|"
			if endpointLimit, exists := r.endpointLimits[path]; exists {
				limit = endpointLimit.Limit
				burst = endpointLimit.Burst
				key = ip + "|" + path
			}

			if !r.getLimiter(key, limit, burst).Allow() {
				blockUntil := time.Now().Add(r.blockDuration)
				r.mu.Lock()
				r.blockedIPs[ip] = blockUntil
				r.mu.Unlock()
				return tooManyRequests(c, "Too many requests", blockUntil)
			}

			return next(c)
		}
	}
}

func (r *RateLimiter) getLimiter(key string, limit rate.Limit, burst int) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	limiter, exists := r.ips[key]
	if !exists {
		limiter = rate.NewLimiter(limit, burst)
		r.ips[key] = limiter
	}
	return limiter
}

func tooManyRequests(c echo.Context, message string, retryAfter time.Time) error {
	return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
		"success":    false,
		"message":    message,
		"retryAfter": retryAfter.Format(time.RFC3339),
	})
}
