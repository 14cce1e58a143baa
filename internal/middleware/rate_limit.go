package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client IP.
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	every    rate.Limit
	burst    int
	idle     time.Duration
}

func NewIPRateLimiter(perMinute, burst int) *IPRateLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = perMinute
	}
	return &IPRateLimiter{
		limiters: make(map[string]*limiterEntry),
		every:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		idle:     10 * time.Minute,
	}
}

func (l *IPRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.limiters[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.every, l.burst)}
		l.limiters[ip] = e
	}
	e.lastSeen = time.Now()
	return e.limiter
}

// Allow takes one token from ip's bucket.
func (l *IPRateLimiter) Allow(ip string) bool { return l.get(ip).Allow() }

// Sweep forgets buckets idle for longer than the idle window.
func (l *IPRateLimiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for ip, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.idle {
			delete(l.limiters, ip)
			removed++
		}
	}
	return removed
}

// Run sweeps periodically until done is closed.
func (l *IPRateLimiter) Run(done <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			l.Sweep(now)
		}
	}
}

func RateLimit(l *IPRateLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !l.Allow(ClientIP(c)) {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many requests, please try again later")
		}
		return c.Next()
	}
}

// ClientIP prefers the first X-Forwarded-For hop over the socket address.
func ClientIP(c *fiber.Ctx) string {
	if ips := c.IPs(); len(ips) > 0 && ips[0] != "" {
		return ips[0]
	}
	return c.IP()
}
