package ratelimit

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// visitor tracks the limiter and last seen time for a client.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter hands out one token bucket per client key.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
}

// New creates a Limiter allowing rps requests per second with the given burst.
// A non-positive rps disables limiting.
func New(rps, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		idleTTL:  3 * time.Minute,
		now:      time.Now,
	}
}

// Allow reports whether key may proceed now.
func (l *Limiter) Allow(key string) bool {
	if l.rps <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

// Sweep drops visitors idle for longer than the idle TTL and returns how many were removed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	cutoff := l.now().Add(-l.idleTTL)
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}

// Run sweeps idle visitors every interval until stop is closed.
func (l *Limiter) Run(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-stop:
			return
		}
	}
}

// KeyFunc picks the bucket a request is charged to.
type KeyFunc func(c *fiber.Ctx) string

// ByIP charges the client address as resolved by the app's proxy settings.
func ByIP(c *fiber.Ctx) string {
	return c.IP()
}

// ByShopAndIP charges the client address within the shop named by the query.
func ByShopAndIP(c *fiber.Ctx) string {
	return strings.ToLower(strings.TrimSpace(c.Query("shop"))) + "|" + c.IP()
}

// Middleware rejects clients over their budget with 429. A nil key means ByIP.
func (l *Limiter) Middleware(key KeyFunc) fiber.Handler {
	if key == nil {
		key = ByIP
	}
	return func(c *fiber.Ctx) error {
		if l.Allow(key(c)) {
			return c.Next()
		}

		rayID, _ := c.Locals("requestid").(string)
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":   "Too Many Requests",
			"message": "Please wait a moment before trying again.",
			"ray_id":  rayID,
		})
	}
}
