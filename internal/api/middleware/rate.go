package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
	// IdleTTL drops per-client state unused for this long.
	IdleTTL time.Duration
}

// DefaultRateLimitConfig returns a rate limit suited to scrapers and probes.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 20,
		Burst:             40,
		IdleTTL:           10 * time.Minute,
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitors holds one token bucket per client.
type visitors struct {
	cfg RateLimitConfig

	mu    sync.Mutex
	seen  map[string]*visitor
	swept time.Time
}

func newVisitors(cfg RateLimitConfig) *visitors {
	return &visitors{cfg: cfg, seen: make(map[string]*visitor), swept: time.Now()}
}

// take spends a token for key. When none is left it returns how long the
// client should wait.
func (v *visitors) take(key string, now time.Time) (time.Duration, bool) {
	v.mu.Lock()
	if v.cfg.IdleTTL > 0 && now.Sub(v.swept) > v.cfg.IdleTTL {
		for k, vis := range v.seen {
			if now.Sub(vis.lastSeen) > v.cfg.IdleTTL {
				delete(v.seen, k)
			}
		}
		v.swept = now
	}
	vis, ok := v.seen[key]
	if !ok {
		vis = &visitor{limiter: rate.NewLimiter(rate.Limit(v.cfg.RequestsPerSecond), v.cfg.Burst)}
		v.seen[key] = vis
	}
	vis.lastSeen = now
	limiter := vis.limiter
	v.mu.Unlock()

	r := limiter.ReserveN(now, 1)
	if !r.OK() {
		return 0, false
	}
	if wait := r.DelayFrom(now); wait > 0 {
		r.CancelAt(now)
		return wait, false
	}
	return 0, true
}

// RateLimit creates a per-IP rate limiting middleware. Rejected requests
// carry a Retry-After header.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	v := newVisitors(cfg)

	return func(c *gin.Context) {
		if wait, ok := v.take(c.ClientIP(), time.Now()); !ok {
			if wait > 0 {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
