// Package middleware – per-sender token-bucket rate limiting.
//
// The limiter is process-local, which matches the single-process session
// store: one instance owns a user's dialog, so it can own the user's bucket
// too. Buckets are created on demand and idle ones are evicted
// opportunistically to bound memory.
//
// The webhook learns the sender only after parsing the update body, so the
// limiter exposes AllowKey for in-handler checks in addition to the IP-keyed
// edge middleware.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitor holds a single bucket and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter implements per-key token buckets. Safe for concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*visitor

	ttl      time.Duration
	cleanupN uint64
}

// NewRateLimiter constructs a limiter with the given tokens-per-second and
// burst size. burst values <= 0 are coerced to 1.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		visitors: make(map[string]*visitor),
		ttl:      10 * time.Minute,
	}
}

// getVisitor returns the bucket for key, creating it if absent. Idle buckets
// are garbage-collected after ~5000 lookups; the GC runs before the fetch so
// a stale entry for the requested key is evicted rather than refreshed.
func (rl *RateLimiter) getVisitor(key string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	rl.cleanupN++
	if rl.cleanupN >= 5000 {
		for k, vv := range rl.visitors {
			if now.Sub(vv.lastSeen) >= rl.ttl {
				delete(rl.visitors, k)
			}
		}
		rl.cleanupN = 0
	}

	if v, ok := rl.visitors[key]; ok {
		v.lastSeen = now
		lim := v.limiter
		rl.mu.Unlock()
		return lim
	}

	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	rl.mu.Unlock()
	return lim
}

// AllowKey reports whether one event for key may proceed now.
func (rl *RateLimiter) AllowKey(key string) bool {
	return rl.getVisitor(key).Allow()
}

// AllowUser is AllowKey for a chat-platform user id.
func (rl *RateLimiter) AllowUser(userID int64) bool {
	return rl.AllowKey("user:" + strconv.FormatInt(userID, 10))
}

// Handler returns an IP-keyed edge middleware. Rejections carry a compact
// JSON body and a minimal Retry-After header.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.AllowKey("ip:" + c.ClientIP()) {
			c.Next()
			return
		}
		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "rate_limited",
			"message":    "rate limit exceeded",
		})
	}
}
