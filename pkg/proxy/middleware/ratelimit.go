package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/biswatma/zerocoder/pkg/config"
	"github.com/biswatma/zerocoder/pkg/proxy"
)

// MessageRateLimited is returned to clients that exceed their rate.
const MessageRateLimited = "Too many requests. Please wait before generating again."

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP. Buckets idle for longer
// than the configured TTL are evicted.
type RateLimiter struct {
	limit      rate.Limit
	burst      int
	idleTTL    time.Duration
	trustProxy bool

	// OnReject, when set, is called for every rejected request.
	OnReject func(r *http.Request)

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter creates a limiter from cfg. trustProxy controls whether
// X-Forwarded-For identifies the client.
func NewRateLimiter(cfg config.RateLimitConfig, trustProxy bool) *RateLimiter {
	return &RateLimiter{
		limit:      rate.Limit(cfg.RequestsPerMinute / 60),
		burst:      cfg.Burst,
		idleTTL:    cfg.IdleTTL,
		trustProxy: trustProxy,
		clients:    make(map[string]*clientLimiter),
		now:        time.Now,
	}
}

// Reserve consumes a token for key. It reports whether the request may
// proceed and, if not, how long the client should wait.
func (l *RateLimiter) Reserve(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now

	res := c.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, 0
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// sweep drops idle clients at most once per TTL.
func (l *RateLimiter) sweep(now time.Time) {
	if l.idleTTL <= 0 || now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	l.lastSweep = now
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > l.idleTTL {
			delete(l.clients, key)
		}
	}
}

// Len returns the number of tracked clients.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Middleware rejects requests over the limit with 429 and a Retry-After
// header before any stream is opened.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := proxy.ClientIP(r, l.trustProxy)
		ok, wait := l.Reserve(ip)
		if ok {
			next.ServeHTTP(w, r)
			return
		}

		slog.WarnContext(r.Context(), "rate limit exceeded",
			"client_ip", ip,
			"retry_after", wait,
		)
		if l.OnReject != nil {
			l.OnReject(r)
		}
		if wait > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		}
		_ = proxy.WriteErrorResponse(w, http.StatusTooManyRequests, MessageRateLimited)
	})
}
