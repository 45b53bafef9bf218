package middleware

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/juju/ratelimit"

	"github.com/JaimeStill/drugx/pkg/handlers"
	"github.com/JaimeStill/drugx/pkg/metrics"
)

var errRateLimited = errors.New("rate limit exceeded, retry later")

// RateLimitConfig holds per-client token bucket settings.
type RateLimitConfig struct {
	Enabled  bool    `toml:"enabled"`
	Rate     float64 `toml:"rate"`
	Capacity int64   `toml:"capacity"`
}

// RateLimitEnv maps rate limit fields to environment variable names.
type RateLimitEnv struct {
	Enabled  string
	Rate     string
	Capacity string
}

// Finalize applies defaults and environment variable overrides.
func (c *RateLimitConfig) Finalize(env *RateLimitEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	if c.Rate <= 0 {
		return errors.New("rate must be positive")
	}
	if c.Capacity < 1 {
		return errors.New("capacity must be positive")
	}
	return nil
}

// Merge overwrites fields from overlay. Enabled always applies.
func (c *RateLimitConfig) Merge(overlay *RateLimitConfig) {
	c.Enabled = overlay.Enabled
	if overlay.Rate != 0 {
		c.Rate = overlay.Rate
	}
	if overlay.Capacity != 0 {
		c.Capacity = overlay.Capacity
	}
}

func (c *RateLimitConfig) loadDefaults() {
	if c.Rate == 0 {
		c.Rate = 1
	}
	if c.Capacity == 0 {
		c.Capacity = 10
	}
}

func (c *RateLimitConfig) loadEnv(env *RateLimitEnv) {
	if b, err := strconv.ParseBool(getenv(env.Enabled)); err == nil {
		c.Enabled = b
	}
	if f, err := strconv.ParseFloat(getenv(env.Rate), 64); err == nil {
		c.Rate = f
	}
	if n, err := strconv.ParseInt(getenv(env.Capacity), 10, 64); err == nil {
		c.Capacity = n
	}
}

type limiter struct {
	cfg     *RateLimitConfig
	mu      sync.Mutex
	clients map[string]*ratelimit.Bucket
	pruned  time.Time
}

// RateLimit returns middleware enforcing a token bucket per client address.
// Requests without an available token receive 429.
func RateLimit(cfg *RateLimitConfig) Func {
	l := &limiter{
		cfg:     cfg,
		clients: make(map[string]*ratelimit.Bucket),
		pruned:  time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			bucket := l.bucket(clientAddr(r))
			if bucket.TakeAvailable(1) < 1 {
				w.Header().Set("Retry-After", strconv.Itoa(int(max(1, 1/cfg.Rate))))
				handlers.RespondJSON(w, http.StatusTooManyRequests, handlers.ErrorBody{Error: errRateLimited.Error()})
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(bucket.Available(), 10))
			next.ServeHTTP(w, r)
		})
	}
}

func (l *limiter) bucket(addr string) *ratelimit.Bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Since(l.pruned) > 10*time.Minute {
		for key, b := range l.clients {
			if b.Available() == b.Capacity() {
				delete(l.clients, key)
			}
		}
		l.pruned = time.Now()
	}

	b, ok := l.clients[addr]
	if !ok {
		b = ratelimit.NewBucketWithRate(l.cfg.Rate, l.cfg.Capacity)
		l.clients[addr] = b
	}
	metrics.RateLimiterBuckets.Set(float64(len(l.clients)))
	return b
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
