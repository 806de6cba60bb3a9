package httptransport

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

// RateLimitConfig configures the outbound sliding window limiter.
type RateLimitConfig struct {
	// Max is the maximum number of requests allowed per window.
	Max int
	// Window is the duration of each sliding window.
	Window time.Duration
	// KeyFunc extracts the limit key from a request. If nil, the target host
	// is used.
	KeyFunc func(*http.Request) string
}

// RateLimitError is returned instead of sending a request over the limit.
type RateLimitError struct {
	Key        string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s, retry in %s", e.Key, e.RetryAfter.Round(time.Second))
}

// window tracks request counts across two adjacent windows.
type window struct {
	prevCount float64
	prevStart time.Time
	currCount float64
	currStart time.Time
}

type rateLimiter struct {
	cfg     RateLimitConfig
	now     func() time.Time
	mu      sync.Mutex
	windows map[string]*window
}

func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(r *http.Request) string { return r.URL.Host }
	}
	return &rateLimiter{
		cfg:     cfg,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

// allow reports whether one more request for key fits and, if not, when the
// current window resets.
func (rl *rateLimiter) allow(key string, now time.Time) (resetAt time.Time, allowed bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok {
		w = &window{currStart: now}
		rl.windows[key] = w
	}

	if now.Sub(w.currStart) >= rl.cfg.Window {
		w.prevCount = w.currCount
		w.prevStart = w.currStart
		w.currCount = 0
		w.currStart = now.Truncate(rl.cfg.Window)
		if now.Sub(w.prevStart) >= 2*rl.cfg.Window {
			w.prevCount = 0
		}
	}

	// Weight the previous window by how much of it still overlaps.
	elapsed := now.Sub(w.currStart)
	overlap := 1.0 - elapsed.Seconds()/rl.cfg.Window.Seconds()
	if overlap < 0 {
		overlap = 0
	}
	resetAt = w.currStart.Add(rl.cfg.Window)

	if w.prevCount*overlap+w.currCount >= float64(rl.cfg.Max) {
		return resetAt, false
	}
	w.currCount++
	return resetAt, true
}

// RateLimit refuses requests over the limit with a *RateLimitError without
// sending them. A non-positive Max or Window disables limiting.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.Max <= 0 || cfg.Window <= 0 {
		return func(next http.RoundTripper) http.RoundTripper { return next }
	}
	rl := newRateLimiter(cfg)
	return rl.middleware
}

func (rl *rateLimiter) middleware(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		key := rl.cfg.KeyFunc(req)
		now := rl.now()
		resetAt, allowed := rl.allow(key, now)
		if !allowed {
			return nil, &RateLimitError{Key: key, RetryAfter: max(resetAt.Sub(now), 0)}
		}
		return next.RoundTrip(req)
	})
}
