// Package health tracks reachability of the services the console depends on.
//
// Each registered check runs in its own background goroutine at a configurable
// interval. A check must fail failureThreshold times in a row before it is
// reported down, and succeed successThreshold times before it is reported up
// again, so a single dropped request does not flip the status bar.
package health

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

const (
	defaultFailureThreshold = 3
	defaultSuccessThreshold = 1

	// DefaultInterval replaces a non-positive Start interval.
	DefaultInterval = 30 * time.Second
)

// CheckFunc returns nil if the checked dependency is reachable.
type CheckFunc func(ctx context.Context) error

// check holds the configuration and runtime state for a single check.
//
// run is only called from one goroutine, so the counters need no locking.
// healthy and lastErr are read from anywhere.
type check struct {
	name             string
	timeout          time.Duration
	fn               CheckFunc
	failureThreshold int
	successThreshold int

	healthy atomic.Bool
	lastErr atomic.Pointer[error]
	checked atomic.Int64 // unix nanos of the last run

	consecutiveFails int
	consecutiveOK    int
}

func (c *check) lastError() error {
	if p := c.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// run executes the check once and reports whether its status flipped.
func (c *check) run(ctx context.Context, now time.Time) (changed bool) {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.fn(checkCtx)
	c.lastErr.Store(&err)
	c.checked.Store(now.UnixNano())

	was := c.healthy.Load()
	if err != nil {
		c.consecutiveOK = 0
		c.consecutiveFails++
		if c.consecutiveFails >= c.failureThreshold {
			c.healthy.Store(false)
		}
	} else {
		c.consecutiveFails = 0
		c.consecutiveOK++
		if c.consecutiveOK >= c.successThreshold {
			c.healthy.Store(true)
		}
	}
	return was != c.healthy.Load()
}

// CheckStatus is a snapshot of one check.
type CheckStatus struct {
	Name      string
	Healthy   bool
	Error     string
	CheckedAt time.Time
}

// Monitor runs reachability checks in the background.
type Monitor struct {
	now func() time.Time

	mu     sync.RWMutex
	checks []*check
	cancel context.CancelFunc
}

// Option configures a check.
type Option func(*check)

// WithThresholds overrides how many consecutive failures mark a check down
// and how many successes bring it back.
func WithThresholds(failures, successes int) Option {
	return func(c *check) {
		if failures > 0 {
			c.failureThreshold = failures
		}
		if successes > 0 {
			c.successThreshold = successes
		}
	}
}

// New creates an empty Monitor.
func New() *Monitor {
	return &Monitor{now: time.Now}
}

// Add registers a check. Checks start healthy until proven otherwise.
func (m *Monitor) Add(name string, timeout time.Duration, fn CheckFunc, opts ...Option) {
	c := &check{
		name:             name,
		timeout:          timeout,
		fn:               fn,
		failureThreshold: defaultFailureThreshold,
		successThreshold: defaultSuccessThreshold,
	}
	for _, o := range opts {
		o(c)
	}
	c.healthy.Store(true)

	m.mu.Lock()
	m.checks = append(m.checks, c)
	m.mu.Unlock()
}

// Start runs every registered check immediately and then at interval until
// Stop is called or ctx is done.
func (m *Monitor) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(ctx)

	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	m.cancel = cancel
	checks := slices.Clone(m.checks)
	m.mu.Unlock()

	for _, c := range checks {
		go m.loop(ctx, c, interval)
	}
}

func (m *Monitor) loop(ctx context.Context, c *check, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		m.runOnce(ctx, c)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (m *Monitor) runOnce(ctx context.Context, c *check) {
	if !c.run(ctx, m.now()) {
		return
	}
	lg := zctx.From(ctx).With(zap.String("check", c.name))
	if c.healthy.Load() {
		lg.Info("Dependency recovered")
	} else {
		lg.Warn("Dependency unreachable", zap.Error(c.lastError()))
	}
}

// Stop cancels the background checks. It is safe to call more than once.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// Healthy reports whether every check is currently up.
func (m *Monitor) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.checks {
		if !c.healthy.Load() {
			return false
		}
	}
	return true
}

// Status returns a snapshot of every check in registration order.
func (m *Monitor) Status() []CheckStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]CheckStatus, 0, len(m.checks))
	for _, c := range m.checks {
		s := CheckStatus{Name: c.name, Healthy: c.healthy.Load()}
		if err := c.lastError(); err != nil {
			s.Error = err.Error()
		}
		if ns := c.checked.Load(); ns != 0 {
			s.CheckedAt = time.Unix(0, ns)
		}
		out = append(out, s)
	}
	return out
}
