package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of one CheckAndIncrement call.
type Decision struct {
	Allowed bool
	Count   int       // attempts in the current window, this one included
	ResetAt time.Time // moment the window expires
}

// RetryAfter returns how long the client should wait, rounded up to a second.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	wait := d.ResetAt.Sub(now)
	if wait <= 0 {
		return 0
	}
	return (wait + time.Second - 1).Truncate(time.Second)
}

type entry struct {
	count   int
	resetAt time.Time
}

// WindowLimiter allows at most max attempts per client within a window that
// starts at the client's first attempt. Over-budget attempts still count.
type WindowLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	max     int
	window  time.Duration
	now     func() time.Time
}

type Option func(*WindowLimiter)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *WindowLimiter) { l.now = now }
}

// NewWindowLimiter creates a limiter allowing max attempts per window.
func NewWindowLimiter(max int, window time.Duration, opts ...Option) *WindowLimiter {
	l := &WindowLimiter{
		entries: make(map[string]*entry),
		max:     max,
		window:  window,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *WindowLimiter) Max() int              { return l.max }
func (l *WindowLimiter) Window() time.Duration { return l.window }

// CheckAndIncrement counts an attempt for key and reports whether it fits the budget.
func (l *WindowLimiter) CheckAndIncrement(key string) Decision {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	ent, ok := l.entries[key]
	if !ok || now.After(ent.resetAt) {
		ent = &entry{count: 1, resetAt: now.Add(l.window)}
		l.entries[key] = ent
		return Decision{Allowed: true, Count: 1, ResetAt: ent.resetAt}
	}

	ent.count++
	return Decision{Allowed: ent.count <= l.max, Count: ent.count, ResetAt: ent.resetAt}
}

// Allow is CheckAndIncrement reduced to its verdict.
func (l *WindowLimiter) Allow(key string) bool {
	return l.CheckAndIncrement(key).Allowed
}

// Len returns the number of tracked clients, expired ones included.
func (l *WindowLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Cleanup drops every entry whose window has expired.
func (l *WindowLimiter) Cleanup() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for k, ent := range l.entries {
		if now.After(ent.resetAt) {
			delete(l.entries, k)
			removed++
		}
	}
	return removed
}

// StartJanitor runs Cleanup every interval until ctx is cancelled.
func (l *WindowLimiter) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}

	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Cleanup()
			}
		}
	}()
}
