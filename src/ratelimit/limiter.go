package ratelimit

import (
	"sync"
	"time"
)

type window struct {
	count int
	start time.Time
}

// Limiter is a fixed-window request counter keyed by caller identity.
// Rejection is immediate and stateless to the caller; there is no queueing.
type Limiter struct {
	mu          sync.Mutex
	windows     map[string]window
	maxRequests int
	windowSize  time.Duration
	now         func() time.Time
}

func NewLimiter(maxRequests int, windowSize time.Duration) *Limiter {
	return &Limiter{
		windows:     make(map[string]window),
		maxRequests: maxRequests,
		windowSize:  windowSize,
		now:         time.Now,
	}
}

// Allow reports whether the identity may make another request in the current
// window and records the attempt. An empty identity falls back to the shared
// "unknown" bucket.
func (l *Limiter) Allow(identity string) bool {
	if identity == "" {
		identity = "unknown"
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[identity]
	if !ok || now.Sub(w.start) > l.windowSize {
		l.windows[identity] = window{count: 1, start: now}
		return true
	}

	if w.count >= l.maxRequests {
		return false
	}

	w.count++
	l.windows[identity] = w
	return true
}

// WindowSize returns the configured window, used for retry-after hints.
func (l *Limiter) WindowSize() time.Duration {
	return l.windowSize
}
