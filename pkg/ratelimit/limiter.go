package ratelimit

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	// Allow checks if a request is allowed under the current rate limit
	Allow() bool
	// RetryAfter returns how long until the next request would be allowed
	RetryAfter() time.Duration
}

// SlidingWindow implements a sliding window rate limiter
type SlidingWindow struct {
	windowSize  time.Duration
	maxRequests int
	requests    []time.Time
	now         func() time.Time
	mu          sync.Mutex
}

// NewSlidingWindow creates a new sliding window rate limiter
func NewSlidingWindow(maxRequests int, windowSize time.Duration) *SlidingWindow {
	return &SlidingWindow{
		windowSize:  windowSize,
		maxRequests: maxRequests,
		requests:    make([]time.Time, 0, maxRequests),
		now:         time.Now,
	}
}

// Allow checks if a request can proceed
func (sw *SlidingWindow) Allow() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := sw.now()
	sw.cleanOldRequests(now)

	if len(sw.requests) < sw.maxRequests {
		sw.requests = append(sw.requests, now)
		return true
	}

	return false
}

// RetryAfter returns zero when a request would be allowed now
func (sw *SlidingWindow) RetryAfter() time.Duration {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := sw.now()
	sw.cleanOldRequests(now)

	if len(sw.requests) < sw.maxRequests || len(sw.requests) == 0 {
		return 0
	}
	return sw.windowSize - now.Sub(sw.requests[0])
}

// cleanOldRequests removes requests outside the sliding window
func (sw *SlidingWindow) cleanOldRequests(now time.Time) {
	cutoff := now.Add(-sw.windowSize)

	i := 0
	for i < len(sw.requests) && !sw.requests[i].After(cutoff) {
		i++
	}
	if i > 0 {
		sw.requests = append(sw.requests[:0], sw.requests[i:]...)
	}
}

// Registry hands out one limiter per key, such as a session id. Idle keys
// are forgotten after the window passes without use.
type Registry struct {
	mu          sync.Mutex
	limiters    *expirable.LRU[string, *SlidingWindow]
	maxRequests int
	windowSize  time.Duration
}

// NewRegistry creates a registry tracking at most size keys
func NewRegistry(size, maxRequests int, windowSize time.Duration) *Registry {
	return &Registry{
		limiters:    expirable.NewLRU[string, *SlidingWindow](size, nil, windowSize),
		maxRequests: maxRequests,
		windowSize:  windowSize,
	}
}

// Get returns the limiter for key, creating it on first use
func (r *Registry) Get(key string) Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.limiters.Get(key); ok {
		// refresh expiry so an active key keeps its history
		r.limiters.Add(key, l)
		return l
	}
	l := NewSlidingWindow(r.maxRequests, r.windowSize)
	r.limiters.Add(key, l)
	return l
}

// Allow is shorthand for Get(key).Allow()
func (r *Registry) Allow(key string) bool {
	return r.Get(key).Allow()
}
