package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	apperrors "gdpdash/pkg/errors"
)

// sweepThreshold bounds how many idle client windows accumulate before a sweep
const sweepThreshold = 4096

// SlidingWindowLimiter allows at most limit requests per key within a rolling window
type SlidingWindowLimiter struct {
	mu         sync.Mutex
	windows    map[string]*window
	limit      int
	windowSize time.Duration
	now        func() time.Time
}

type window struct {
	requests []time.Time
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter
func NewSlidingWindowLimiter(limit int, windowSize time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		windows:    make(map[string]*window),
		limit:      limit,
		windowSize: windowSize,
		now:        time.Now,
	}
}

// Allow records a request for key and reports whether it fits in the window
func (l *SlidingWindowLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.windowSize)

	if len(l.windows) > sweepThreshold {
		l.sweep(windowStart)
	}

	w, exists := l.windows[key]
	if !exists {
		w = &window{}
		l.windows[key] = w
	}

	// Remove old requests outside the window
	kept := w.requests[:0]
	for _, reqTime := range w.requests {
		if reqTime.After(windowStart) {
			kept = append(kept, reqTime)
		}
	}
	w.requests = kept

	if len(w.requests) >= l.limit {
		return false
	}

	w.requests = append(w.requests, now)
	return true
}

// sweep drops windows whose requests have all expired
func (l *SlidingWindowLimiter) sweep(windowStart time.Time) {
	for key, w := range l.windows {
		if n := len(w.requests); n == 0 || !w.requests[n-1].After(windowStart) {
			delete(l.windows, key)
		}
	}
}

// RateLimit rejects clients that exceed requestsPerMinute with 429. Clients are
// keyed by remote address, so RealIP should run first.
func RateLimit(requestsPerMinute int, errorHandler *apperrors.ErrorHandler) func(http.Handler) http.Handler {
	limiter := NewSlidingWindowLimiter(requestsPerMinute, time.Minute)
	return rateLimitWith(limiter, errorHandler)
}

func rateLimitWith(limiter *SlidingWindowLimiter, errorHandler *apperrors.ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(int(limiter.windowSize.Seconds())))
				errorHandler.Handle(w, r, apperrors.NewRateLimitError(limiter.limit, limiter.windowSize.String()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
