package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	pkgerrors "relationmap/pkg/errors"
)

// IPRateLimiter allows a fixed number of requests per client IP inside a
// sliding window
type IPRateLimiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	limit   int
	window  time.Duration
	now     func() time.Time
}

// NewIPRateLimiter creates a limiter allowing limit requests per window
func NewIPRateLimiter(limit int, window time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		windows: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow records a request from ip and reports whether it is within the limit
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	start := now.Add(-l.window)

	kept := l.windows[ip][:0]
	for _, t := range l.windows[ip] {
		if t.After(start) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= l.limit {
		l.windows[ip] = kept
		return false
	}
	l.windows[ip] = append(kept, now)
	l.sweep(start)
	return true
}

// sweep drops clients with no request inside the window
func (l *IPRateLimiter) sweep(start time.Time) {
	if len(l.windows) < 1024 {
		return
	}
	for ip, reqs := range l.windows {
		if len(reqs) == 0 || !reqs[len(reqs)-1].After(start) {
			delete(l.windows, ip)
		}
	}
}

// RateLimit rejects requests over the limiter's budget with 429. It expects
// RealIP to have run so RemoteAddr is the client address.
func RateLimit(limiter *IPRateLimiter, errs *pkgerrors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(int(limiter.window.Seconds())))
				errs.HandleStatus(w, r, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
