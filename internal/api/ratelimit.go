// Per-client rate limiting for the trust-report endpoint. Trust scores are
// recomputed from the full ledger on every query, so the profile route is the
// one worth guarding.
package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter allows a fixed number of requests per client per window.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*window
	limit   int
	period  time.Duration
}

type window struct {
	remaining int
	openedAt  time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per period.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		period:  period,
	}
	go rl.reapLoop()
	return rl
}

// Allow reports whether the client may proceed, consuming one slot if so.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.clients[client]
	if !ok || now.Sub(w.openedAt) >= rl.period {
		rl.clients[client] = &window{remaining: rl.limit - 1, openedAt: now}
		return true
	}
	if w.remaining > 0 {
		w.remaining--
		return true
	}
	return false
}

// RetryAfter returns seconds until the client's window reopens.
func (rl *RateLimiter) RetryAfter(client string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.clients[client]
	if !ok {
		return 0
	}
	left := rl.period - time.Since(w.openedAt)
	if left <= 0 {
		return 0
	}
	return int(left.Seconds()) + 1
}

func (rl *RateLimiter) reapLoop() {
	for {
		time.Sleep(time.Hour)
		rl.mu.Lock()
		now := time.Now()
		for client, w := range rl.clients {
			if now.Sub(w.openedAt) > 2*rl.period {
				delete(rl.clients, client)
			}
		}
		rl.mu.Unlock()
	}
}

// limited wraps a handler with the rate limiter, answering 429 past the cap.
func limited(rl *RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	if rl == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		client := clientKey(r)
		if !rl.Allow(client) {
			w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter(client)))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// clientKey identifies the caller: the first forwarded address when proxied,
// otherwise the connection's remote host.
func clientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
