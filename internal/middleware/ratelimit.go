// Copyright (c) 2025 Vlah Software House. All rights reserved.

package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// bucket tracks request timestamps for a single client IP.
type bucket struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// RateLimiter limits requests per client IP using a sliding window.
// It protects the public comment and contact form endpoints from abuse.
type RateLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
	stopCh  chan struct{}
}

// NewRateLimiter creates a limiter allowing limit requests per window.
// A background goroutine prunes idle buckets.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.prune()
			case <-rl.stopCh:
				return
			}
		}
	}()

	return rl
}

// Stop terminates the background pruning goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// Middleware returns an HTTP middleware that rejects clients over the
// limit with a JSON 429 response.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			writeJSONError(w, http.StatusTooManyRequests, "Too Many Requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.RLock()
	b, ok := rl.buckets[key]
	rl.mu.RUnlock()

	if !ok {
		rl.mu.Lock()
		b, ok = rl.buckets[key]
		if !ok {
			b = &bucket{}
			rl.buckets[key] = b
		}
		rl.mu.Unlock()
	}

	now := time.Now()
	cutoff := now.Add(-rl.window)

	b.mu.Lock()
	defer b.mu.Unlock()

	live := b.timestamps[:0]
	for _, ts := range b.timestamps {
		if ts.After(cutoff) {
			live = append(live, ts)
		}
	}
	b.timestamps = live

	if len(b.timestamps) >= rl.limit {
		return false
	}
	b.timestamps = append(b.timestamps, now)
	return true
}

// prune drops buckets with no activity inside the window.
func (rl *RateLimiter) prune() {
	cutoff := time.Now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, b := range rl.buckets {
		b.mu.Lock()
		active := false
		for _, ts := range b.timestamps {
			if ts.After(cutoff) {
				active = true
				break
			}
		}
		b.mu.Unlock()
		if !active {
			delete(rl.buckets, key)
		}
	}
}

// clientIP extracts the client's IP address, honoring X-Forwarded-For
// and X-Real-IP for proxied requests.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.IndexByte(xff, ','); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
