// Package ratelimit throttles API requests with one token bucket per caller.
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/juju/ratelimit"
)

const (
	maxBuckets = 10000
	bucketIdle = 10 * time.Minute
)

// Limiter hands out token buckets keyed by caller. Buckets idle for longer
// than bucketIdle are evicted and start full on the next request.
type Limiter struct {
	rate  float64
	burst int64

	mu      sync.Mutex
	buckets *expirable.LRU[string, *ratelimit.Bucket]
}

// New returns a Limiter refilling rate tokens per second up to burst.
// A rate of zero or less disables limiting.
func New(rate float64, burst int64) *Limiter {
	l := &Limiter{rate: rate, burst: burst}
	if l.Enabled() {
		l.buckets = expirable.NewLRU[string, *ratelimit.Bucket](maxBuckets, nil, bucketIdle)
	}
	return l
}

// Enabled reports whether the limiter throttles anything.
func (l *Limiter) Enabled() bool {
	return l != nil && l.rate > 0
}

// Allow takes one token from key's bucket and reports whether one was available.
func (l *Limiter) Allow(key string) bool {
	if !l.Enabled() {
		return true
	}
	return l.bucket(key).TakeAvailable(1) > 0
}

func (l *Limiter) bucket(key string) *ratelimit.Bucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.buckets.Get(key); ok {
		return b
	}
	b := ratelimit.NewBucketWithRate(l.rate, l.burst)
	l.buckets.Add(key, b)
	return b
}

// Middleware rejects requests whose key has exhausted its bucket by calling
// onLimit instead of the next handler. Requests with an empty key pass through.
func (l *Limiter) Middleware(keyFunc func(*http.Request) string, onLimit http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !l.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key != "" && !l.Allow(key) {
				w.Header().Set("Retry-After", "1")
				onLimit(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
