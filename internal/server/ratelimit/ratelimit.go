// Package ratelimit throttles form posts per client with token buckets.
package ratelimit

import (
	"context"
	"log"
	"slices"
	"sync"
	"time"
)

type bucket struct {
	capacity   float64
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	lastSeen   time.Time
}

func newBucket(rule *Rule, now time.Time) *bucket {
	capacity := rule.Burst
	if capacity <= 0 {
		capacity = rule.Limit
	}
	return &bucket{
		capacity:   float64(capacity),
		refillRate: float64(rule.Limit) / rule.Window.Seconds(),
		tokens:     float64(capacity),
		lastRefill: now,
	}
}

func (b *bucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = min(b.capacity, b.tokens+elapsed*b.refillRate)
	b.lastRefill = now
}

// take consumes a token if one is available and reports how long until the next one.
func (b *bucket) take(now time.Time) (bool, time.Duration) {
	b.refill(now)
	b.lastSeen = now
	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	missing := 1 - b.tokens
	return false, time.Duration(missing / b.refillRate * float64(time.Second))
}

// Info describes the outcome of one check.
type Info struct {
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter tracks one bucket per client and rule.
type Limiter struct {
	config *Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewLimiter creates a limiter. A nil config disables limiting.
func NewLimiter(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Limiter{
		config:  cfg,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// Allow reports whether a request from clientID may proceed.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || slices.Contains(l.config.Allowlist, clientID) {
		return true, Info{}
	}
	rule := l.config.Match(path, method)
	if rule == nil || rule.Limit <= 0 {
		return true, Info{}
	}

	key := clientID + " " + rule.Method + " " + rule.Path
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = newBucket(rule, now)
		l.buckets[key] = b
	}
	allowed, retryAfter := b.take(now)
	return allowed, Info{
		Limit:      rule.Limit,
		Remaining:  int(b.tokens),
		RetryAfter: retryAfter,
	}
}

// Evict drops buckets idle for longer than the configured eviction age and returns how many
// were dropped.
func (l *Limiter) Evict() int {
	if l.config.IdleEviction <= 0 {
		return 0
	}
	cutoff := l.now().Add(-l.config.IdleEviction)

	l.mu.Lock()
	defer l.mu.Unlock()

	dropped := 0
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			dropped++
		}
	}
	return dropped
}

// Run evicts idle buckets every interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) error {
	if !l.config.Enabled || interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := l.Evict(); n > 0 {
				log.Printf("[rate-limit] evicted %d idle buckets", n)
			}
		}
	}
}
