package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLimiter(cfg *Config) (*Limiter, *time.Time) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(cfg)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_WriteLimit(t *testing.T) {
	l, _ := testLimiter(&Config{Enabled: true, WriteLimit: 3, WriteWindow: time.Minute})

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("10.0.0.1", "/lists/skills/0/save", "POST")
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		assert.Equal(t, 3, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info := l.Allow("10.0.0.1", "/lists/skills/0/save", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, 20.0, info.RetryAfter.Seconds(), 0.001)
}

func TestLimiter_WritesShareOneBucket(t *testing.T) {
	l, _ := testLimiter(&Config{Enabled: true, WriteLimit: 2, WriteWindow: time.Minute})

	allowed, _ := l.Allow("c", "/lists/skills/0/edit", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("c", "/fields/phone", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("c", "/lists/cancel", "POST")
	assert.False(t, allowed)
}

func TestLimiter_ReadsUnlimited(t *testing.T) {
	l, _ := testLimiter(&Config{Enabled: true, WriteLimit: 1, WriteWindow: time.Minute})

	for i := 0; i < 50; i++ {
		allowed, _ := l.Allow("c", "/", "GET")
		if !allowed {
			t.Fatalf("GET %d was limited", i+1)
		}
	}
}

func TestLimiter_Refill(t *testing.T) {
	l, now := testLimiter(&Config{Enabled: true, WriteLimit: 60, WriteWindow: time.Minute, Rules: []Rule{
		{Path: "/contact", Method: "POST", Limit: 60, Window: time.Minute, Burst: 1},
	}})

	allowed, _ := l.Allow("c", "/contact", "POST")
	require.True(t, allowed)
	allowed, info := l.Allow("c", "/contact", "POST")
	require.False(t, allowed)
	assert.Equal(t, time.Second, info.RetryAfter)

	*now = now.Add(time.Second)
	allowed, _ = l.Allow("c", "/contact", "POST")
	assert.True(t, allowed, "one token refills per second")
}

func TestLimiter_PerClient(t *testing.T) {
	l, _ := testLimiter(&Config{Enabled: true, WriteLimit: 1, WriteWindow: time.Minute})

	allowed, _ := l.Allow("a", "/reset", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("b", "/reset", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("a", "/reset", "POST")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := testLimiter(&Config{Enabled: false, WriteLimit: 1, WriteWindow: time.Minute})
	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("c", "/contact", "POST")
		assert.True(t, allowed)
	}

	nilLimiter := NewLimiter(nil)
	allowed, _ := nilLimiter.Allow("c", "/contact", "POST")
	assert.True(t, allowed)
}

func TestLimiter_Allowlist(t *testing.T) {
	l, _ := testLimiter(&Config{Enabled: true, WriteLimit: 1, WriteWindow: time.Minute, Allowlist: []string{"127.0.0.1"}})
	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("127.0.0.1", "/contact", "POST")
		assert.True(t, allowed)
	}
}

func TestLimiter_Evict(t *testing.T) {
	l, now := testLimiter(&Config{Enabled: true, WriteLimit: 5, WriteWindow: time.Minute, IdleEviction: time.Hour})

	l.Allow("old", "/reset", "POST")
	*now = now.Add(2 * time.Hour)
	l.Allow("new", "/reset", "POST")

	assert.Equal(t, 1, l.Evict())
	assert.Len(t, l.buckets, 1)
}

func TestLimiter_Concurrent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, WriteLimit: 100, WriteWindow: time.Hour})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "/contact", "PUT"); ok {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, allowedCount)
}

func TestMatch(t *testing.T) {
	cfg := &Config{WriteLimit: 120, WriteWindow: time.Minute, Rules: append(DefaultRules(),
		Rule{Path: "/lists/", Method: "POST", Limit: 30, Window: time.Minute})}

	tests := []struct {
		path, method string
		wantLimit    int
		wantNil      bool
	}{
		{path: "/contact", method: "POST", wantLimit: 10},
		{path: "/reset", method: "POST", wantLimit: 5},
		{path: "/lists/skills/1/save", method: "POST", wantLimit: 30},
		{path: "/fields/phone", method: "POST", wantLimit: 120},
		{path: "/", method: "GET", wantNil: true},
		{path: "/contact", method: "HEAD", wantNil: true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			rule := cfg.Match(tt.path, tt.method)
			if tt.wantNil {
				assert.Nil(t, rule)
				return
			}
			require.NotNil(t, rule)
			assert.Equal(t, tt.wantLimit, rule.Limit)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_WRITE_LIMIT", "42")
	t.Setenv("RATE_LIMIT_ALLOWLIST", "10.0.0.1, 10.0.0.2")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.WriteLimit)
	assert.Equal(t, time.Minute, cfg.WriteWindow)
	assert.Len(t, cfg.Allowlist, 2)
	assert.Equal(t, DefaultRules(), cfg.Rules)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("RATE_LIMIT_WRITE_WINDOW", "0s")
	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_WRITE_WINDOW")
}
