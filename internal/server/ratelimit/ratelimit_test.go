package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests advance time without sleeping
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	l.now = clock.Now
	t.Cleanup(l.Stop)
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("127.0.0.1", "/resume", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", "/resume", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, float64(6*time.Second), float64(info.RetryAfter), float64(time.Millisecond))
}

func TestLimiter_Refill(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute})

	for i := 0; i < 60; i++ {
		l.Allow("10.0.0.1", "/resume", "GET")
	}
	allowed, _ := l.Allow("10.0.0.1", "/resume", "GET")
	require.False(t, allowed)

	clock.Advance(time.Second)
	allowed, _ = l.Allow("10.0.0.1", "/resume", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("10.0.0.1", "/resume", "GET")
	assert.False(t, allowed)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	allowed, _ := l.Allow("10.0.0.1", "/resume", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("10.0.0.1", "/resume", "GET")
	assert.False(t, allowed)
	allowed, _ = l.Allow("10.0.0.2", "/resume", "GET")
	assert.True(t, allowed)
}

func TestLimiter_Lists(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})

	for i := 0; i < 20; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/resume", "GET")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("10.0.0.2", "/resume", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: false, DefaultLimit: 1, DefaultWindow: time.Minute})

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("10.0.0.1", "/requests", "POST")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestLimiter_EndpointBurst(t *testing.T) {
	cfg := DefaultConfig()
	l, _ := newTestLimiter(t, cfg)

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("10.0.0.1", "/requests", "POST")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 60, info.Limit)
	}
	allowed, _ := l.Allow("10.0.0.1", "/requests", "POST")
	assert.False(t, allowed)

	// other endpoints keep their own buckets
	allowed, _ = l.Allow("10.0.0.1", "/resume", "GET")
	assert.True(t, allowed)
}

func TestLimiter_PrefixSharesBucket(t *testing.T) {
	cfg := &Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		EndpointConfigs: []EndpointConfig{{Path: "/sections/", Method: "POST", Limit: 2, Window: time.Minute}},
	}
	l, _ := newTestLimiter(t, cfg)

	allowed, _ := l.Allow("10.0.0.1", "/sections/skills/add", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("10.0.0.1", "/sections/summary/update", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("10.0.0.1", "/sections/projects/add", "POST")
	assert.False(t, allowed)
}

func TestLimiter_HealthIsUnlimited(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_CleanupDropsIdleBuckets(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute, IdleTTL: time.Minute})

	l.Allow("10.0.0.1", "/resume", "GET")
	clock.Advance(30 * time.Second)
	l.Allow("10.0.0.2", "/resume", "GET")
	clock.Advance(45 * time.Second)

	l.cleanup()
	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.buckets, 1)
	assert.Contains(t, l.buckets, "10.0.0.2:GET:/resume")
}

func TestLimiter_ConcurrentAccess(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("10.0.0.1", "/resume", "GET"); ok {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowedCount)
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Hour})
	l.Stop()
	l.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name   string
		path   string
		method string
		want   string
	}{
		{name: "exact", path: "/requests", method: "POST", want: "/requests"},
		{name: "prefix", path: "/sections/skills/add", method: "POST", want: "/sections/"},
		{name: "method mismatch", path: "/requests", method: "GET"},
		{name: "no match", path: "/resume", method: "GET"},
		{name: "health", path: "/health", method: "GET", want: "/health"},
		{name: "metrics", path: "/metrics", method: "GET", want: "/metrics"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Path)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2,")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Whitelist)
	assert.Len(t, cfg.EndpointConfigs, 2)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
