package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// frozen returns a limiter whose clock only moves when the test advances it.
func frozen(t *testing.T, config *Config) (*Limiter, func(time.Duration)) {
	t.Helper()
	l := NewLimiter(config)
	t.Cleanup(l.Stop)
	now := epoch
	l.now = func() time.Time { return now }
	return l, func(d time.Duration) { now = now.Add(d) }
}

// drain issues n requests and returns how many were allowed.
func drain(l *Limiter, client, path, method string, n int) int {
	allowed := 0
	for range n {
		if ok, _ := l.Allow(client, path, method); ok {
			allowed++
		}
	}
	return allowed
}

func TestAllow_CountsDownThenDenies(t *testing.T) {
	l, _ := frozen(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := range 10 {
		ok, info := l.Allow("10.0.0.1", "/analyses", "GET")
		if !ok || info.Limit != 10 || info.Remaining != 9-i {
			t.Fatalf("request %d: allowed=%v limit=%d remaining=%d", i+1, ok, info.Limit, info.Remaining)
		}
	}

	ok, info := l.Allow("10.0.0.1", "/analyses", "GET")
	if ok {
		t.Fatal("Expected request over the limit to be denied")
	}
	if info.Remaining != 0 {
		t.Errorf("Expected remaining 0, got %d", info.Remaining)
	}
	if info.RetryAfter != 6*time.Second {
		t.Errorf("Expected one token in 6s, got %v", info.RetryAfter)
	}
	if !info.ResetTime.Equal(epoch.Add(time.Minute)) {
		t.Errorf("Expected full bucket at %v, got %v", epoch.Add(time.Minute), info.ResetTime)
	}
}

func TestAllow_Refills(t *testing.T) {
	l, advance := frozen(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: 10 * time.Second})

	if got := drain(l, "c", "/analyses", "GET", 11); got != 10 {
		t.Fatalf("Expected 10 of 11 allowed, got %d", got)
	}
	advance(1100 * time.Millisecond)
	if got := drain(l, "c", "/analyses", "GET", 2); got != 1 {
		t.Errorf("Expected exactly one refilled token, got %d", got)
	}
}

func TestAllow_ClientLists(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		client  string
		want    int
		limitIs int
	}{
		{
			name:   "whitelisted client is never limited",
			config: &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, Whitelist: map[string]bool{"10.0.0.1": true}},
			client: "10.0.0.1",
			want:   50,
		},
		{
			name:   "blacklisted client is always denied",
			config: &Config{Enabled: true, DefaultLimit: 1000, DefaultWindow: time.Minute, Blacklist: map[string]bool{"10.0.0.66": true}},
			client: "10.0.0.66",
			want:   0,
		},
		{
			name:   "disabled limiter allows everything",
			config: &Config{Enabled: false},
			client: "10.0.0.1",
			want:   50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := frozen(t, tt.config)
			if got := drain(l, tt.client, "/analyses", "GET", 50); got != tt.want {
				t.Errorf("Expected %d allowed, got %d", tt.want, got)
			}
			if _, info := l.Allow(tt.client, "/analyses", "GET"); info.Limit != 0 {
				t.Errorf("Expected no limit reported, got %d", info.Limit)
			}
		})
	}
}

func TestAllow_EndpointLimits(t *testing.T) {
	l, _ := frozen(t, &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/analyses", Method: "POST", Limit: 10, Window: time.Hour, Burst: 5},
		},
	})

	if got := drain(l, "c", "/analyses", "POST", 6); got != 5 {
		t.Errorf("Expected the burst of 5 to be allowed, got %d", got)
	}
	if _, info := l.Allow("c", "/analyses", "POST"); info.Limit != 10 {
		t.Errorf("Expected endpoint limit 10, got %d", info.Limit)
	}

	ok, info := l.Allow("c", "/analyses", "GET")
	if !ok || info.Limit != 1000 {
		t.Errorf("Expected GET to use the default limit, got allowed=%v limit=%d", ok, info.Limit)
	}
	if got := drain(l, "c", "/health", "GET", 20); got != 20 {
		t.Errorf("Expected health checks to be unlimited, got %d of 20", got)
	}
}

func TestAllow_Concurrent(t *testing.T) {
	l, _ := frozen(t, &Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("10.0.0.1", "/analyses", "POST"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 100 {
		t.Errorf("Expected 100 allowed requests, got %d", allowed)
	}
}

func TestCleanupBuckets_DropsIdleClients(t *testing.T) {
	l, advance := frozen(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := range 10 {
		l.Allow(fmt.Sprintf("10.0.0.%d", i), "/analyses", "GET")
	}
	advance(2 * time.Hour)
	for i := range 5 {
		l.Allow(fmt.Sprintf("10.0.0.%d", i), "/analyses", "GET")
	}

	l.cleanupBuckets(l.now().Add(-idleBucketTTL))

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.buckets) != 5 {
		t.Errorf("Expected 5 active buckets, got %d", len(l.buckets))
	}
}

func TestNewLimiter_NilConfigUsesDefaults(t *testing.T) {
	l := NewLimiter(nil)
	l.Stop()
	l.Stop()

	ok, info := l.Allow("10.0.0.1", "/analyses", "GET")
	if !ok || info.Limit != 1000 {
		t.Errorf("Expected default limit 1000, got allowed=%v limit=%d", ok, info.Limit)
	}
	if _, info := l.Allow("10.0.0.1", "/analyses", "POST"); info.Limit != 30 {
		t.Errorf("Expected analysis limit 30, got %d", info.Limit)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		path, method string
		wantLimit    int
		wantNil      bool
	}{
		{"/analyses", "POST", 30, false},
		{"/analyses/123", "DELETE", 100, false},
		{"/analyses/123", "GET", 0, true},
		{"/health", "GET", 0, false},
	}
	for _, tt := range tests {
		c := MatchEndpoint(tt.path, tt.method, configs)
		if tt.wantNil {
			if c != nil {
				t.Errorf("%s %s: expected default, got %+v", tt.method, tt.path, c)
			}
			continue
		}
		if c == nil || c.Limit != tt.wantLimit {
			t.Errorf("%s %s: expected limit %d, got %+v", tt.method, tt.path, tt.wantLimit, c)
		}
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv(EnvEnabled, "true")
	t.Setenv(EnvDefaultLimit, "42")
	t.Setenv(EnvDefaultWindow, "30s")
	t.Setenv(EnvWhitelist, "10.0.0.1, 10.0.0.2,")
	t.Setenv(EnvAnalyzeLimit, "7")
	t.Setenv(EnvCleanupInterval, "not-a-duration")

	config := LoadConfig()
	if config.DefaultLimit != 42 || config.DefaultWindow != 30*time.Second {
		t.Errorf("Expected 42 per 30s, got %d per %v", config.DefaultLimit, config.DefaultWindow)
	}
	if !config.Whitelist["10.0.0.2"] || len(config.Whitelist) != 2 {
		t.Errorf("Expected two whitelisted clients, got %v", config.Whitelist)
	}
	if config.EndpointConfigs[0].Limit != 7 {
		t.Errorf("Expected analysis limit 7, got %d", config.EndpointConfigs[0].Limit)
	}
	if config.CleanupInterval != 5*time.Minute {
		t.Errorf("Expected invalid interval to keep the default, got %v", config.CleanupInterval)
	}

	t.Setenv(EnvEnabled, "false")
	if LoadConfig().Enabled {
		t.Error("Expected rate limiting to be disabled")
	}
}
