package ratelimit

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit applied to one method and path. A Path ending in "/"
// covers every path below it.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int // requests per Window; <= 0 is unlimited
	Window time.Duration
	Burst  int // bucket capacity; Limit when 0
}

// Environment variables read by LoadConfig.
const (
	EnvEnabled         = "RATE_LIMIT_ENABLED"
	EnvDefaultLimit    = "RATE_LIMIT_DEFAULT_LIMIT"
	EnvDefaultWindow   = "RATE_LIMIT_DEFAULT_WINDOW"
	EnvCleanupInterval = "RATE_LIMIT_CLEANUP_INTERVAL"
	EnvWhitelist       = "RATE_LIMIT_WHITELIST"
	EnvBlacklist       = "RATE_LIMIT_BLACKLIST"
	EnvAnalyzeLimit    = "RATE_LIMIT_ANALYZE_LIMIT"
	EnvAnalyzeBurst    = "RATE_LIMIT_ANALYZE_BURST"
)

// DefaultConfig is the configuration used when no environment overrides are set.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// LoadConfig starts from DefaultConfig and applies RATE_LIMIT_* overrides.
// Unparseable values keep the default.
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.Enabled = env(EnvEnabled, cfg.Enabled, strconv.ParseBool)
	if !cfg.Enabled {
		return &Config{}
	}

	cfg.DefaultLimit = env(EnvDefaultLimit, cfg.DefaultLimit, strconv.Atoi)
	cfg.DefaultWindow = env(EnvDefaultWindow, cfg.DefaultWindow, time.ParseDuration)
	cfg.CleanupInterval = env(EnvCleanupInterval, cfg.CleanupInterval, time.ParseDuration)
	cfg.Whitelist = parseIPList(os.Getenv(EnvWhitelist))
	cfg.Blacklist = parseIPList(os.Getenv(EnvBlacklist))

	analyze := &cfg.EndpointConfigs[0]
	analyze.Limit = env(EnvAnalyzeLimit, analyze.Limit, strconv.Atoi)
	analyze.Burst = env(EnvAnalyzeBurst, analyze.Burst, strconv.Atoi)
	return cfg
}

// DefaultEndpointConfigs returns the per-endpoint limits. The analysis endpoint comes first.
// Reads fall back to the default limit and health checks are never limited.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/analyses", Method: http.MethodPost, Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/analyses/", Method: http.MethodDelete, Limit: 100, Window: time.Minute, Burst: 10},
	}
}

// env parses the variable key, returning def when it is unset or invalid.
func env[T any](key string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

// parseIPList turns "a, b,,c" into a set.
func parseIPList(list string) map[string]bool {
	set := make(map[string]bool)
	for ip := range strings.SplitSeq(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			set[ip] = true
		}
	}
	return set
}
