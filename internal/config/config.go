// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-insights/internal/types"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Resumes   []string `json:"resumes,omitempty"`    // Paths to resume JSON files
	ResumeURL string   `json:"resume_url,omitempty"` // URL to fetch resume JSON from
	Out       string   `json:"out,omitempty"`        // Output directory for reports

	// Analysis
	Now          string            `json:"now,omitempty"`           // Reference date (YYYY-MM-DD) for open-ended spans
	Normalize    bool              `json:"normalize,omitempty"`     // Canonicalize skill names before analysis
	SkillAliases map[string]string `json:"skill_aliases,omitempty"` // Extra skill name aliases (variant -> canonical)
	TopN         int               `json:"top_n,omitempty"`         // Number of top-level categories to print

	// Behavior
	UseBrowser   bool   `json:"use_browser,omitempty"`   // Use headless browser for JavaScript-rendered pages
	Verbose      bool   `json:"verbose,omitempty"`       // Print detailed debug information
	FetchTimeout string `json:"fetch_timeout,omitempty"` // Go duration, e.g. "30s"

	// Services
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Port        int    `json:"port,omitempty"`         // HTTP server port
	LogMode     string `json:"log_mode,omitempty"`     // "development" or "production"
}

// Defaults used when neither config file nor flags provide a value.
const (
	DefaultOut     = "out"
	DefaultTopN    = 5
	DefaultPort    = 8080
	DefaultLogMode = "development"
)

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv overlays DATABASE_URL, PORT and LOG_MODE onto c for fields that are still empty.
func (c *Config) FromEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.LogMode == "" {
		c.LogMode = os.Getenv("LOG_MODE")
	}
	if c.Port == 0 {
		if port := os.Getenv("PORT"); port != "" {
			if n, err := strconv.Atoi(port); err == nil {
				c.Port = n
			}
		}
	}
}

// Validate checks that the configuration has valid values.
// Required inputs are checked by the commands after flags are merged.
func (c *Config) Validate() error {
	if len(c.Resumes) > 0 && c.ResumeURL != "" {
		return fmt.Errorf("config error: 'resumes' and 'resume_url' are mutually exclusive")
	}

	for _, path := range c.Resumes {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config error: resume file not found: %s", path)
		}
	}

	if c.Now != "" {
		if _, err := types.ParseDate(c.Now); err != nil {
			return fmt.Errorf("config error: 'now': %w", err)
		}
	}

	if c.FetchTimeout != "" {
		d, err := time.ParseDuration(c.FetchTimeout)
		if err != nil {
			return fmt.Errorf("config error: 'fetch_timeout': %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: 'fetch_timeout' must be positive")
		}
	}

	if c.TopN < 0 {
		return fmt.Errorf("config error: 'top_n' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	switch strings.ToLower(c.LogMode) {
	case "", "development", "dev", "production", "prod":
	default:
		return fmt.Errorf("config error: unknown 'log_mode' %q", c.LogMode)
	}

	return nil
}

// NowTime parses Now, returning the zero time when unset.
func (c *Config) NowTime() (time.Time, error) {
	if c.Now == "" {
		return time.Time{}, nil
	}
	d, err := types.ParseDate(c.Now)
	if err != nil {
		return time.Time{}, err
	}
	return d.Time, nil
}

// FetchTimeoutDuration parses FetchTimeout, returning 0 when unset or invalid.
func (c *Config) FetchTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil {
		return 0
	}
	return d
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if len(result.Resumes) == 0 {
		result.Resumes = defaults.Resumes
	}
	if result.ResumeURL == "" {
		result.ResumeURL = defaults.ResumeURL
	}
	if result.Out == "" {
		result.Out = defaults.Out
	}
	if result.Out == "" {
		result.Out = DefaultOut
	}
	if result.Now == "" {
		result.Now = defaults.Now
	}
	if result.FetchTimeout == "" {
		result.FetchTimeout = defaults.FetchTimeout
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LogMode == "" {
		result.LogMode = defaults.LogMode
	}
	if result.LogMode == "" {
		result.LogMode = DefaultLogMode
	}

	if result.TopN == 0 {
		result.TopN = defaults.TopN
	}
	if result.TopN == 0 {
		result.TopN = DefaultTopN
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Port == 0 {
		result.Port = DefaultPort
	}

	if len(defaults.SkillAliases) > 0 {
		aliases := make(map[string]string, len(defaults.SkillAliases)+len(result.SkillAliases))
		for k, v := range defaults.SkillAliases {
			aliases[k] = v
		}
		for k, v := range result.SkillAliases {
			aliases[k] = v
		}
		result.SkillAliases = aliases
	}

	// Bool fields: cannot distinguish unset from false, so they are OR-ed
	result.Normalize = result.Normalize || defaults.Normalize
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}
