// Package main provides the resume_insights CLI: skill analysis of JSON Resume documents
// and the HTTP API that serves it.
package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-insights/internal/config"
	"github.com/jonathan/resume-insights/internal/fetch"
	"github.com/jonathan/resume-insights/internal/observability"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "resume_insights",
	Short: "Resume skill analysis",
	Long: `resume_insights builds a skill hierarchy from a JSON Resume and reports how long
each skill and category was used: over the whole career, per position, per year and
cumulatively by year.`,
	SilenceUsage: true,
}

var (
	rootConfigPath string
	rootVerbose    bool
	rootLogMode    string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.PersistentFlags().StringVar(&rootLogMode, "log-mode", "", "Log format: development or production (defaults to LOG_MODE)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads --config when given and applies the persistent flags and environment.
// Command-specific flags are applied by each command afterwards.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if rootConfigPath != "" {
		loaded, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = rootVerbose
	}
	if cmd.Flags().Changed("log-mode") {
		cfg.LogMode = rootLogMode
	}
	cfg.FromEnv()
	return cfg, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	logger, err := observability.NewLogger(cfg.LogMode, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

func fetchOptions(cfg config.Config, logger *zap.Logger) *fetch.Options {
	opts := fetch.DefaultOptions()
	if d := cfg.FetchTimeoutDuration(); d > 0 {
		opts.Timeout = d
	}
	opts.UseBrowser = cfg.UseBrowser
	opts.Logger = logger
	return opts
}
