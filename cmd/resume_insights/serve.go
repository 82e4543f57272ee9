package main

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-insights/internal/config"
	"github.com/jonathan/resume-insights/internal/server"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that analyzes resumes on request. Analyses are stored in
PostgreSQL when DATABASE_URL is set; without it the list, get and delete endpoints
return 503.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg = cfg.MergeWithDefaults(config.Config{})

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	srv, err := server.New(context.Background(), server.Config{
		Port:         cfg.Port,
		DatabaseURL:  cfg.DatabaseURL,
		Logger:       logger,
		FetchOptions: fetchOptions(cfg, logger),
		SkillAliases: cfg.SkillAliases,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
