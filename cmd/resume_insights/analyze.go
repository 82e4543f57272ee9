package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-insights/internal/config"
	"github.com/jonathan/resume-insights/internal/db"
	"github.com/jonathan/resume-insights/internal/fetch"
	"github.com/jonathan/resume-insights/internal/observability"
	"github.com/jonathan/resume-insights/internal/parsing"
	"github.com/jonathan/resume-insights/internal/resume"
	"github.com/jonathan/resume-insights/internal/schemas"
	"github.com/jonathan/resume-insights/internal/skills"
	"github.com/jonathan/resume-insights/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLoads bounds parallel file reads and fetches.
const maxConcurrentLoads = 4

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze skill durations in one or more resumes",
	Long: `Analyze builds the skill hierarchy of each resume and writes a JSON report with
career, per-position, per-year and cumulative-by-year durations.

Inputs may be files or http(s) URLs. With a single input and an --out ending in .json the
report is written to that file; otherwise --out is a directory receiving one
<name>.skills.json per input.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runAnalyze,
}

var (
	analyzeInputs     []string
	analyzeOut        string
	analyzeNow        string
	analyzeNormalize  bool
	analyzeUseBrowser bool
	analyzeSave       bool
	analyzeTop        int
	analyzeDBURL      string
)

func init() {
	analyzeCmd.Flags().StringArrayVarP(&analyzeInputs, "in", "i", nil, "Resume JSON file or URL (repeatable)")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Output file (.json, single input) or directory (default \"out\")")
	analyzeCmd.Flags().StringVar(&analyzeNow, "now", "", "Reference date (YYYY-MM-DD) for open-ended spans (default today)")
	analyzeCmd.Flags().BoolVar(&analyzeNormalize, "normalize", false, "Canonicalize skill names before analysis")
	analyzeCmd.Flags().BoolVar(&analyzeUseBrowser, "use-browser", false, "Render JavaScript pages in headless Chrome when no resume JSON is served")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Store each analysis in PostgreSQL")
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 0, "Number of top-level categories to print with --verbose (default 5)")
	analyzeCmd.Flags().StringVar(&analyzeDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(analyzeCmd)
}

// analysisInput is one resume to analyze.
type analysisInput struct {
	Source string
	Raw    []byte
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Config file and CLI overrides
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("in") {
		cfg.Resumes = nil
		cfg.ResumeURL = ""
	}
	if cmd.Flags().Changed("out") {
		cfg.Out = analyzeOut
	}
	if cmd.Flags().Changed("now") {
		cfg.Now = analyzeNow
	}
	if cmd.Flags().Changed("normalize") {
		cfg.Normalize = analyzeNormalize
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = analyzeUseBrowser
	}
	if cmd.Flags().Changed("top") {
		cfg.TopN = analyzeTop
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = analyzeDBURL
	}
	cfg = cfg.MergeWithDefaults(config.Config{})

	// Step 2: Validate required fields
	sources := analyzeInputs
	if len(sources) == 0 {
		sources = append(sources, cfg.Resumes...)
		if cfg.ResumeURL != "" {
			sources = append(sources, cfg.ResumeURL)
		}
	}
	if len(sources) == 0 {
		return fmt.Errorf("at least one --in must be provided (via flag or config)")
	}
	now, err := cfg.NowTime()
	if err != nil {
		return fmt.Errorf("invalid --now: %w", err)
	}
	if analyzeSave && cfg.DatabaseURL == "" {
		return fmt.Errorf("--save requires DATABASE_URL or --db-url")
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Step 3: Load every input concurrently
	inputs, err := loadInputs(ctx, sources, fetchOptions(cfg, logger))
	if err != nil {
		return err
	}

	var database *db.DB
	if analyzeSave {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database %s: %s",
				observability.SanitizeConnectionString(cfg.DatabaseURL), observability.SanitizeError(err))
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
	}

	// Step 4: Analyze and write each report
	outputs := outputPaths(cfg.Out, sources)
	printer := observability.NewPrinter(os.Stdout)
	for i, in := range inputs {
		res, warnings, err := prepareResume(in, cfg)
		if err != nil {
			return err
		}

		opts := []skills.Option{skills.WithLogger(logger)}
		if !now.IsZero() {
			opts = append(opts, skills.WithNow(now))
		}
		analysis, err := skills.AnalyzeAsync(ctx, res, opts...)
		if err != nil {
			return fmt.Errorf("failed to analyze %s: %w", in.Source, err)
		}
		report := analysis.Report()

		if err := writeReport(outputs[i], report); err != nil {
			return err
		}

		if database != nil {
			saved, err := database.SaveAnalysis(ctx, &db.AnalysisInput{Source: in.Source, Report: report})
			if err != nil {
				return fmt.Errorf("failed to save analysis of %s: %w", in.Source, err)
			}
			logger.Info("saved analysis", zap.String("id", saved.ID.String()), zap.String("source", in.Source))
		}

		if cfg.Verbose {
			printer.PrintSummary(report)
			printer.PrintTopCategories(analysis.TopCategories(cfg.TopN), len(report.Career.Children))
			printer.PrintWork(report)
			printer.PrintYears(report)
		}
		if cfg.Verbose || len(warnings) > 0 {
			printer.PrintWarnings(warnings)
		}

		_, _ = fmt.Fprintf(os.Stdout, "Successfully wrote skill report for %s to %s\n", in.Source, outputs[i])
	}

	return nil
}

// loadInputs reads files and fetches URLs in parallel, keeping the order of sources.
func loadInputs(ctx context.Context, sources []string, opts *fetch.Options) ([]analysisInput, error) {
	inputs := make([]analysisInput, len(sources))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, src := range sources {
		g.Go(func() error {
			var raw []byte
			var err error
			if isURL(src) {
				raw, err = fetch.ResumeJSON(gCtx, src, opts)
			} else {
				raw, err = os.ReadFile(src)
			}
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", src, err)
			}
			inputs[i] = analysisInput{Source: src, Raw: raw}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inputs, nil
}

// prepareResume parses, validates and optionally normalizes one input.
// Schema violations are reported as warnings; struct validation failures are errors.
func prepareResume(in analysisInput, cfg config.Config) (*types.Resume, []string, error) {
	var warnings []string
	if schemaPath := schemas.ResolveSchemaPath(schemas.ResumeSchema); schemaPath != "" {
		if err := schemas.ValidateJSONBytes(schemaPath, in.Raw); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s failed schema validation: %v", in.Source, err))
		}
	}

	res, err := resume.Parse(in.Raw)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", in.Source, err)
	}
	if err := resume.Validate(res); err != nil {
		return nil, nil, fmt.Errorf("invalid resume %s: %w", in.Source, err)
	}
	for _, w := range resume.Warnings(res) {
		warnings = append(warnings, in.Source+": "+w)
	}

	if cfg.Normalize {
		resume.NormalizeWith(res, parsing.NewNormalizer(cfg.SkillAliases))
	}
	return res, warnings, nil
}

// writeReport writes report as indented JSON and checks it against the report schema.
func writeReport(outPath string, report *types.SkillReport) error {
	jsonOutput, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal skill report to JSON: %w", err)
	}

	// Ensure output directory exists
	outputDir := filepath.Dir(outPath)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	if err := os.WriteFile(outPath, jsonOutput, 0644); err != nil {
		return fmt.Errorf("failed to write skill report to output file %s: %w", outPath, err)
	}

	schemaPath := schemas.ResolveSchemaPath(schemas.SkillReportSchema)
	if schemaPath == "" {
		return nil
	}
	if err := schemas.ValidateJSON(schemaPath, outPath); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("generated skill report is invalid: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate output against schema: %v\n", err)
	}
	return nil
}

// outputPaths maps each source to its report path. A single source with a .json --out
// writes to that file; everything else lands in the --out directory.
func outputPaths(out string, sources []string) []string {
	if len(sources) == 1 && strings.EqualFold(filepath.Ext(out), ".json") {
		return []string{out}
	}

	paths := make([]string, len(sources))
	used := make(map[string]int)
	for i, src := range sources {
		name := reportName(src)
		if n := used[name]; n > 0 {
			used[name] = n + 1
			name = fmt.Sprintf("%s-%d", name, n+1)
		} else {
			used[name] = 1
		}
		paths[i] = filepath.Join(out, name+".skills.json")
	}
	return paths
}

// reportName derives a file stem from a path or URL.
func reportName(src string) string {
	base := filepath.Base(src)
	if isURL(src) {
		u, err := url.Parse(src)
		if err != nil {
			return "resume"
		}
		base = path.Base(u.Path)
		if base == "/" || base == "." {
			base = u.Hostname()
		}
	}
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		return "resume"
	}
	return name
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
