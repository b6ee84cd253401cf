package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/pagegraph/pagegraph/internal/analyzer"
	"github.com/pagegraph/pagegraph/internal/config"
	"github.com/pagegraph/pagegraph/internal/database"
	"github.com/pagegraph/pagegraph/internal/graphml"
	"github.com/pagegraph/pagegraph/internal/log"
	"github.com/pagegraph/pagegraph/internal/model"
	"github.com/pagegraph/pagegraph/internal/pipeline"
	"github.com/pagegraph/pagegraph/internal/report"
	"github.com/spf13/cobra"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [graph.graphml...]",
		Short: "Analyze page-load provenance graph captures",
		Long: `Analyze reads .graphml page-load captures and reports on each one.

For every capture it reports:
- Graph summary (node and edge counts by kind, page URL)
- Script activity (resources attributable to each script, downstream reach)
- Most modified DOM elements
- Third-party resources grouped by registrable domain
- Requests matched by adblock filter rules (with --filter or --filter-file)

Examples:
  # Analyze a single capture
  pagegraph analyze page.graphml

  # Analyze multiple captures concurrently
  pagegraph analyze captures/*.graphml

  # Match recorded requests against filter rules
  pagegraph analyze --filter "||tracker.example^" page.graphml

  # Load rules from a filter list file
  pagegraph analyze --filter-file easylist.txt page.graphml

  # Output JSON report to a file
  pagegraph analyze --json -o report.json page.graphml

  # Use a custom configuration file
  pagegraph analyze -c myconfig.yaml page.graphml

Configuration file (.pagegraph) example:
  filters:
    - "||tracker.example^"
    - "/ads/$script"
  filterFiles:
    - lists/easylist.txt
  dbDir: /var/lib/pagegraph`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	// Filter matching flags
	cmd.Flags().StringArrayP("filter", "f", nil,
		"Adblock filter rule to match against recorded requests (repeatable)")
	cmd.Flags().StringArrayP("filter-file", "F", nil,
		"Filter list file whose rules are matched against recorded requests (repeatable)")

	// Batch analysis flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent analyses")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pagegraph in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Database flags
	cmd.Flags().Bool("no-db", false,
		"Do not save analysis results to the database")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with URL sanitization
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runAnalysis(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.FilterPatterns, err = cmd.Flags().GetStringArray("filter")
	if err != nil {
		return nil, err
	}

	cfg.FilterFiles, err = cmd.Flags().GetStringArray("filter-file")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load settings from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently proceed without one.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.FileConfig, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB

	// Database directory precedence: flag > config file > XDG default
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	} else if cfg.FileConfig != nil && cfg.FileConfig.DBDir != "" {
		cfg.DBDir = cfg.FileConfig.DBDir
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Get positional arguments (graph file paths)
	cfg.GraphPaths = args

	return cfg, nil
}

// runAnalysis executes the analysis.
func runAnalysis(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Merge filter patterns from flags, config file, and filter list files
	patterns, err := cfg.AllFilterPatterns()
	if err != nil {
		return fmt.Errorf("failed to load filter rules: %w", err)
	}

	logger.Info("starting analysis",
		"graphs", len(cfg.GraphPaths),
		"filterRules", len(patterns),
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.AnalysisDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Use batch processor for parallel analysis if multiple captures
	if len(cfg.GraphPaths) > 1 && cfg.BatchSize > 1 {
		return runBatchAnalysis(ctx, cfg, patterns, db, logger)
	}

	// Single capture or sequential analysis
	return runSequentialAnalysis(ctx, cfg, patterns, db, logger)
}

// runSequentialAnalysis analyzes captures one at a time.
func runSequentialAnalysis(ctx context.Context, cfg *config.Config, patterns []string, db *database.AnalysisDB, logger *slog.Logger) error {
	for _, path := range cfg.GraphPaths {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Printf("Analyzing %s...\n", path)
		startTime := time.Now()

		pageReport := analyzeGraph(ctx, path, patterns, logger)
		attachGraphHash(pageReport, logger)

		if pageReport.Error != "" {
			logger.Error("analysis failed", "graph", path, "error", pageReport.Error)
			fmt.Fprintf(os.Stderr, "Analysis error for %s: %s\n", path, pageReport.Error)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Analysis completed in %s\n\n", elapsed.Round(time.Millisecond))

		// Generate and output report
		if err := outputReport(cfg, pageReport); err != nil {
			logger.Error("report failed", "graph", path, "error", err)
		}

		// Save to database if enabled
		if err := saveReport(ctx, db, pageReport, logger); err != nil {
			logger.Error("failed to save report", "graph", path, "error", err)
		}
	}

	return nil
}

// runBatchAnalysis analyzes multiple captures concurrently using BatchProcessor.
func runBatchAnalysis(ctx context.Context, cfg *config.Config, patterns []string, db *database.AnalysisDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch analysis of %d captures (concurrency: %d)...\n\n",
		len(cfg.GraphPaths), cfg.BatchSize)

	startTime := time.Now()

	// Create batch processor with pipeline factory
	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return newAnalysisPipeline(logger, patterns)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.GraphPaths, func(pageReport *model.PageReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		attachGraphHash(pageReport, logger)

		if pageReport.Error != "" {
			fmt.Fprintf(os.Stderr, "[%d/%d] Analysis error for %s: %s\n",
				index+1, len(cfg.GraphPaths), pageReport.GraphPath, pageReport.Error)
			return
		}

		fmt.Printf("[%d/%d] Analysis completed: %s\n", index+1, len(cfg.GraphPaths), pageReport.GraphPath)

		// Generate and output report
		if err := outputReport(cfg, pageReport); err != nil {
			logger.Error("report failed", "graph", pageReport.GraphPath, "error", err)
		}

		// Save to database if enabled
		if err := saveReport(ctx, db, pageReport, logger); err != nil {
			logger.Error("failed to save report", "graph", pageReport.GraphPath, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch analysis completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// newAnalysisPipeline creates a pipeline with the default analyzer steps.
func newAnalysisPipeline(logger *slog.Logger, patterns []string) *pipeline.Pipeline {
	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(analyzer.DefaultSteps(patterns)...)
	return p
}

// analyzeGraph parses one capture and runs the analysis pipeline over it.
// Parse failures and pipeline errors both end up in the report.
func analyzeGraph(ctx context.Context, path string, patterns []string, logger *slog.Logger) *model.PageReport {
	pageReport := model.NewPageReport(path)

	g, err := graphml.ParseFile(path, graphml.WithLogger(logger))
	if err != nil {
		pageReport.Error = err.Error()
		return pageReport
	}

	p := newAnalysisPipeline(logger, patterns)
	_ = p.Execute(ctx, g, pageReport) //nolint:errcheck // Error is stored in report
	return pageReport
}

// attachGraphHash computes the capture file hash and records it on the
// report. Hashing failures are logged but never fail the analysis; the
// hash only serves duplicate detection in the database.
func attachGraphHash(pageReport *model.PageReport, logger *slog.Logger) {
	hash, err := database.HashGraphFile(pageReport.GraphPath)
	if err != nil {
		logger.Warn("failed to hash graph file", "graph", pageReport.GraphPath, "error", err)
		return
	}
	pageReport.GraphHash = hash
}

// outputReport outputs the analysis report in the requested format.
func outputReport(cfg *config.Config, pageReport *model.PageReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Create/overwrite the output file with owner-only permissions.
		// Captured URLs may carry session tokens.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output (full report with all data)
	if cfg.JSONReport {
		writer := report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
		_, err := writer.Write(pageReport)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(pageReport)
		return err
	}

	// Human-readable report (default)
	writer := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	_, err := writer.Write(pageReport)
	return err
}

// saveReport saves the analysis report to the database if enabled.
// If db is nil, this function is a no-op.
func saveReport(ctx context.Context, db *database.AnalysisDB, pageReport *model.PageReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	if err := db.SaveReport(ctx, pageReport); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	logger.Info("report saved to database", "graph", pageReport.GraphPath, "page", pageReport.PageURL)
	return nil
}
