package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pagegraph/pagegraph/internal/graphml"
	"github.com/pagegraph/pagegraph/internal/model"
)

// BatchProcessor handles concurrent analysis of multiple graph files.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-graph execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each analysis.
	// We use a factory to ensure each graph gets a fresh pipeline instance.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of graphs analyzed at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed reports.
	// Access is synchronized via mutex.
	results []*model.PageReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent analyses.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each graph to create a fresh
// pipeline instance. This ensures that pipeline state doesn't leak between
// analyses and allows for per-graph customization if needed.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
		results:         make([]*model.PageReport, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch analyzes multiple graph files concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each graph gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously. Parsing large captures dominates memory use, so the
// limit also bounds peak memory.
//
// Returns one report per input path in input order, even for graphs that
// failed to parse or analyze; failures are recorded in the report. The
// error return indicates cancellation of the batch itself.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, paths []string) ([]*model.PageReport, error) {
	bp.logger.Info("starting batch analysis",
		"total_graphs", len(paths),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain order
	bp.results = make([]*model.PageReport, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("analyzing graph",
				"graph", path,
				"index", i+1,
				"total", len(paths),
			)

			report := bp.analyzeOne(ctx, path)

			bp.mu.Lock()
			bp.results[i] = report
			bp.mu.Unlock()

			if report.Error != "" {
				bp.logger.Warn("analysis failed",
					"graph", path,
					"error", report.Error,
				)
				// Don't return the error to errgroup - we want the other
				// analyses to continue. The failure is in the report.
				return nil
			}

			bp.logger.Info("analysis completed",
				"graph", path,
			)
			return nil
		})
	}

	err := g.Wait()

	elapsed := time.Since(startTime)
	bp.logger.Info("batch analysis complete",
		"total_graphs", len(paths),
		"elapsed", elapsed,
	)

	return bp.results, err
}

// ProcessBatchWithCallback analyzes multiple graphs and calls a callback for
// each completed report. This is useful for streaming results.
//
// The callback receives the report and the index of the path in the original
// slice. The callback is called from the goroutine that completed the
// analysis, so it must be safe for concurrent use if it touches shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	paths []string,
	callback func(report *model.PageReport, index int),
) error {
	bp.logger.Info("starting batch analysis with callback",
		"total_graphs", len(paths),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			callback(bp.analyzeOne(ctx, path), i)
			return nil
		})
	}

	return g.Wait()
}

// analyzeOne parses one graph file and runs a fresh pipeline over it.
// Parse failures and pipeline errors both end up in the report.
func (bp *BatchProcessor) analyzeOne(ctx context.Context, path string) *model.PageReport {
	report := model.NewPageReport(path)

	g, err := graphml.ParseFile(path, graphml.WithLogger(bp.logger))
	if err != nil {
		report.Error = err.Error()
		return report
	}

	pipeline := bp.pipelineFactory()
	_ = pipeline.Execute(ctx, g, report) //nolint:errcheck // Error is stored in report
	return report
}
