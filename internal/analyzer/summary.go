package analyzer

import (
	"context"

	"github.com/pagegraph/pagegraph/internal/graph"
	"github.com/pagegraph/pagegraph/internal/model"
)

// SummaryStep fills in the report's basic graph information: the page URL,
// node and edge counts, and per-kind histograms.
//
// Design decision: The summary runs first because every other section's
// output is meaningless without knowing which page the graph records. A
// graph without a resolvable root URL is still summarized by size so the
// failure report carries some context.
type SummaryStep struct{}

// NewSummaryStep creates a new SummaryStep.
func NewSummaryStep() *SummaryStep {
	return &SummaryStep{}
}

// Name returns the step name.
func (s *SummaryStep) Name() string {
	return "summary"
}

// Do counts nodes and edges by kind and resolves the page URL.
//
// A missing DOM root is fatal: the capture does not describe a page load.
// Root-URL invariant violations other than absence (multiple roots, a root
// without a URL) are equally fatal and propagate unchanged.
func (s *SummaryStep) Do(_ context.Context, g *graph.Graph, report *model.PageReport) error {
	report.NodeCount = g.NodeCount()
	report.EdgeCount = g.EdgeCount()

	for _, ref := range g.FilterNodes(func(model.NodeKind) bool { return true }) {
		report.NodeKindCounts[ref.Node.Kind.String()]++
	}
	for _, ref := range g.FilterEdges(func(model.EdgeKind) bool { return true }) {
		report.EdgeKindCounts[ref.Edge.Kind.String()]++
	}

	pageURL, err := g.RootURL()
	if err != nil {
		return err
	}
	report.PageURL = pageURL
	return nil
}
