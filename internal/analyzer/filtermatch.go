package analyzer

import (
	"context"
	"sort"

	"github.com/pagegraph/pagegraph/internal/filter"
	"github.com/pagegraph/pagegraph/internal/graph"
	"github.com/pagegraph/pagegraph/internal/model"
)

// FilterMatchStep matches the page's recorded requests against a configured
// list of network-filter rules and reports what each rule would have
// blocked.
//
// Design decision: Invalid patterns are reported with the Invalid flag
// rather than dropped, so a typo in a filter list is visible in the output
// instead of silently matching nothing.
type FilterMatchStep struct {
	// patterns holds the filter rule texts, in configuration order.
	patterns []string
}

// NewFilterMatchStep creates a FilterMatchStep for the given rule texts.
func NewFilterMatchStep(patterns []string) *FilterMatchStep {
	return &FilterMatchStep{patterns: patterns}
}

// Name returns the step name.
func (s *FilterMatchStep) Name() string {
	return "filter_match"
}

// Do evaluates each pattern against the graph's resources. Fatal query
// errors (no request type, inconsistent request types, an unresolvable page
// URL) abort the step; they indicate a capture no pattern can be evaluated
// against.
func (s *FilterMatchStep) Do(ctx context.Context, g *graph.Graph, report *model.PageReport) error {
	matches := make([]model.FilterMatch, 0, len(s.patterns))
	for _, pattern := range s.patterns {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, ok := filter.ParseRule(pattern); !ok {
			matches = append(matches, model.FilterMatch{Pattern: pattern, Invalid: true})
			continue
		}

		matched, err := g.ResourcesMatchingFilter(pattern)
		if err != nil {
			return err
		}
		urls := make([]string, 0, len(matched))
		for _, ref := range matched {
			urls = append(urls, ref.Node.Kind.(model.Resource).URL)
		}
		sort.Strings(urls)
		matches = append(matches, model.FilterMatch{Pattern: pattern, ResourceURLs: urls})
	}

	report.FilterMatches = matches
	return nil
}
