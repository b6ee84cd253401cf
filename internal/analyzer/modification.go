package analyzer

import (
	"context"
	"sort"

	"github.com/pagegraph/pagegraph/internal/graph"
	"github.com/pagegraph/pagegraph/internal/model"
)

// ModificationStep ranks HTML elements by how often they were modified
// during the page load. Heavily rewritten elements are where dynamic
// behavior concentrates, which makes them the natural starting point when
// reading an unfamiliar capture.
type ModificationStep struct{}

// NewModificationStep creates a new ModificationStep.
func NewModificationStep() *ModificationStep {
	return &ModificationStep{}
}

// Name returns the step name.
func (s *ModificationStep) Name() string {
	return "modifications"
}

// Do collects the modification history of every HTML element and keeps the
// elements that were modified at least once. Output is ordered by count
// descending, then node id ascending for a stable tie-break.
//
// A non-structural edge without a timestamp is an ingestion contract
// violation and aborts the step.
func (s *ModificationStep) Do(ctx context.Context, g *graph.Graph, report *model.PageReport) error {
	elements := g.FilterNodes(func(kind model.NodeKind) bool {
		_, ok := kind.(model.HTMLElement)
		return ok
	})

	modifications := make([]model.ElementModifications, 0, len(elements))
	for _, ref := range elements {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		history, err := g.ModificationHistory(ref.ID)
		if err != nil {
			return err
		}
		if len(history) == 0 {
			continue
		}

		element := ref.Node.Kind.(model.HTMLElement)
		modifications = append(modifications, model.ElementModifications{
			NodeID:         int64(ref.ID),
			TagName:        element.TagName,
			DOMNodeID:      element.DOMNodeID,
			Count:          len(history),
			FirstTimestamp: *history[0].Edge.Timestamp,
			LastTimestamp:  *history[len(history)-1].Edge.Timestamp,
		})
	}

	sort.Slice(modifications, func(i, j int) bool {
		if modifications[i].Count != modifications[j].Count {
			return modifications[i].Count > modifications[j].Count
		}
		return modifications[i].NodeID < modifications[j].NodeID
	})

	report.Modifications = modifications
	return nil
}
