package analyzer

import (
	"context"
	"sort"

	"github.com/pagegraph/pagegraph/internal/graph"
	"github.com/pagegraph/pagegraph/internal/model"
)

// ScriptActivityStep summarizes every script observed during the page load:
// its source URL (or inline status), the resources attributable to it, and
// the size of its transitive causal footprint.
//
// Design decision: We report script nodes rather than <script> elements
// because a single element can execute more than one script over the page's
// lifetime (e.g., after src rewrites), and the script node is the unit the
// causal edges attach to.
type ScriptActivityStep struct{}

// NewScriptActivityStep creates a new ScriptActivityStep.
func NewScriptActivityStep() *ScriptActivityStep {
	return &ScriptActivityStep{}
}

// Name returns the step name.
func (s *ScriptActivityStep) Name() string {
	return "script_activity"
}

// Do walks every script node and records its activity. Output is sorted by
// node id so repeated analyses of the same capture compare equal.
func (s *ScriptActivityStep) Do(ctx context.Context, g *graph.Graph, report *model.PageReport) error {
	scripts := g.FilterNodes(func(kind model.NodeKind) bool {
		_, ok := kind.(model.Script)
		return ok
	})
	sort.Slice(scripts, func(i, j int) bool { return scripts[i].ID < scripts[j].ID })

	activities := make([]model.ScriptActivity, 0, len(scripts))
	for _, ref := range scripts {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		script := ref.Node.Kind.(model.Script)

		resources, err := g.ResourcesFromScript(ref.ID)
		if err != nil {
			return err
		}
		urls := make([]string, 0, len(resources))
		for _, res := range resources {
			urls = append(urls, res.Node.Kind.(model.Resource).URL)
		}
		sort.Strings(urls)

		downstream, err := g.AllDownstreamEffects(ref.ID)
		if err != nil {
			return err
		}

		activity := model.ScriptActivity{
			NodeID:          int64(ref.ID),
			Inline:          script.URL == nil || *script.URL == "",
			ResourceURLs:    urls,
			DownstreamCount: len(downstream) - 1,
		}
		if !activity.Inline {
			activity.URL = *script.URL
		}
		activities = append(activities, activity)
	}

	report.Scripts = activities
	return nil
}
