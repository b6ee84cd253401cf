package analyzer

import "github.com/pagegraph/pagegraph/internal/pipeline"

// DefaultSteps returns the standard analysis sequence: summary, script
// activity, modification ranking, third-party grouping, and filter matching.
// The filter step is omitted when no patterns are configured.
func DefaultSteps(filterPatterns []string) []pipeline.Step {
	steps := []pipeline.Step{
		NewSummaryStep(),
		NewScriptActivityStep(),
		NewModificationStep(),
		NewThirdPartyStep(),
	}
	if len(filterPatterns) > 0 {
		steps = append(steps, NewFilterMatchStep(filterPatterns))
	}
	return steps
}
