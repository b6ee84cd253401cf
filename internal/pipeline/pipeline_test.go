package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/pagegraph/pagegraph/internal/graph"
	"github.com/pagegraph/pagegraph/internal/model"
)

// recordingStep is a test step that records whether it ran and optionally
// fails.
type recordingStep struct {
	name string
	err  error
	ran  bool
}

func (s *recordingStep) Do(_ context.Context, _ *graph.Graph, _ *model.PageReport) error {
	s.ran = true
	return s.err
}

func (s *recordingStep) Name() string { return s.name }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func emptyGraph() *graph.Graph {
	return graph.NewBuilder(graph.WithLogger(testLogger())).Graph()
}

// TestPipelineExecutesStepsInOrder tests sequential execution and step
// bookkeeping.
func TestPipelineExecutesStepsInOrder(t *testing.T) {
	t.Parallel()

	first := &recordingStep{name: "first"}
	second := &recordingStep{name: "second"}

	p := New(WithLogger(testLogger()))
	p.AddSteps(first, second)

	if p.StepCount() != 2 {
		t.Fatalf("StepCount = %d, expected 2", p.StepCount())
	}
	if names := p.StepNames(); names[0] != "first" || names[1] != "second" {
		t.Fatalf("StepNames = %v, expected [first second]", names)
	}

	report := model.NewPageReport("page.graphml")
	if err := p.Execute(context.Background(), emptyGraph(), report); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !first.ran || !second.ran {
		t.Errorf("ran = (%v, %v), expected both steps to run", first.ran, second.ran)
	}
	if report.Error != "" {
		t.Errorf("report.Error = %q, expected empty", report.Error)
	}
}

// TestPipelineStopsOnError tests the default fail-fast behavior.
func TestPipelineStopsOnError(t *testing.T) {
	t.Parallel()

	failure := errors.New("inconsistent request types")
	failing := &recordingStep{name: "failing", err: failure}
	after := &recordingStep{name: "after"}

	p := New(WithLogger(testLogger()))
	p.AddSteps(failing, after)

	report := model.NewPageReport("page.graphml")
	if err := p.Execute(context.Background(), emptyGraph(), report); !errors.Is(err, failure) {
		t.Fatalf("Execute error = %v, expected %v", err, failure)
	}
	if after.ran {
		t.Error("step after the failure ran; pipeline should stop on first error")
	}
	if report.Error != failure.Error() {
		t.Errorf("report.Error = %q, expected %q", report.Error, failure.Error())
	}
}

// TestPipelineContinueOnError tests that the option keeps later steps
// running while still recording the failure.
func TestPipelineContinueOnError(t *testing.T) {
	t.Parallel()

	failing := &recordingStep{name: "failing", err: errors.New("boom")}
	after := &recordingStep{name: "after"}

	p := New(WithLogger(testLogger()), WithContinueOnError(true))
	p.AddSteps(failing, after)

	report := model.NewPageReport("page.graphml")
	if err := p.Execute(context.Background(), emptyGraph(), report); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !after.ran {
		t.Error("step after the failure did not run with WithContinueOnError(true)")
	}
	if report.Error == "" {
		t.Error("report.Error is empty, expected the recorded failure")
	}
}

// TestPipelineCancellation tests that a cancelled context marks the report
// as timed out and skips remaining steps.
func TestPipelineCancellation(t *testing.T) {
	t.Parallel()

	step := &recordingStep{name: "never"}
	p := New(WithLogger(testLogger()))
	p.AddStep(step)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := model.NewPageReport("page.graphml")
	if err := p.Execute(ctx, emptyGraph(), report); !errors.Is(err, context.Canceled) {
		t.Fatalf("Execute error = %v, expected context.Canceled", err)
	}
	if step.ran {
		t.Error("step ran after cancellation")
	}
	if !report.TimedOut {
		t.Error("report.TimedOut = false, expected true")
	}
}
