package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mutbench/internal/model"
)

// recordingFactory builds pipelines whose single step stamps the report so
// tests can verify each target got its own round.
func recordingFactory() func(target string) *Pipeline {
	return func(target string) *Pipeline {
		p := New()
		p.AddStep(&mockStep{
			name: "stamp",
			doFunc: func(_ context.Context, report *model.RunReport) error {
				report.AddMutant(model.NewMutant("1", "operator_replacement", target+".py", 1, "", model.OutcomeKilled))
				return nil
			},
		})
		return p
	}
}

// TestBatchProcessor tests concurrent multi-target processing.
func TestBatchProcessor(t *testing.T) {
	t.Parallel()

	t.Run("processes all targets and keeps order", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(recordingFactory(), WithBatchConcurrency(2))
		targets := []string{"alpha", "beta", "gamma"}

		results, err := bp.ProcessBatch(context.Background(), targets)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(results) != len(targets) {
			t.Fatalf("expected %d results, got %d", len(targets), len(results))
		}
		for i, target := range targets {
			if results[i] == nil {
				t.Fatalf("expected result at index %d", i)
			}
			if results[i].Project != target {
				t.Errorf("expected result %d for %s, got %s", i, target, results[i].Project)
			}
			if results[i].Total() != 1 {
				t.Errorf("expected stamped mutant for %s", target)
			}
			if results[i].RunID == "" {
				t.Errorf("expected run ID assigned for %s", target)
			}
		}
	})

	t.Run("collects reports even when a round fails", func(t *testing.T) {
		t.Parallel()

		factory := func(target string) *Pipeline {
			p := New()
			p.AddStep(&mockStep{
				name: "maybe-fail",
				doFunc: func(_ context.Context, _ *model.RunReport) error {
					if target == "bad" {
						return errors.New("round failed")
					}
					return nil
				},
			})
			return p
		}

		bp := NewBatchProcessor(factory)
		results, err := bp.ProcessBatch(context.Background(), []string{"good", "bad"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if len(results[1].Errors) == 0 {
			t.Error("expected failed round's error recorded on its report")
		}
	})

	t.Run("applies approach option", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(recordingFactory(), WithApproach(model.ApproachPattern))
		results, err := bp.ProcessBatch(context.Background(), []string{"alpha"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if results[0].Approach != model.ApproachPattern {
			t.Errorf("expected pattern approach, got %s", results[0].Approach)
		}
	})

	t.Run("cancelled context stops processing", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bp := NewBatchProcessor(recordingFactory())
		_, err := bp.ProcessBatch(ctx, []string{"alpha", "beta"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

// TestProcessBatchWithCallback tests streaming result delivery.
func TestProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	bp := NewBatchProcessor(recordingFactory(), WithBatchConcurrency(2))
	targets := []string{"alpha", "beta", "gamma"}

	var mu sync.Mutex
	seen := make(map[int]string)

	err := bp.ProcessBatchWithCallback(context.Background(), targets, func(report *model.RunReport, index int) {
		mu.Lock()
		defer mu.Unlock()
		seen[index] = report.Project
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seen) != len(targets) {
		t.Fatalf("expected %d callbacks, got %d", len(targets), len(seen))
	}
	for i, target := range targets {
		if seen[i] != target {
			t.Errorf("expected callback %d for %s, got %s", i, target, seen[i])
		}
	}
}
