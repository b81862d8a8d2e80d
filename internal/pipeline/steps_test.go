package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mutbench/internal/database"
	"mutbench/internal/model"
	"mutbench/internal/mutation"
)

// TestMutationStep tests the tool execution step.
func TestMutationStep(t *testing.T) {
	t.Parallel()

	t.Run("sample mode ingests bundled round", func(t *testing.T) {
		t.Parallel()

		step := NewMutationStep(WithSample(mutation.SampleRound1))
		report := model.NewRunReport("run-1", t.TempDir(), model.ApproachTraditional)

		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Tool != "sample" {
			t.Errorf("expected tool sample, got %s", report.Tool)
		}
		if report.Label != mutation.SampleRound1 {
			t.Errorf("expected label %s, got %s", mutation.SampleRound1, report.Label)
		}
		if report.Total() == 0 {
			t.Error("expected sample mutants to be ingested")
		}
	})

	t.Run("unknown sample returns error", func(t *testing.T) {
		t.Parallel()

		step := NewMutationStep(WithSample("round-99"))
		report := model.NewRunReport("run-1", t.TempDir(), model.ApproachTraditional)

		if err := step.Do(context.Background(), report); err == nil {
			t.Error("expected error for unknown sample")
		}
	})

	t.Run("unknown tool returns error", func(t *testing.T) {
		t.Parallel()

		step := NewMutationStep(WithTool("nonexistent"))
		report := model.NewRunReport("run-1", t.TempDir(), model.ApproachTraditional)

		if err := step.Do(context.Background(), report); !errors.Is(err, mutation.ErrUnknownTool) {
			t.Errorf("expected ErrUnknownTool, got %v", err)
		}
	})

	t.Run("generic adapter skips execution phase", func(t *testing.T) {
		t.Parallel()

		step := NewMutationStep(WithTool("generic"))
		report := model.NewRunReport("run-1", t.TempDir(), model.ApproachTraditional)

		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Tool != "generic" {
			t.Errorf("expected tool generic, got %s", report.Tool)
		}
	})
}

// TestResultsStep tests the results ingestion step.
func TestResultsStep(t *testing.T) {
	t.Parallel()

	t.Run("parses interchange results file", func(t *testing.T) {
		t.Parallel()

		project := t.TempDir()
		results := `[
			{"id": "1", "file": "sut.py", "line": 10, "operator": "operator_replacement", "status": "killed", "description": "Replace + with -"},
			{"id": "2", "file": "sut.py", "line": 15, "operator": "number_replacement", "status": "survived", "description": "Change constant"}
		]`
		if err := os.WriteFile(filepath.Join(project, "mutation_results.json"), []byte(results), 0600); err != nil {
			t.Fatalf("failed to write results file: %v", err)
		}

		step := NewResultsStep(WithResultsTool("generic"))
		report := model.NewRunReport("run-1", project, model.ApproachTraditional)

		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Total() != 2 {
			t.Errorf("expected 2 mutants, got %d", report.Total())
		}
		if report.Detected() != 1 {
			t.Errorf("expected 1 detected, got %d", report.Detected())
		}
	})

	t.Run("missing results file returns error", func(t *testing.T) {
		t.Parallel()

		step := NewResultsStep(WithResultsTool("generic"))
		report := model.NewRunReport("run-1", t.TempDir(), model.ApproachTraditional)

		if err := step.Do(context.Background(), report); !errors.Is(err, mutation.ErrNoResultsFile) {
			t.Errorf("expected ErrNoResultsFile, got %v", err)
		}
	})

	t.Run("skips when mutants already ingested", func(t *testing.T) {
		t.Parallel()

		step := NewResultsStep(WithResultsTool("generic"))
		report := model.NewRunReport("run-1", t.TempDir(), model.ApproachTraditional)
		report.AddMutant(model.NewMutant("1", "operator_replacement", "sut.py", 10, "", model.OutcomeKilled))

		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Total() != 1 {
			t.Errorf("expected ingestion skipped, got %d mutants", report.Total())
		}
	})
}

// TestSummarizeStep tests summary attachment and file counting.
func TestSummarizeStep(t *testing.T) {
	t.Parallel()

	t.Run("attaches summary and counts files", func(t *testing.T) {
		t.Parallel()

		project := t.TempDir()
		if err := os.WriteFile(filepath.Join(project, "sut.py"), []byte("def f():\n    return 1\n"), 0600); err != nil {
			t.Fatalf("failed to write source file: %v", err)
		}

		report := model.NewRunReport("run-1", project, model.ApproachTraditional)
		report.AddMutant(model.NewMutant("1", "operator_replacement", "sut.py", 1, "", model.OutcomeKilled))

		step := NewSummarizeStep()
		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Summary == nil {
			t.Fatal("expected summary to be attached")
		}
		if report.Summary.Total != 1 {
			t.Errorf("expected total 1 in summary, got %d", report.Summary.Total)
		}
		if report.SourceFiles != 1 {
			t.Errorf("expected 1 source file counted, got %d", report.SourceFiles)
		}
	})

	t.Run("missing source dir records error but keeps summary", func(t *testing.T) {
		t.Parallel()

		report := model.NewRunReport("run-1", filepath.Join(t.TempDir(), "missing"), model.ApproachTraditional)

		step := NewSummarizeStep()
		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Summary == nil {
			t.Error("expected summary despite walk failure")
		}
		if len(report.Errors) == 0 {
			t.Error("expected walk failure recorded on report")
		}
	})
}

// TestPersistStep tests history persistence.
func TestPersistStep(t *testing.T) {
	t.Parallel()

	t.Run("nil store is a no-op", func(t *testing.T) {
		t.Parallel()

		step := NewPersistStep(nil)
		report := model.NewRunReport("run-1", "example", model.ApproachTraditional)

		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("saves report to history", func(t *testing.T) {
		t.Parallel()

		store, err := database.Open(t.TempDir(), database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		t.Cleanup(func() { _ = store.Close() })

		report := model.NewRunReport("run-1", "example", model.ApproachTraditional)
		report.AddMutant(model.NewMutant("1", "operator_replacement", "sut.py", 10, "", model.OutcomeKilled))

		step := NewPersistStep(store)
		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		loaded, err := store.GetRunReportByRunID(context.Background(), "run-1")
		if err != nil {
			t.Fatalf("failed to load report: %v", err)
		}
		if loaded == nil || loaded.Total() != 1 {
			t.Errorf("expected persisted report with 1 mutant, got %+v", loaded)
		}
	})
}

// TestDefaultPipeline tests the standard round composition.
func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	p := DefaultPipeline(nil, nil,
		NewMutationStep(WithSample(mutation.SampleRound1)),
		NewResultsStep(),
	)

	names := p.StepNames()
	want := []string{"mutation_run", "results_ingest", "summarize", "persist"}
	if len(names) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(names))
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("expected step %d to be %s, got %s", i, name, names[i])
		}
	}
}
