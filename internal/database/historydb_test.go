package database

import (
	"context"
	"testing"
	"time"

	"mutbench/internal/model"
)

// openTestDB creates a HistoryDB in a temporary directory.
func openTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	hdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := hdb.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})

	return hdb
}

// makeRunReport creates a run report with sample data for testing.
func makeRunReport(runID, project string, approach model.Approach, detected, survived int) *model.RunReport {
	report := model.NewRunReport(runID, project, approach)
	report.Tool = "mutmut"

	for i := 0; i < detected; i++ {
		report.AddMutant(model.NewMutant("", "operator_replacement", "sut.py", 10+i, "Replace + with -", model.OutcomeKilled))
	}
	for i := 0; i < survived; i++ {
		report.AddMutant(model.NewMutant("", "number_replacement", "sut.py", 100+i, "Change constant", model.OutcomeSurvived))
	}

	return report
}

// TestOpen tests database creation behavior.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database file", func(t *testing.T) {
		t.Parallel()

		hdb := openTestDB(t)
		if hdb.db == nil {
			t.Fatal("expected database connection")
		}
	})

	t.Run("fails when database missing and creation disabled", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected error for missing database")
		}
	})
}

// TestSaveRunReport tests persisting and reloading run reports.
func TestSaveRunReport(t *testing.T) {
	t.Parallel()

	t.Run("round trips a report", func(t *testing.T) {
		t.Parallel()

		hdb := openTestDB(t)
		ctx := context.Background()
		report := makeRunReport("run-1", "example", model.ApproachTraditional, 2, 1)

		if err := hdb.SaveRunReport(ctx, report); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}

		loaded, err := hdb.GetRunReportByRunID(ctx, "run-1")
		if err != nil {
			t.Fatalf("failed to load report: %v", err)
		}
		if loaded == nil {
			t.Fatal("expected report, got nil")
		}
		if loaded.RunID != "run-1" {
			t.Errorf("expected run ID run-1, got %s", loaded.RunID)
		}
		if loaded.Total() != 3 {
			t.Errorf("expected 3 mutants, got %d", loaded.Total())
		}
		if loaded.Detected() != 2 {
			t.Errorf("expected 2 detected, got %d", loaded.Detected())
		}
	})

	t.Run("saving same run ID replaces row", func(t *testing.T) {
		t.Parallel()

		hdb := openTestDB(t)
		ctx := context.Background()

		if err := hdb.SaveRunReport(ctx, makeRunReport("run-1", "example", model.ApproachTraditional, 1, 0)); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}
		if err := hdb.SaveRunReport(ctx, makeRunReport("run-1", "example", model.ApproachTraditional, 3, 2)); err != nil {
			t.Fatalf("failed to save updated report: %v", err)
		}

		history, err := hdb.GetRunHistory(ctx, "example", 0)
		if err != nil {
			t.Fatalf("failed to get history: %v", err)
		}
		if len(history) != 1 {
			t.Fatalf("expected 1 run in history, got %d", len(history))
		}
		if history[0].Total != 5 {
			t.Errorf("expected updated total 5, got %d", history[0].Total)
		}
	})
}

// TestGetRunHistory tests the metadata listing.
func TestGetRunHistory(t *testing.T) {
	t.Parallel()

	t.Run("returns runs most recent first", func(t *testing.T) {
		t.Parallel()

		hdb := openTestDB(t)
		ctx := context.Background()

		first := makeRunReport("run-1", "example", model.ApproachTraditional, 1, 2)
		first.Timestamp = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
		second := makeRunReport("run-2", "example", model.ApproachTraditional, 3, 0)
		second.Timestamp = time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)

		for _, r := range []*model.RunReport{first, second} {
			if err := hdb.SaveRunReport(ctx, r); err != nil {
				t.Fatalf("failed to save report: %v", err)
			}
		}

		history, err := hdb.GetRunHistory(ctx, "example", 0)
		if err != nil {
			t.Fatalf("failed to get history: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(history))
		}
		if history[0].RunID != "run-2" {
			t.Errorf("expected most recent run first, got %s", history[0].RunID)
		}
		if history[0].Detected != 3 {
			t.Errorf("expected 3 detected in metadata, got %d", history[0].Detected)
		}
		if !history[1].Timestamp.Equal(first.Timestamp) {
			t.Errorf("expected timestamp %v, got %v", first.Timestamp, history[1].Timestamp)
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		t.Parallel()

		hdb := openTestDB(t)
		ctx := context.Background()

		for i, runID := range []string{"run-1", "run-2", "run-3"} {
			r := makeRunReport(runID, "example", model.ApproachTraditional, 1, 0)
			r.Timestamp = time.Date(2025, 1, 1+i, 10, 0, 0, 0, time.UTC)
			if err := hdb.SaveRunReport(ctx, r); err != nil {
				t.Fatalf("failed to save report: %v", err)
			}
		}

		history, err := hdb.GetRunHistory(ctx, "example", 2)
		if err != nil {
			t.Fatalf("failed to get history: %v", err)
		}
		if len(history) != 2 {
			t.Errorf("expected 2 runs with limit, got %d", len(history))
		}
	})

	t.Run("unknown project returns empty history", func(t *testing.T) {
		t.Parallel()

		hdb := openTestDB(t)

		history, err := hdb.GetRunHistory(context.Background(), "missing", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(history) != 0 {
			t.Errorf("expected empty history, got %d runs", len(history))
		}
	})
}

// TestGetRunReportByID tests lookup by database row ID.
func TestGetRunReportByID(t *testing.T) {
	t.Parallel()

	t.Run("loads report by row ID", func(t *testing.T) {
		t.Parallel()

		hdb := openTestDB(t)
		ctx := context.Background()

		if err := hdb.SaveRunReport(ctx, makeRunReport("run-1", "example", model.ApproachTraditional, 1, 1)); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}

		history, err := hdb.GetRunHistory(ctx, "example", 1)
		if err != nil {
			t.Fatalf("failed to get history: %v", err)
		}
		if len(history) != 1 {
			t.Fatalf("expected 1 run, got %d", len(history))
		}

		report, err := hdb.GetRunReportByID(ctx, history[0].ID)
		if err != nil {
			t.Fatalf("failed to load report: %v", err)
		}
		if report == nil || report.RunID != "run-1" {
			t.Errorf("expected run-1, got %+v", report)
		}
	})

	t.Run("missing ID returns nil without error", func(t *testing.T) {
		t.Parallel()

		hdb := openTestDB(t)

		report, err := hdb.GetRunReportByID(context.Background(), 9999)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report != nil {
			t.Error("expected nil report for missing ID")
		}
	})
}

// TestLatestRunByApproach tests approach-filtered latest-run lookup.
func TestLatestRunByApproach(t *testing.T) {
	t.Parallel()

	hdb := openTestDB(t)
	ctx := context.Background()

	traditional := makeRunReport("run-1", "example", model.ApproachTraditional, 2, 1)
	traditional.Timestamp = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	pattern := makeRunReport("run-2", "example", model.ApproachPattern, 0, 4)
	pattern.Timestamp = time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	newer := makeRunReport("run-3", "example", model.ApproachTraditional, 3, 0)
	newer.Timestamp = time.Date(2025, 1, 3, 10, 0, 0, 0, time.UTC)

	for _, r := range []*model.RunReport{traditional, pattern, newer} {
		if err := hdb.SaveRunReport(ctx, r); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}
	}

	got, err := hdb.LatestRunByApproach(ctx, "example", model.ApproachTraditional)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.RunID != "run-3" {
		t.Errorf("expected run-3 as latest traditional run, got %+v", got)
	}

	got, err = hdb.LatestRunByApproach(ctx, "example", model.ApproachPattern)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.RunID != "run-2" {
		t.Errorf("expected run-2 as latest pattern run, got %+v", got)
	}

	got, err = hdb.LatestRunByApproach(ctx, "other", model.ApproachTraditional)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Error("expected nil for project without runs")
	}
}

// TestListProjects tests the distinct project listing.
func TestListProjects(t *testing.T) {
	t.Parallel()

	hdb := openTestDB(t)
	ctx := context.Background()

	for i, project := range []string{"beta", "alpha", "beta"} {
		r := makeRunReport("run-"+string(rune('1'+i)), project, model.ApproachTraditional, 1, 0)
		if err := hdb.SaveRunReport(ctx, r); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}
	}

	projects, err := hdb.ListProjects(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	if projects[0] != "alpha" || projects[1] != "beta" {
		t.Errorf("expected sorted projects [alpha beta], got %v", projects)
	}
}

// TestParseTimestamp tests the multi-format timestamp fallback.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "RFC3339",
			input: "2025-01-14T15:30:00Z",
			want:  time.Date(2025, 1, 14, 15, 30, 0, 0, time.UTC),
		},
		{
			name:  "SQLite default",
			input: "2025-01-14 15:30:00",
			want:  time.Date(2025, 1, 14, 15, 30, 0, 0, time.UTC),
		},
		{
			name:  "unparseable returns zero time",
			input: "not a timestamp",
			want:  time.Time{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := parseTimestamp(tc.input); !got.Equal(tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
