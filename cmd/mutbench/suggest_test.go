package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeSuggestFixture writes a small Python project with obvious
// mutation points and returns its directory.
func writeSuggestFixture(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	src := `def price(quantity, rate):
    if quantity > 100:
        return quantity * rate * 0.9
    return quantity * rate
`
	if err := os.WriteFile(filepath.Join(dir, "billing.py"), []byte(src), 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return dir
}

// TestNewSuggestCmd tests the suggest command creation.
func TestNewSuggestCmd(t *testing.T) {
	t.Parallel()

	cmd := NewSuggestCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "suggest [source-dir]" {
			t.Errorf("expected use 'suggest [source-dir]', got %q", cmd.Use)
		}
	})

	t.Run("has analysis flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"ext", "max-files", "analyzer-label", "concurrency", "tests-out"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("has report flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"markdown", "pdf", "reports-dir", "no-save"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})
}

// TestRunSuggestCmd tests the suggest command execution.
func TestRunSuggestCmd(t *testing.T) {
	t.Run("fails for missing directory", func(t *testing.T) {
		cmd := NewSuggestCmd()
		cmd.SetArgs([]string{"--no-save", filepath.Join(t.TempDir(), "missing")})

		err := cmd.Execute()
		if err == nil {
			t.Error("expected error for missing source directory")
		}
	})

	t.Run("analyzes a project", func(t *testing.T) {
		dir := writeSuggestFixture(t)

		cmd := NewSuggestCmd()
		cmd.SetArgs([]string{"--no-save", dir})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("writes test skeletons", func(t *testing.T) {
		dir := writeSuggestFixture(t)
		testsOut := filepath.Join(t.TempDir(), "suggested_tests")

		cmd := NewSuggestCmd()
		cmd.SetArgs([]string{"--no-save", "--tests-out", testsOut, dir})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		entries, err := os.ReadDir(testsOut)
		if err != nil {
			t.Fatalf("failed to read skeleton directory: %v", err)
		}
		if len(entries) == 0 {
			t.Fatal("expected at least one generated test skeleton")
		}

		for _, e := range entries {
			if !strings.Contains(e.Name(), "billing") {
				t.Errorf("expected skeleton name to reference the source file, got %q", e.Name())
			}
		}
	})

	t.Run("honors extension filter", func(t *testing.T) {
		dir := writeSuggestFixture(t)
		testsOut := filepath.Join(t.TempDir(), "suggested_tests")

		// Only Go files requested, so the Python fixture yields nothing.
		cmd := NewSuggestCmd()
		cmd.SetArgs([]string{"--no-save", "--ext", ".go", "--tests-out", testsOut, dir})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(testsOut); err == nil {
			entries, readErr := os.ReadDir(testsOut)
			if readErr == nil && len(entries) > 0 {
				t.Errorf("expected no skeletons for filtered extensions, got %d", len(entries))
			}
		}
	})
}
