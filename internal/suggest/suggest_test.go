package suggest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mutbench/internal/model"
	"mutbench/internal/source"
)

// pyFixture is a small Python module with one mutation point per category.
const pyFixture = `def add(a, b):
    return a + b

def classify(n):
    if n >= 10:
        return "big"
    return None

def double(n):
    return n * 2

def parse(raw):
    try:
        return int(raw)
    except:
        pass
`

// TestArithmeticAnalyzer tests operator detection and the swap description.
func TestArithmeticAnalyzer(t *testing.T) {
	t.Parallel()

	t.Run("flags binary operators with swap suggestions", func(t *testing.T) {
		t.Parallel()

		file := pyFile("calc.py", "def add(a, b):\n    return a + b\n")
		suggestions := NewArithmeticAnalyzer().Analyze(context.Background(), file)

		if len(suggestions) != 1 {
			t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
		}
		s := suggestions[0]
		if s.Line != 2 {
			t.Errorf("expected line 2, got %d", s.Line)
		}
		if s.Operator != "operator_replacement" {
			t.Errorf("expected operator_replacement, got %q", s.Operator)
		}
		if !strings.Contains(s.Description, "Replace + with -") {
			t.Errorf("unexpected description %q", s.Description)
		}
	})

	t.Run("ignores comment lines", func(t *testing.T) {
		t.Parallel()

		file := pyFile("calc.py", "# total = a + b\n// sum = a + b\n")
		if got := NewArithmeticAnalyzer().Analyze(context.Background(), file); len(got) != 0 {
			t.Errorf("expected no suggestions, got %d", len(got))
		}
	})
}

// TestComparisonAnalyzer tests boundary-operator detection.
func TestComparisonAnalyzer(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		line     string
		wantSwap string
	}{
		{name: "less-than boundary", line: "if n < 10:", wantSwap: "Replace < with <="},
		{name: "less-or-equal boundary", line: "if n <= 10:", wantSwap: "Replace <= with <"},
		{name: "equality", line: "if n == 0:", wantSwap: "Replace == with !="},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			file := pyFile("cond.py", tc.line+"\n")
			suggestions := NewComparisonAnalyzer().Analyze(context.Background(), file)

			if len(suggestions) != 1 {
				t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
			}
			if !strings.Contains(suggestions[0].Description, tc.wantSwap) {
				t.Errorf("expected description containing %q, got %q", tc.wantSwap, suggestions[0].Description)
			}
		})
	}
}

// TestConstantAnalyzer tests literal detection in results and coefficients.
func TestConstantAnalyzer(t *testing.T) {
	t.Parallel()

	t.Run("literal in return is a number replacement", func(t *testing.T) {
		t.Parallel()

		file := pyFile("sut.py", "def base():\n    return 42\n")
		suggestions := NewConstantAnalyzer().Analyze(context.Background(), file)

		if len(suggestions) != 1 {
			t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
		}
		if suggestions[0].Operator != "number_replacement" {
			t.Errorf("expected number_replacement, got %q", suggestions[0].Operator)
		}
	})

	t.Run("literal next to multiplication is a coefficient", func(t *testing.T) {
		t.Parallel()

		file := pyFile("sut.py", "def double(n):\n    return n * 2\n")
		suggestions := NewConstantAnalyzer().Analyze(context.Background(), file)

		if len(suggestions) != 1 {
			t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
		}
		if suggestions[0].Operator != "coefficient_replacement" {
			t.Errorf("expected coefficient_replacement, got %q", suggestions[0].Operator)
		}
	})

	t.Run("literal outside return or assignment is ignored", func(t *testing.T) {
		t.Parallel()

		file := pyFile("sut.py", "print(42)\n")
		if got := NewConstantAnalyzer().Analyze(context.Background(), file); len(got) != 0 {
			t.Errorf("expected no suggestions, got %d", len(got))
		}
	})
}

// TestStringAnalyzer tests literal detection and the import exclusion.
func TestStringAnalyzer(t *testing.T) {
	t.Parallel()

	t.Run("flags meaningful literals in assignments", func(t *testing.T) {
		t.Parallel()

		file := pyFile("models.py", `TABLE_NAME = "users"`+"\n")
		suggestions := NewStringAnalyzer().Analyze(context.Background(), file)

		if len(suggestions) != 1 {
			t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
		}
		if suggestions[0].Operator != "string_replacement" {
			t.Errorf("expected string_replacement, got %q", suggestions[0].Operator)
		}
	})

	t.Run("skips import lines", func(t *testing.T) {
		t.Parallel()

		file := pyFile("models.py", `from pathlib import Path as "p"`+"\n")
		if got := NewStringAnalyzer().Analyze(context.Background(), file); len(got) != 0 {
			t.Errorf("expected no suggestions, got %d", len(got))
		}
	})
}

// TestNilReturnAnalyzer tests sentinel-return detection per language.
func TestNilReturnAnalyzer(t *testing.T) {
	t.Parallel()

	t.Run("python None return maps to none_replacement", func(t *testing.T) {
		t.Parallel()

		file := pyFile("sut.py", "def f():\n    return None\n")
		suggestions := NewNilReturnAnalyzer().Analyze(context.Background(), file)

		if len(suggestions) != 1 {
			t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
		}
		if suggestions[0].Operator != "none_replacement" {
			t.Errorf("expected none_replacement, got %q", suggestions[0].Operator)
		}
	})

	t.Run("go nil return maps to nil_replacement", func(t *testing.T) {
		t.Parallel()

		file := source.File{RelPath: "f.go", Language: source.LangGo, Content: []byte("func f() error {\n\treturn nil\n}\n")}
		suggestions := NewNilReturnAnalyzer().Analyze(context.Background(), file)

		if len(suggestions) != 1 {
			t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
		}
		if suggestions[0].Operator != "nil_replacement" {
			t.Errorf("expected nil_replacement, got %q", suggestions[0].Operator)
		}
	})
}

// TestErrorDropAnalyzer tests swallowed-error detection.
func TestErrorDropAnalyzer(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		code string
		want int
	}{
		{name: "discarded error value", code: "_ = err\n", want: 1},
		{name: "empty error branch", code: "if err != nil {}\n", want: 1},
		{name: "bare except", code: "except:\n", want: 1},
		{name: "handled error", code: "if err != nil {\n\treturn err\n}\n", want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			file := pyFile("handler.py", tc.code)
			got := NewErrorDropAnalyzer().Analyze(context.Background(), file)
			if len(got) != tc.want {
				t.Errorf("expected %d suggestions, got %d", tc.want, len(got))
			}
		})
	}
}

// TestConversionAnalyzer tests explicit-conversion detection.
func TestConversionAnalyzer(t *testing.T) {
	t.Parallel()

	file := pyFile("parse.py", "def parse(raw):\n    return int(raw)\n")
	suggestions := NewConversionAnalyzer().Analyze(context.Background(), file)

	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}
	if suggestions[0].Operator != "type_conversion" {
		t.Errorf("expected type_conversion, got %q", suggestions[0].Operator)
	}
}

// TestSuggesterRun tests the full pass over a temporary source tree.
func TestSuggesterRun(t *testing.T) {
	t.Parallel()

	t.Run("aggregates suggestions and skeletons across files", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "sut.py", pyFixture)
		writeFile(t, root, "models.py", `TABLE_NAME = "users"`+"\n")

		suggester := New(WithConcurrency(2))
		report, err := suggester.Run(context.Background(), "run-1", root)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(report.FilesAnalyzed) != 2 {
			t.Fatalf("expected 2 files analyzed, got %d", len(report.FilesAnalyzed))
		}
		if report.Analyzer != DefaultAnalyzerLabel {
			t.Errorf("expected label %q, got %q", DefaultAnalyzerLabel, report.Analyzer)
		}
		if report.Summary.TotalSuggestions == 0 {
			t.Fatal("expected suggestions for the fixture")
		}
		if report.Summary.TotalSuggestions != len(report.Suggestions) {
			t.Errorf("summary count %d does not match %d suggestions",
				report.Summary.TotalSuggestions, len(report.Suggestions))
		}
		if len(report.GeneratedTests) == 0 {
			t.Error("expected generated test skeletons")
		}

		// Deterministic ordering: files sorted, then line within file.
		for i := 1; i < len(report.Suggestions); i++ {
			prev, cur := report.Suggestions[i-1], report.Suggestions[i]
			if prev.File > cur.File {
				t.Fatalf("suggestions not ordered by file: %q after %q", cur.File, prev.File)
			}
			if prev.File == cur.File && prev.Line > cur.Line {
				t.Fatalf("suggestions not ordered by line in %s", cur.File)
			}
		}
	})

	t.Run("max per file caps dense files", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		var sb strings.Builder
		for range 30 {
			sb.WriteString("x = a + b\n")
		}
		writeFile(t, root, "dense.py", sb.String())

		suggester := New(WithMaxPerFile(5))
		report, err := suggester.Run(context.Background(), "run-1", root)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(report.Suggestions) > 5 {
			t.Errorf("expected at most 5 suggestions, got %d", len(report.Suggestions))
		}
	})

	t.Run("cancelled context aborts the pass", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "sut.py", pyFixture)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := New().Run(ctx, "run-1", root); err == nil {
			t.Error("expected an error from a cancelled context")
		}
	})
}

// TestGenerateTestSkeleton tests naming and language selection.
func TestGenerateTestSkeleton(t *testing.T) {
	t.Parallel()

	t.Run("python skeleton uses pytest naming", func(t *testing.T) {
		t.Parallel()

		file := pyFile("sut.py", "")
		skeleton := GenerateTestSkeleton(file, model.CategoryArithmetic)

		if skeleton.Name != "test_sut_arithmetic_integrity" {
			t.Errorf("unexpected name %q", skeleton.Name)
		}
		if skeleton.Language != source.LangPython {
			t.Errorf("expected python, got %q", skeleton.Language)
		}
		if !strings.Contains(skeleton.Source, "def test_sut_arithmetic_integrity()") {
			t.Errorf("skeleton source does not define the named function:\n%s", skeleton.Source)
		}
	})

	t.Run("go skeleton uses Go naming", func(t *testing.T) {
		t.Parallel()

		file := source.File{RelPath: "calc.go", Language: source.LangGo}
		skeleton := GenerateTestSkeleton(file, model.CategoryComparison)

		if skeleton.Name != "TestCalcComparisonBoundaries" {
			t.Errorf("unexpected name %q", skeleton.Name)
		}
		if !strings.Contains(skeleton.Source, "func TestCalcComparisonBoundaries(t *testing.T)") {
			t.Errorf("skeleton source does not define the named function:\n%s", skeleton.Source)
		}
	})

	t.Run("unknown category falls back to the generic template", func(t *testing.T) {
		t.Parallel()

		file := pyFile("sut.py", "")
		skeleton := GenerateTestSkeleton(file, "something_new")
		if !strings.Contains(skeleton.Name, "suggested_scenario") {
			t.Errorf("expected generic fallback, got %q", skeleton.Name)
		}
	})
}

// pyFile builds an in-memory Python source.File for analyzer tests.
func pyFile(relPath, content string) source.File {
	return source.File{
		RelPath:  relPath,
		Language: source.LangPython,
		Content:  []byte(content),
	}
}

// writeFile creates a file under dir.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}
