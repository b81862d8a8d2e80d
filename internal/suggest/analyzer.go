package suggest

import (
	"context"
	"strings"

	"mutbench/internal/model"
	"mutbench/internal/source"
)

// Analyzer defines the interface for individual suggestion analyzers.
// Each analyzer focuses on a specific mutation category.
//
// Design decision: We use an interface rather than concrete types because:
//  1. Allows for easy extension with new analyzers
//  2. Enables testing with mock analyzers
//  3. The Suggester can treat all categories uniformly
type Analyzer interface {
	// Name returns the analyzer's name for logging and reporting.
	Name() string

	// Category returns the suggestion category the analyzer produces.
	Category() string

	// Analyze scans one source file and returns the mutation points it
	// suggests. Implementations must respect context cancellation.
	Analyze(ctx context.Context, file source.File) []model.Suggestion
}

// DefaultAnalyzers returns all built-in analyzers in their standard order.
func DefaultAnalyzers() []Analyzer {
	return []Analyzer{
		NewArithmeticAnalyzer(),
		NewComparisonAnalyzer(),
		NewConstantAnalyzer(),
		NewStringAnalyzer(),
		NewNilReturnAnalyzer(),
		NewErrorDropAnalyzer(),
		NewConversionAnalyzer(),
	}
}

// scanLines runs fn over each analyzable line of a file, skipping comment
// lines and respecting cancellation. Lines are 1-based, matching how
// external tools report mutant locations.
func scanLines(ctx context.Context, file source.File, fn func(lineNo int, line string)) {
	lines := strings.Split(string(file.Content), "\n")
	for i, line := range lines {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if isCommentLine(line) {
			continue
		}
		fn(i+1, line)
	}
}

// isCommentLine reports whether a line is only a comment in any of the
// supported languages. Inline trailing comments still get analyzed; cutting
// them out would need a real parser, and a false suggestion on a comment
// tail is harmless.
func isCommentLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" ||
		strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "#") ||
		strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, "/*")
}

// snippet trims a matched line for display in reports.
func snippet(line string) string {
	const maxSnippet = 80
	trimmed := strings.TrimSpace(line)
	if len(trimmed) > maxSnippet {
		return trimmed[:maxSnippet-3] + "..."
	}
	return trimmed
}
