package suggest

import (
	"context"
	"regexp"
	"strings"

	"mutbench/internal/model"
	"mutbench/internal/source"
)

// StringAnalyzer flags string literals in returns and assignments.
// Literals that carry meaning (table names, identifiers, messages) are
// prime mutation targets: modifying one rarely breaks a test that only
// checks the happy path.
type StringAnalyzer struct {
	// literalRegex matches a non-empty quoted literal. Both quote styles
	// are covered because the suggester handles several languages.
	literalRegex *regexp.Regexp
}

// NewStringAnalyzer creates a new StringAnalyzer.
func NewStringAnalyzer() *StringAnalyzer {
	return &StringAnalyzer{
		literalRegex: regexp.MustCompile(`"[^"]+"|'[^']+'`),
	}
}

// Name returns the analyzer name.
func (a *StringAnalyzer) Name() string {
	return "strings"
}

// Category returns the analyzer category.
func (a *StringAnalyzer) Category() string {
	return model.CategoryString
}

// Analyze flags string literals that influence results.
func (a *StringAnalyzer) Analyze(ctx context.Context, file source.File) []model.Suggestion {
	var suggestions []model.Suggestion

	scanLines(ctx, file, func(lineNo int, line string) {
		// Literals in import or log lines are not worth mutating.
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "from ") {
			return
		}
		if !strings.Contains(line, "return") && !strings.Contains(line, "=") {
			return
		}

		for _, literal := range a.literalRegex.FindAllString(line, -1) {
			if len(literal) <= 3 {
				// Single-character literals are mostly separators.
				continue
			}
			suggestions = append(suggestions, model.Suggestion{
				File:        file.RelPath,
				Line:        lineNo,
				Category:    a.Category(),
				Operator:    "string_replacement",
				Snippet:     snippet(line),
				Description: "Modify string literal " + literal,
			})
		}
	})

	return suggestions
}
