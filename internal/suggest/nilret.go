package suggest

import (
	"context"
	"regexp"

	"mutbench/internal/model"
	"mutbench/internal/source"
)

// NilReturnAnalyzer flags nil (or None) returns. Mutating a nil return
// into a zero value, or the other way round, survives whenever the suite
// never exercises the empty-input path.
type NilReturnAnalyzer struct {
	// nilRegex matches a return of the language's null sentinel.
	nilRegex *regexp.Regexp
}

// NewNilReturnAnalyzer creates a new NilReturnAnalyzer.
func NewNilReturnAnalyzer() *NilReturnAnalyzer {
	return &NilReturnAnalyzer{
		nilRegex: regexp.MustCompile(`\breturn\b.*\b(nil|None|null)\b`),
	}
}

// Name returns the analyzer name.
func (a *NilReturnAnalyzer) Name() string {
	return "nilret"
}

// Category returns the analyzer category.
func (a *NilReturnAnalyzer) Category() string {
	return model.CategoryNilReturn
}

// Analyze flags null-sentinel returns.
func (a *NilReturnAnalyzer) Analyze(ctx context.Context, file source.File) []model.Suggestion {
	var suggestions []model.Suggestion

	operator := "nil_replacement"
	if file.Language == source.LangPython {
		operator = "none_replacement"
	}

	scanLines(ctx, file, func(lineNo int, line string) {
		match := a.nilRegex.FindStringSubmatch(line)
		if match == nil {
			return
		}
		suggestions = append(suggestions, model.Suggestion{
			File:        file.RelPath,
			Line:        lineNo,
			Category:    a.Category(),
			Operator:    operator,
			Snippet:     snippet(line),
			Description: "Change " + match[1] + " handling in return",
		})
	})

	return suggestions
}
