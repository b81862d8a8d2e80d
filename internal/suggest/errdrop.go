package suggest

import (
	"context"
	"regexp"

	"mutbench/internal/model"
	"mutbench/internal/source"
)

// ErrorDropAnalyzer flags swallowed errors: discarded error values, empty
// error branches, and bare exception handlers. A mutation that removes a
// raise (or empties an error branch) survives whenever the suite never
// feeds the code invalid input.
type ErrorDropAnalyzer struct {
	// patterns pairs a regex with the description reported on a match.
	patterns []errDropPattern
}

// errDropPattern is one swallowed-error shape.
type errDropPattern struct {
	regex       *regexp.Regexp
	description string
}

// NewErrorDropAnalyzer creates a new ErrorDropAnalyzer.
func NewErrorDropAnalyzer() *ErrorDropAnalyzer {
	return &ErrorDropAnalyzer{
		patterns: []errDropPattern{
			{
				regex:       regexp.MustCompile(`^\s*_\s*=\s*\w*[eE]rr\w*\b`),
				description: "Error value is discarded; a mutation here passes silently",
			},
			{
				regex:       regexp.MustCompile(`if\s+\w*err\w*\s*!=\s*nil\s*\{\s*\}`),
				description: "Empty error branch; removing the check is undetectable",
			},
			{
				regex:       regexp.MustCompile(`^\s*except\s*:\s*$|^\s*except\s+\w+\s*:\s*pass\b`),
				description: "Bare exception handler; removing the raise is undetectable",
			},
			{
				regex:       regexp.MustCompile(`catch\s*\([^)]*\)\s*\{\s*\}`),
				description: "Empty catch block; removing the throw is undetectable",
			},
		},
	}
}

// Name returns the analyzer name.
func (a *ErrorDropAnalyzer) Name() string {
	return "errdrop"
}

// Category returns the analyzer category.
func (a *ErrorDropAnalyzer) Category() string {
	return model.CategoryErrorDrop
}

// Analyze flags swallowed errors.
func (a *ErrorDropAnalyzer) Analyze(ctx context.Context, file source.File) []model.Suggestion {
	var suggestions []model.Suggestion

	scanLines(ctx, file, func(lineNo int, line string) {
		for _, p := range a.patterns {
			if !p.regex.MatchString(line) {
				continue
			}
			suggestions = append(suggestions, model.Suggestion{
				File:        file.RelPath,
				Line:        lineNo,
				Category:    a.Category(),
				Operator:    "exception_swallowing",
				Snippet:     snippet(line),
				Description: p.description,
			})
			return
		}
	})

	return suggestions
}
