package suggest

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"mutbench/internal/model"
	"mutbench/internal/source"
)

// ConstantAnalyzer flags numeric literals in return statements and
// assignments. Replacing a constant (2 with 3, 0 with 1) is the mutation
// that most often survives: suites tend to assert behavior near typical
// inputs, not the exact constants the code depends on.
type ConstantAnalyzer struct {
	// contextRegex restricts matches to lines where the literal feeds a
	// result, so loop counters and index arithmetic stay out of scope.
	contextRegex *regexp.Regexp

	// numberRegex matches integer and float literals.
	numberRegex *regexp.Regexp
}

// NewConstantAnalyzer creates a new ConstantAnalyzer.
func NewConstantAnalyzer() *ConstantAnalyzer {
	return &ConstantAnalyzer{
		contextRegex: regexp.MustCompile(`(?:\breturn\b|[^=!<>]=[^=])`),
		numberRegex:  regexp.MustCompile(`\b\d+(?:\.\d+)?\b`),
	}
}

// Name returns the analyzer name.
func (a *ConstantAnalyzer) Name() string {
	return "constants"
}

// Category returns the analyzer category.
func (a *ConstantAnalyzer) Category() string {
	return model.CategoryConstant
}

// Analyze flags numeric literals that influence results.
func (a *ConstantAnalyzer) Analyze(ctx context.Context, file source.File) []model.Suggestion {
	var suggestions []model.Suggestion

	scanLines(ctx, file, func(lineNo int, line string) {
		if !a.contextRegex.MatchString(line) {
			return
		}

		for _, literal := range a.numberRegex.FindAllString(line, -1) {
			operator := "number_replacement"
			description := fmt.Sprintf("Replace %s with a neighboring value", literal)

			// A literal next to a multiplication is a coefficient; mutating
			// it checks whether the suite pins the scaling factor.
			if strings.Contains(line, "*") {
				operator = "coefficient_replacement"
				description = fmt.Sprintf("Change coefficient %s in multiplication", literal)
			}

			suggestions = append(suggestions, model.Suggestion{
				File:        file.RelPath,
				Line:        lineNo,
				Category:    a.Category(),
				Operator:    operator,
				Snippet:     snippet(line),
				Description: description,
			})
		}
	})

	return suggestions
}
