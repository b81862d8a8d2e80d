package suggest

import (
	"context"
	"fmt"
	"regexp"

	"mutbench/internal/model"
	"mutbench/internal/source"
)

// ComparisonAnalyzer flags comparison operators. Boundary mutations
// (< to <=, == to !=) survive whenever a suite only tests one side of a
// condition, so every comparison is a candidate mutation point.
type ComparisonAnalyzer struct {
	// cmpRegex matches comparison operators between two operands. The
	// two-character operators come first so `<=` is not reported as `<`.
	cmpRegex *regexp.Regexp
}

// NewComparisonAnalyzer creates a new ComparisonAnalyzer.
func NewComparisonAnalyzer() *ComparisonAnalyzer {
	return &ComparisonAnalyzer{
		cmpRegex: regexp.MustCompile(`[\w)\]]\s*(==|!=|<=|>=|<|>)\s*[\w(\-"']`),
	}
}

// Name returns the analyzer name.
func (a *ComparisonAnalyzer) Name() string {
	return "comparison"
}

// Category returns the analyzer category.
func (a *ComparisonAnalyzer) Category() string {
	return model.CategoryComparison
}

// comparisonSwaps maps each comparison operator to the boundary mutation a
// tool would try first.
var comparisonSwaps = map[string]string{
	"==": "!=",
	"!=": "==",
	"<":  "<=",
	"<=": "<",
	">":  ">=",
	">=": ">",
}

// Analyze flags comparison operators in conditions.
func (a *ComparisonAnalyzer) Analyze(ctx context.Context, file source.File) []model.Suggestion {
	var suggestions []model.Suggestion

	scanLines(ctx, file, func(lineNo int, line string) {
		for _, match := range a.cmpRegex.FindAllStringSubmatch(line, -1) {
			op := match[1]
			swap, ok := comparisonSwaps[op]
			if !ok {
				continue
			}
			suggestions = append(suggestions, model.Suggestion{
				File:        file.RelPath,
				Line:        lineNo,
				Category:    a.Category(),
				Operator:    "comparison_replacement",
				Snippet:     snippet(line),
				Description: fmt.Sprintf("Replace %s with %s in condition", op, swap),
			})
		}
	})

	return suggestions
}
