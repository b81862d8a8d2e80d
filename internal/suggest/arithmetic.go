package suggest

import (
	"context"
	"fmt"
	"regexp"

	"mutbench/internal/model"
	"mutbench/internal/source"
)

// ArithmeticAnalyzer flags binary arithmetic operators. Swapping + for -
// (or * for /) is the most common mutation external tools apply, and a test
// suite that cannot tell the operators apart is a classic gap.
type ArithmeticAnalyzer struct {
	// opRegex matches a binary arithmetic operator between two operands.
	// Requiring an operand on each side avoids unary minus, pointer
	// dereference, and comment markers.
	opRegex *regexp.Regexp
}

// NewArithmeticAnalyzer creates a new ArithmeticAnalyzer.
func NewArithmeticAnalyzer() *ArithmeticAnalyzer {
	return &ArithmeticAnalyzer{
		opRegex: regexp.MustCompile(`[\w)\]]\s*([+\-*/])\s*[\w(]`),
	}
}

// Name returns the analyzer name.
func (a *ArithmeticAnalyzer) Name() string {
	return "arithmetic"
}

// Category returns the analyzer category.
func (a *ArithmeticAnalyzer) Category() string {
	return model.CategoryArithmetic
}

// arithmeticSwaps maps each operator to the replacement a mutation tool
// would try first.
var arithmeticSwaps = map[string]string{
	"+": "-",
	"-": "+",
	"*": "/",
	"/": "*",
}

// Analyze flags arithmetic operators in expressions.
func (a *ArithmeticAnalyzer) Analyze(ctx context.Context, file source.File) []model.Suggestion {
	var suggestions []model.Suggestion

	scanLines(ctx, file, func(lineNo int, line string) {
		for _, match := range a.opRegex.FindAllStringSubmatch(line, -1) {
			op := match[1]
			swap, ok := arithmeticSwaps[op]
			if !ok {
				continue
			}
			suggestions = append(suggestions, model.Suggestion{
				File:        file.RelPath,
				Line:        lineNo,
				Category:    a.Category(),
				Operator:    "operator_replacement",
				Snippet:     snippet(line),
				Description: fmt.Sprintf("Replace %s with %s in expression", op, swap),
			})
		}
	})

	return suggestions
}
