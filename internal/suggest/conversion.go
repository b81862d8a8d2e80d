package suggest

import (
	"context"
	"fmt"
	"regexp"

	"mutbench/internal/model"
	"mutbench/internal/source"
)

// ConversionAnalyzer flags explicit type conversions. Converting through a
// narrower or wider type is a mutation that survives unless the suite
// exercises values that truncate, overflow, or change sign.
type ConversionAnalyzer struct {
	// convRegex matches a conversion-function call with an argument.
	// The alternation covers the numeric and string conversions of the
	// supported languages.
	convRegex *regexp.Regexp
}

// NewConversionAnalyzer creates a new ConversionAnalyzer.
func NewConversionAnalyzer() *ConversionAnalyzer {
	return &ConversionAnalyzer{
		convRegex: regexp.MustCompile(`\b(int|int32|int64|uint|float|float32|float64|str|string|bool|byte|rune)\(\s*[^)\s][^)]*\)`),
	}
}

// Name returns the analyzer name.
func (a *ConversionAnalyzer) Name() string {
	return "conversion"
}

// Category returns the analyzer category.
func (a *ConversionAnalyzer) Category() string {
	return model.CategoryConversion
}

// Analyze flags explicit type conversions.
func (a *ConversionAnalyzer) Analyze(ctx context.Context, file source.File) []model.Suggestion {
	var suggestions []model.Suggestion

	scanLines(ctx, file, func(lineNo int, line string) {
		for _, match := range a.convRegex.FindAllStringSubmatch(line, -1) {
			suggestions = append(suggestions, model.Suggestion{
				File:        file.RelPath,
				Line:        lineNo,
				Category:    a.Category(),
				Operator:    "type_conversion",
				Snippet:     snippet(line),
				Description: fmt.Sprintf("Alter %s conversion of the argument", match[1]),
			})
		}
	})

	return suggestions
}
