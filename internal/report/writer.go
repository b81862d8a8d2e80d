package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"mutbench/internal/analysis"
	"mutbench/internal/model"
)

// Writer defines the interface for run-report output.
// Implementations write study results in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the full run report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.RunReport) (int, error)

	// WriteSummary outputs only the summary portion.
	// This is useful for quick review without the full mutant list.
	WriteSummary(summary *model.RunSummary) (int, error)
}

// SuggestionWriter is implemented by writers that can render a suggester
// pass.
type SuggestionWriter interface {
	WriteSuggestions(report *model.SuggestionReport) (int, error)
}

// ComparisonWriter is implemented by writers that can render the study
// comparisons.
type ComparisonWriter interface {
	WriteComparison(comparison *analysis.ApproachComparison) (int, error)
	WriteImprovement(improvement *analysis.Improvement) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.RunReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteSummary outputs the summary to all configured Writers.
func (m *MultiWriter) WriteSummary(summary *model.RunSummary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// printer groups numbers the English way so large mutant counts stay
// readable and identical across all writers.
var printer = message.NewPrinter(language.English)

// formatCount renders an integer with thousands grouping.
func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// formatPercent renders a fraction in [0, 1] as a percentage with two
// decimals, e.g. 0.3333 as "33.33%".
func formatPercent(fraction float64) string {
	return printer.Sprintf("%.2f%%", fraction*100)
}

// formatSignedPercent renders a fraction delta with an explicit sign.
func formatSignedPercent(fraction float64) string {
	return printer.Sprintf("%+.2f%%", fraction*100)
}

// formatSignedCount renders an integer delta with an explicit sign.
func formatSignedCount(n int) string {
	return printer.Sprintf("%+d", n)
}

// Report-kind names used in output file names.
const (
	KindMutation    = "mutation_report"
	KindSuggestion  = "suggestion_report"
	KindComparison  = "comparison_report"
	KindImprovement = "improvement_report"
)

// fileTimestampLayout names report files sortably by generation time.
const fileTimestampLayout = "20060102_150405"

// ReportFileName builds the output file name for a report kind and format
// suffix, e.g. "mutation_report_20250114_153000.pdf".
func ReportFileName(kind, ext string, ts time.Time) string {
	return fmt.Sprintf("%s_%s.%s", kind, ts.Format(fileTimestampLayout), ext)
}

// CreateReportFile creates the reports directory if needed and opens a new
// timestamped report file in it. The caller owns closing the file.
func CreateReportFile(dir, kind, ext string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}

	path := filepath.Join(dir, ReportFileName(kind, ext, time.Now()))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600) //nolint:gosec // path joins the reports dir with a fixed name
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return f, nil
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
