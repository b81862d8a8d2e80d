package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"mutbench/internal/analysis"
	"mutbench/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full run report in human-readable format.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	summary := report.Summary
	if summary == nil {
		summary = model.NewRunSummary(report)
	}

	return w.WriteSummary(summary)
}

// WriteSummary outputs the run summary in human-readable format.
func (w *SimpleWriter) WriteSummary(summary *model.RunSummary) (int, error) {
	var sb strings.Builder

	writeRule(&sb, "MUTATION TESTING REPORT")

	sb.WriteString(fmt.Sprintf("Project:        %s\n", summary.Project))
	sb.WriteString(fmt.Sprintf("Approach:       %s\n", summary.Approach))
	if summary.Label != "" {
		sb.WriteString(fmt.Sprintf("Round:          %s\n", summary.Label))
	}
	if summary.Tool != "" {
		sb.WriteString(fmt.Sprintf("Tool:           %s\n", summary.Tool))
	}
	sb.WriteString(fmt.Sprintf("Run Date:       %s\n", summary.Timestamp.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Run ID:         %s\n", summary.RunID))

	sb.WriteString("\nDetection Summary:\n")
	sb.WriteString(fmt.Sprintf("  Total mutants:    %s\n", formatCount(summary.Total)))
	sb.WriteString(fmt.Sprintf("  Detected:         %s (%s)\n", formatCount(summary.Detected), formatPercent(summary.DetectionRate)))
	sb.WriteString(fmt.Sprintf("  Survived:         %s (%s)\n", formatCount(summary.Survived), formatPercent(summary.SurvivalRate)))
	sb.WriteString(fmt.Sprintf("  Risk:             %s\n", summary.RiskText))

	if len(summary.Survivors) > 0 {
		sb.WriteString(fmt.Sprintf("\nSurviving Mutants (%d):\n", len(summary.Survivors)))
		for _, m := range summary.Survivors {
			sb.WriteString(fmt.Sprintf("  [%s] %s:%d %s\n", m.ID, m.File, m.Line, m.Operator))
			if m.Description != "" {
				sb.WriteString(fmt.Sprintf("      %s\n", m.Description))
			}
			if w.verbose {
				if guidance := model.GetOperatorInfo(m.Operator).Guidance; guidance != "" {
					sb.WriteString(fmt.Sprintf("      Hint: %s\n", guidance))
				}
			}
		}
	}

	if summary.Assessment != "" {
		sb.WriteString("\nAssessment:\n  " + summary.Assessment + "\n")
	}
	if summary.Recommendation != "" {
		sb.WriteString("\nRecommendation:\n  " + summary.Recommendation + "\n")
	}

	w.writeErrors(&sb, summary.Errors)

	return w.output.Write([]byte(sb.String()))
}

// WriteSuggestions outputs a suggester pass in human-readable format.
func (w *SimpleWriter) WriteSuggestions(report *model.SuggestionReport) (int, error) {
	var sb strings.Builder

	writeRule(&sb, "MUTATION SUGGESTIONS")

	sb.WriteString(fmt.Sprintf("Project:         %s\n", report.Project))
	sb.WriteString(fmt.Sprintf("Analyzer:        %s\n", report.Analyzer))
	sb.WriteString(fmt.Sprintf("Run Date:        %s\n", report.Timestamp.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Files analyzed:  %d\n", len(report.FilesAnalyzed)))
	sb.WriteString(fmt.Sprintf("Suggestions:     %d\n", report.Summary.TotalSuggestions))
	sb.WriteString(fmt.Sprintf("Generated tests: %d\n", report.Summary.TotalTests))

	if len(report.Summary.ByCategory) > 0 {
		sb.WriteString("\nBy Category:\n")
		for _, category := range sortedKeys(report.Summary.ByCategory) {
			sb.WriteString(fmt.Sprintf("  %-24s %d\n", category, report.Summary.ByCategory[category]))
		}
	}

	if len(report.Suggestions) > 0 {
		sb.WriteString("\nSuggested Mutation Points:\n")
		for _, s := range report.Suggestions {
			sb.WriteString(fmt.Sprintf("  %s:%d %s\n", s.File, s.Line, s.Operator))
			sb.WriteString(fmt.Sprintf("      %s\n", s.Description))
			if w.verbose && s.Snippet != "" {
				sb.WriteString(fmt.Sprintf("      | %s\n", s.Snippet))
			}
		}
	}

	w.writeErrors(&sb, report.Errors)

	return w.output.Write([]byte(sb.String()))
}

// WriteComparison outputs an approach comparison in human-readable format.
func (w *SimpleWriter) WriteComparison(comparison *analysis.ApproachComparison) (int, error) {
	var sb strings.Builder

	writeRule(&sb, "COMPARISON: TRADITIONAL vs PATTERN ANALYSIS")

	sb.WriteString(fmt.Sprintf("Result: %s\n", directionText(comparison.Direction)))

	writeMetricTable(&sb, comparison.Rows(), "Traditional", "Pattern")

	sb.WriteString(fmt.Sprintf("\nGenerated test skeletons: %d (%s more tests available)\n",
		comparison.SuggestedTests, formatSignedPercent(comparison.TestsDelta)))

	sb.WriteString("\nConclusion:\n  " + comparison.Conclusion + "\n")

	return w.output.Write([]byte(sb.String()))
}

// WriteImprovement outputs a round-improvement comparison in
// human-readable format.
func (w *SimpleWriter) WriteImprovement(improvement *analysis.Improvement) (int, error) {
	var sb strings.Builder

	writeRule(&sb, "ROUND IMPROVEMENT REPORT")

	sb.WriteString(fmt.Sprintf("Result: %s\n", directionText(improvement.Direction)))

	writeMetricTable(&sb, improvement.Rows(), firstLabel(improvement), secondLabel(improvement))

	sb.WriteString(fmt.Sprintf("\nDetection rate change: %s relative to the first round\n",
		formatSignedPercent(improvement.DetectionChange)))

	if len(improvement.NewlyDetected) > 0 {
		sb.WriteString(fmt.Sprintf("\nNewly Detected (%d):\n", len(improvement.NewlyDetected)))
		for _, m := range improvement.NewlyDetected {
			sb.WriteString(fmt.Sprintf("  [+] %s:%d %s: %s\n", m.File, m.Line, m.Operator, m.Description))
		}
	}

	if len(improvement.StillSurviving) > 0 {
		sb.WriteString(fmt.Sprintf("\nStill Surviving (%d):\n", len(improvement.StillSurviving)))
		for _, m := range improvement.StillSurviving {
			sb.WriteString(fmt.Sprintf("  [!] %s:%d %s: %s\n", m.File, m.Line, m.Operator, m.Description))
		}
	}

	if len(improvement.Recommendations) > 0 {
		sb.WriteString("\nFollow-up Recommendations:\n")
		for _, rec := range improvement.Recommendations {
			sb.WriteString("  - " + rec + "\n")
		}
	}

	return w.output.Write([]byte(sb.String()))
}

// writeErrors lists non-fatal problems, when any were recorded.
func (w *SimpleWriter) writeErrors(sb *strings.Builder, errors []string) {
	if len(errors) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\nWarnings (%d):\n", len(errors)))
	for _, e := range errors {
		sb.WriteString("  - " + e + "\n")
	}
}

// writeRule writes a centered section header between "=" rules.
func writeRule(sb *strings.Builder, title string) {
	const width = 70
	pad := (width - len(title)) / 2
	if pad < 0 {
		pad = 0
	}

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", width))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", pad) + title + "\n")
	sb.WriteString(strings.Repeat("=", width))
	sb.WriteString("\n\n")
}

// writeMetricTable renders comparison rows as an aligned text table.
func writeMetricTable(sb *strings.Builder, rows []analysis.MetricRow, baseName, candName string) {
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %-16s  %-12s  %-12s  %-12s\n", "Metric", baseName, candName, "Change"))
	sb.WriteString("  " + strings.Repeat("-", 58) + "\n")

	for _, row := range rows {
		if row.Percent {
			sb.WriteString(fmt.Sprintf("  %-16s  %-12s  %-12s  %-12s\n",
				row.Metric, formatPercent(row.Baseline), formatPercent(row.Candidate), formatSignedPercent(row.Delta)))
		} else {
			sb.WriteString(fmt.Sprintf("  %-16s  %-12s  %-12s  %-12s\n",
				row.Metric, formatCount(int(row.Baseline)), formatCount(int(row.Candidate)), formatSignedCount(int(row.Delta))))
		}
	}
}

// directionText renders a comparison direction for display.
func directionText(direction string) string {
	switch direction {
	case analysis.DirectionImproved:
		return "IMPROVED (detection increased)"
	case analysis.DirectionRegressed:
		return "REGRESSED (detection decreased)"
	default:
		return "UNCHANGED"
	}
}

// firstLabel names the baseline side of an improvement table.
func firstLabel(improvement *analysis.Improvement) string {
	if improvement.Baseline.Label != "" {
		return improvement.Baseline.Label
	}
	return "First round"
}

// secondLabel names the candidate side of an improvement table.
func secondLabel(improvement *analysis.Improvement) string {
	if improvement.Candidate.Label != "" {
		return improvement.Candidate.Label
	}
	return "Second round"
}

// sortedKeys returns map keys in sorted order for stable output.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
