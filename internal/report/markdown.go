package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"mutbench/internal/analysis"
	"mutbench/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full run report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	summary := report.Summary
	if summary == nil {
		summary = model.NewRunSummary(report)
	}

	return w.WriteSummary(summary)
}

// WriteSummary outputs the run summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeMetrics(md, summary)
	w.writeOperators(md, summary)
	w.writeSurvivors(md, summary)
	w.writeErrors(md, summary.Errors)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with round information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.RunSummary) {
	md.H1("Mutation Testing Report")
	md.PlainText("")

	rows := [][]string{
		{"Project", "`" + summary.Project + "`"},
		{"Approach", string(summary.Approach)},
		{"Run Date", summary.Timestamp.Format("2006-01-02 15:04:05 MST")},
		{"Run ID", "`" + summary.RunID + "`"},
	}
	if summary.Label != "" {
		rows = append(rows, []string{"Round", summary.Label})
	}
	if summary.Tool != "" {
		rows = append(rows, []string{"Tool", summary.Tool})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeMetrics writes the detection summary with the outcome pie chart and
// the risk alert.
func (w *MarkdownWriter) writeMetrics(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Detection Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total mutants", formatCount(summary.Total)},
			{"Detected", formatCount(summary.Detected)},
			{"Survived", formatCount(summary.Survived)},
			{"Detection rate", formatPercent(summary.DetectionRate)},
			{"Survival rate", formatPercent(summary.SurvivalRate)},
		},
	})
	md.PlainText("")

	if len(summary.Outcomes) > 0 {
		w.writePieChart(md, summary)
	}

	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart of the outcome distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.RunSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Mutant Outcome Distribution"),
		piechart.WithShowData(true),
	)

	// Fixed label order keeps the chart stable across runs.
	for _, label := range []string{"KILLED", "TIMEOUT", "SURVIVED", "UNTESTED", "SKIPPED", "SUSPICIOUS"} {
		if n := summary.Outcomes[label]; n > 0 {
			chart.LabelAndIntValue(label, uint64(n)) //nolint:gosec // counts are non-negative
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the risk level.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.RunSummary) {
	switch summary.Risk {
	case model.RiskHigh:
		md.Cautionf(
			"High survival rate (%s). %d mutant(s) slipped through the test suite.",
			formatPercent(summary.SurvivalRate), summary.Survived,
		)
	case model.RiskModerate:
		md.Warningf(
			"Moderate survival rate (%s). %d mutant(s) point at test gaps worth closing.",
			formatPercent(summary.SurvivalRate), summary.Survived,
		)
	default:
		if summary.Survived > 0 {
			md.Note("Low survival rate. Review the remaining survivors at your convenience.")
		} else {
			md.Tip("Every mutant was detected. The test suite reacts to all applied mutations.")
		}
	}
	md.PlainText("")
}

// writeOperators writes the per-operator breakdown table.
func (w *MarkdownWriter) writeOperators(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Mutation Operators")
	md.PlainText("")

	if len(summary.Operators) == 0 {
		md.PlainText("No mutants were recorded in this round.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Operators))
	for i, row := range summary.Operators {
		rows[i] = []string{
			"`" + row.Operator + "`",
			row.Category,
			strconv.Itoa(row.Total),
			strconv.Itoa(row.Survived),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Operator", "Category", "Mutants", "Survived"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSurvivors writes the surviving-mutant table with per-operator
// guidance.
func (w *MarkdownWriter) writeSurvivors(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Surviving Mutants")
	md.PlainText("")

	if len(summary.Survivors) == 0 {
		md.PlainText("No surviving mutants.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Survivors))
	for i, m := range summary.Survivors {
		rows[i] = []string{
			m.ID,
			"`" + m.File + ":" + strconv.Itoa(m.Line) + "`",
			m.Operator,
			truncateString(m.Description, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"ID", "Location", "Operator", "Change"},
		Rows:   rows,
	})
	md.PlainText("")

	if summary.Recommendation != "" {
		md.PlainText("**Recommendation:** " + summary.Recommendation)
		md.PlainText("")
	}
}

// writeErrors lists non-fatal round problems, when any were recorded.
func (w *MarkdownWriter) writeErrors(md *markdown.Markdown, errors []string) {
	if len(errors) == 0 {
		return
	}

	md.H2("Warnings")
	md.PlainText("")
	md.BulletList(errors...)
	md.PlainText("")
}

// WriteSuggestions outputs a suggester pass in Markdown format.
func (w *MarkdownWriter) WriteSuggestions(report *model.SuggestionReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Mutation Suggestions")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Project", "`" + report.Project + "`"},
			{"Analyzer", report.Analyzer},
			{"Run Date", report.Timestamp.Format("2006-01-02 15:04:05 MST")},
			{"Files analyzed", strconv.Itoa(len(report.FilesAnalyzed))},
			{"Suggestions", strconv.Itoa(report.Summary.TotalSuggestions)},
			{"Generated tests", strconv.Itoa(report.Summary.TotalTests)},
		},
	})
	md.PlainText("")

	if len(report.Summary.ByCategory) > 0 {
		md.H2("Suggestions by Category")
		md.PlainText("")

		rows := make([][]string, 0, len(report.Summary.ByCategory))
		for _, category := range sortedKeys(report.Summary.ByCategory) {
			rows = append(rows, []string{category, strconv.Itoa(report.Summary.ByCategory[category])})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Category", "Count"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(report.Suggestions) > 0 {
		md.H2("Suggested Mutation Points")
		md.PlainText("")

		rows := make([][]string, len(report.Suggestions))
		for i, s := range report.Suggestions {
			rows[i] = []string{
				"`" + s.File + ":" + strconv.Itoa(s.Line) + "`",
				s.Operator,
				truncateString(s.Description, 60),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Location", "Operator", "Suggested Change"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	for _, skeleton := range report.GeneratedTests {
		md.Details(skeleton.Name+" ("+skeleton.Category+")", "\n```"+skeleton.Language+"\n"+skeleton.Source+"```\n")
	}
	md.PlainText("")

	w.writeErrors(md, report.Errors)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteComparison outputs an approach comparison in Markdown format.
func (w *MarkdownWriter) WriteComparison(comparison *analysis.ApproachComparison) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Approach Comparison: Traditional vs Pattern Analysis")
	md.PlainText("")
	md.PlainText("**Result:** " + directionText(comparison.Direction))
	md.PlainText("")

	w.writeMetricRows(md, comparison.Rows(), "Traditional", "Pattern")

	md.H2("Advantages of the Traditional Approach")
	md.PlainText("")
	md.BulletList(comparison.TraditionalAdvantages...)
	md.PlainText("")

	md.H2("Advantages of the Pattern Approach")
	md.PlainText("")
	md.BulletList(comparison.PatternAdvantages...)
	md.PlainText("")

	md.H2("Limitations")
	md.PlainText("")
	rows := make([][]string, len(comparison.Limitations))
	for i, l := range comparison.Limitations {
		rows[i] = []string{l.Approach, l.Limitation}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Approach", "Limitation"},
		Rows:   rows,
	})
	md.PlainText("")

	md.H2("Hybrid Recommendations")
	md.PlainText("")
	md.BulletList(comparison.Recommendations...)
	md.PlainText("")

	md.H2("Conclusion")
	md.PlainText("")
	md.PlainText(comparison.Conclusion)
	md.PlainText("")

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteImprovement outputs a round-improvement comparison in Markdown
// format.
func (w *MarkdownWriter) WriteImprovement(improvement *analysis.Improvement) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Round Improvement Report")
	md.PlainText("")
	md.PlainText("**Result:** " + directionText(improvement.Direction))
	md.PlainText("")

	w.writeMetricRows(md, improvement.Rows(), firstLabel(improvement), secondLabel(improvement))

	if len(improvement.NewlyDetected) > 0 {
		md.H2("Newly Detected Mutants")
		md.PlainText("")
		md.BulletList(mutantLines(improvement.NewlyDetected)...)
		md.PlainText("")
	}

	if len(improvement.StillSurviving) > 0 {
		md.H2("Still Surviving Mutants")
		md.PlainText("")
		md.BulletList(mutantLines(improvement.StillSurviving)...)
		md.PlainText("")
	}

	if len(improvement.Recommendations) > 0 {
		md.H2("Follow-up Recommendations")
		md.PlainText("")
		md.BulletList(improvement.Recommendations...)
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// writeMetricRows renders a comparison table with named sides.
func (w *MarkdownWriter) writeMetricRows(md *markdown.Markdown, metricRows []analysis.MetricRow, baseName, candName string) {
	md.H2("Metrics")
	md.PlainText("")

	rows := make([][]string, len(metricRows))
	for i, row := range metricRows {
		if row.Percent {
			rows[i] = []string{row.Metric, formatPercent(row.Baseline), formatPercent(row.Candidate), formatSignedPercent(row.Delta)}
		} else {
			rows[i] = []string{row.Metric, formatCount(int(row.Baseline)), formatCount(int(row.Candidate)), formatSignedCount(int(row.Delta))}
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Metric", baseName, candName, "Change"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by mutbench*")
}

// mutantLines renders mutants as bullet lines.
func mutantLines(mutants []model.Mutant) []string {
	lines := make([]string, len(mutants))
	for i, m := range mutants {
		lines[i] = "`" + m.File + ":" + strconv.Itoa(m.Line) + "` " + m.Operator + ": " + m.Description
	}
	return lines
}
