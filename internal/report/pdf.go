package report

import (
	"bytes"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"mutbench/internal/analysis"
	"mutbench/internal/model"
)

// A4 portrait layout constants shared by all PDF reports.
const (
	pdfMargin     = 15.0
	pdfPageWidth  = 210.0
	pdfBodyWidth  = pdfPageWidth - 2*pdfMargin
	pdfLineHeight = 6.0
	pdfCellHeight = 8.0
)

// PDFWriter outputs reports as PDF documents.
// This is the shareable study artifact: an executive summary, the metric
// tables, and the recommendation text in one self-contained file.
//
// Design decision: Page layout and drawing are delegated to the fpdf
// formatting library; this writer only decides what goes on the page.
type PDFWriter struct {
	baseWriter
}

// NewPDFWriter creates a PDFWriter that outputs to the given writer.
func NewPDFWriter(output io.Writer) *PDFWriter {
	return &PDFWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full run report as a PDF document.
func (w *PDFWriter) Write(report *model.RunReport) (int, error) {
	summary := report.Summary
	if summary == nil {
		summary = model.NewRunSummary(report)
	}

	return w.WriteSummary(summary)
}

// WriteSummary outputs the run summary as a PDF document.
func (w *PDFWriter) WriteSummary(summary *model.RunSummary) (int, error) {
	pdf := newDocument("Mutation Testing Report")

	writeSubtitle(pdf, summary.Project+" ("+string(summary.Approach)+approachSuffix(summary)+")")

	// Executive summary
	writeHeading(pdf, "Executive Summary")
	writeParagraph(pdf, printer.Sprintf(
		"The round exercised %d mutants. The test suite detected %d (%s) and missed %d (%s). Risk level: %s.",
		summary.Total, summary.Detected, formatPercent(summary.DetectionRate),
		summary.Survived, formatPercent(summary.SurvivalRate), summary.RiskText,
	))

	// Outcome table
	writeHeading(pdf, "Outcome Distribution")
	writeTable(pdf, []string{"Outcome", "Count"}, outcomeRows(summary), []float64{60, 40})

	// Surviving mutants
	if len(summary.Survivors) > 0 {
		writeHeading(pdf, "Surviving Mutants")
		rows := make([][]string, len(summary.Survivors))
		for i, m := range summary.Survivors {
			rows[i] = []string{
				m.ID,
				m.File + ":" + strconv.Itoa(m.Line),
				m.Operator,
				truncateString(m.Description, 48),
			}
		}
		writeTable(pdf, []string{"ID", "Location", "Operator", "Change"}, rows, []float64{15, 50, 45, 70})
	}

	// Risk recommendation
	writeHeading(pdf, "Recommendation")
	writeParagraph(pdf, summary.Assessment)
	writeParagraph(pdf, summary.Recommendation)

	writeGeneratedAt(pdf, summary.Timestamp)
	return w.render(pdf)
}

// WriteSuggestions outputs a suggester pass as a PDF document.
func (w *PDFWriter) WriteSuggestions(report *model.SuggestionReport) (int, error) {
	pdf := newDocument("Mutation Suggestions")

	writeSubtitle(pdf, report.Project+" ("+report.Analyzer+")")

	writeHeading(pdf, "Summary")
	writeParagraph(pdf, printer.Sprintf(
		"The analysis covered %d files and proposed %d mutation points with %d generated test skeletons.",
		len(report.FilesAnalyzed), report.Summary.TotalSuggestions, report.Summary.TotalTests,
	))

	if len(report.Summary.ByCategory) > 0 {
		writeHeading(pdf, "Suggestions by Category")
		rows := make([][]string, 0, len(report.Summary.ByCategory))
		for _, category := range sortedKeys(report.Summary.ByCategory) {
			rows = append(rows, []string{category, strconv.Itoa(report.Summary.ByCategory[category])})
		}
		writeTable(pdf, []string{"Category", "Count"}, rows, []float64{80, 30})
	}

	if len(report.Suggestions) > 0 {
		writeHeading(pdf, "Suggested Mutation Points")
		rows := make([][]string, len(report.Suggestions))
		for i, s := range report.Suggestions {
			rows[i] = []string{
				s.File + ":" + strconv.Itoa(s.Line),
				s.Operator,
				truncateString(s.Description, 52),
			}
		}
		writeTable(pdf, []string{"Location", "Operator", "Suggested Change"}, rows, []float64{50, 50, 80})
	}

	writeGeneratedAt(pdf, report.Timestamp)
	return w.render(pdf)
}

// WriteComparison outputs an approach comparison as a PDF document.
func (w *PDFWriter) WriteComparison(comparison *analysis.ApproachComparison) (int, error) {
	pdf := newDocument("Comparison: Traditional vs Pattern Analysis")

	writeSubtitle(pdf, comparison.Baseline.Project)

	writeHeading(pdf, "Metrics")
	writeMetricPDFTable(pdf, comparison.Rows(), "Traditional", "Pattern")

	writeHeading(pdf, "Advantages of the Traditional Approach")
	writeBullets(pdf, comparison.TraditionalAdvantages)

	writeHeading(pdf, "Advantages of the Pattern Approach")
	writeBullets(pdf, comparison.PatternAdvantages)

	writeHeading(pdf, "Limitations")
	rows := make([][]string, len(comparison.Limitations))
	for i, l := range comparison.Limitations {
		rows[i] = []string{l.Approach, truncateString(l.Limitation, 80)}
	}
	writeTable(pdf, []string{"Approach", "Limitation"}, rows, []float64{35, 145})

	writeHeading(pdf, "Hybrid Recommendations")
	writeBullets(pdf, comparison.Recommendations)

	writeHeading(pdf, "Conclusion")
	writeParagraph(pdf, comparison.Conclusion)

	writeGeneratedAt(pdf, time.Now())
	return w.render(pdf)
}

// WriteImprovement outputs a round-improvement comparison as a PDF
// document.
func (w *PDFWriter) WriteImprovement(improvement *analysis.Improvement) (int, error) {
	pdf := newDocument("Round Improvement Report")

	writeSubtitle(pdf, improvement.Baseline.Project)

	writeHeading(pdf, "Metrics")
	writeMetricPDFTable(pdf, improvement.Rows(), firstLabel(improvement), secondLabel(improvement))

	writeParagraph(pdf, printer.Sprintf(
		"Detection rate changed by %s relative to the first round.",
		formatSignedPercent(improvement.DetectionChange),
	))

	if len(improvement.NewlyDetected) > 0 {
		writeHeading(pdf, "Newly Detected Mutants")
		writeBullets(pdf, mutantLines(improvement.NewlyDetected))
	}

	if len(improvement.StillSurviving) > 0 {
		writeHeading(pdf, "Still Surviving Mutants")
		writeBullets(pdf, mutantLines(improvement.StillSurviving))
	}

	if len(improvement.Recommendations) > 0 {
		writeHeading(pdf, "Follow-up Recommendations")
		writeBullets(pdf, improvement.Recommendations)
	}

	writeGeneratedAt(pdf, time.Now())
	return w.render(pdf)
}

// render serializes the document to the configured output.
func (w *PDFWriter) render(pdf *fpdf.Fpdf) (int, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}

// newDocument creates an A4 portrait document with the title row drawn.
func newDocument(title string) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(pdfBodyWidth, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	return pdf
}

// writeSubtitle draws the project line under the title.
func writeSubtitle(pdf *fpdf.Fpdf, subtitle string) {
	pdf.SetFont("Helvetica", "I", 11)
	pdf.CellFormat(pdfBodyWidth, pdfLineHeight, subtitle, "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

// writeHeading draws a section heading.
func writeHeading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(pdfBodyWidth, pdfCellHeight, text, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

// writeParagraph draws wrapped body text.
func writeParagraph(pdf *fpdf.Fpdf, text string) {
	if text == "" {
		return
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(pdfBodyWidth, pdfLineHeight, text, "", "L", false)
	pdf.Ln(2)
}

// writeBullets draws a bullet list.
func writeBullets(pdf *fpdf.Fpdf, items []string) {
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.MultiCell(pdfBodyWidth, pdfLineHeight, "- "+item, "", "L", false)
	}
	pdf.Ln(2)
}

// writeTable draws a bordered table with a shaded header row.
func writeTable(pdf *fpdf.Fpdf, headers []string, rows [][]string, widths []float64) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], pdfCellHeight, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], pdfCellHeight-1, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(3)
}

// writeMetricPDFTable draws a comparison metric table with named sides.
func writeMetricPDFTable(pdf *fpdf.Fpdf, metricRows []analysis.MetricRow, baseName, candName string) {
	rows := make([][]string, len(metricRows))
	for i, row := range metricRows {
		if row.Percent {
			rows[i] = []string{row.Metric, formatPercent(row.Baseline), formatPercent(row.Candidate), formatSignedPercent(row.Delta)}
		} else {
			rows[i] = []string{row.Metric, formatCount(int(row.Baseline)), formatCount(int(row.Candidate)), formatSignedCount(int(row.Delta))}
		}
	}
	writeTable(pdf, []string{"Metric", baseName, candName, "Change"}, rows, []float64{50, 45, 45, 40})
}

// outcomeRows renders the outcome counts in a fixed display order.
func outcomeRows(summary *model.RunSummary) [][]string {
	var rows [][]string
	for _, label := range []string{"KILLED", "TIMEOUT", "SURVIVED", "UNTESTED", "SKIPPED", "SUSPICIOUS"} {
		if n := summary.Outcomes[label]; n > 0 {
			rows = append(rows, []string{label, formatCount(n)})
		}
	}
	return rows
}

// writeGeneratedAt draws the timestamp footer.
func writeGeneratedAt(pdf *fpdf.Fpdf, ts time.Time) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(pdfBodyWidth, pdfLineHeight,
		"Report generated at "+ts.Format("2006-01-02 15:04:05 MST"), "", 1, "L", false, 0, "")
}

// approachSuffix renders the round label for the subtitle.
func approachSuffix(summary *model.RunSummary) string {
	if summary.Label == "" {
		return ""
	}
	return ", " + summary.Label
}
