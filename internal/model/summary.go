package model

import (
	"sort"
	"time"
)

// RunSummary is a summarized, human-readable view of one round.
// It extracts the key metrics from the full report for quick review.
//
// Design decision: We create a separate summary rather than just printing
// parts of RunReport because:
//  1. It provides a consistent, curated view across all output formats
//  2. It can be serialized to JSON for tools that want structured but simple output
//  3. It separates presentation concerns from data collection
type RunSummary struct {
	// RunID identifies the summarized round.
	RunID string `json:"run_id"`

	// Project is the analyzed project root.
	Project string `json:"project"`

	// Approach is the strategy that produced the round.
	Approach Approach `json:"approach"`

	// Label names the round within a study.
	Label string `json:"label,omitempty"`

	// Tool is the external tool that produced the results.
	Tool string `json:"tool,omitempty"`

	// Timestamp is when the round was executed.
	Timestamp time.Time `json:"timestamp"`

	// === Counts ===

	// Total is the number of mutants in the round.
	Total int `json:"total"`

	// Detected is the number of mutants the test suite caught.
	Detected int `json:"detected"`

	// Survived is the number of mutants the test suite missed.
	Survived int `json:"survived"`

	// === Rates ===

	// DetectionRate is detected/total as a fraction in [0, 1].
	DetectionRate float64 `json:"detection_rate"`

	// SurvivalRate is survived/total as a fraction in [0, 1].
	SurvivalRate float64 `json:"survival_rate"`

	// === Assessment ===

	// Risk is the quality classification derived from the survival rate.
	Risk Risk `json:"risk"`

	// RiskText is the human-readable risk level.
	RiskText string `json:"risk_text"`

	// Assessment explains what the risk level means for this round.
	Assessment string `json:"assessment,omitempty"`

	// Recommendation is the suggested next step.
	Recommendation string `json:"recommendation,omitempty"`

	// === Breakdown ===

	// Outcomes is the count of mutants per normalized outcome label.
	Outcomes map[string]int `json:"outcomes,omitempty"`

	// Operators lists per-operator rows, ordered by count descending.
	Operators []OperatorRow `json:"operators,omitempty"`

	// Survivors lists the mutants the test suite missed.
	Survivors []Mutant `json:"survivors,omitempty"`

	// Errors carries any non-fatal problems from the round.
	Errors []string `json:"errors,omitempty"`
}

// OperatorRow is one row of the per-operator breakdown.
type OperatorRow struct {
	// Operator is the mutation operator name.
	Operator string `json:"operator"`

	// Category is the suggestion category the operator belongs to.
	Category string `json:"category"`

	// Total is the number of mutants produced by this operator.
	Total int `json:"total"`

	// Survived is how many of them the test suite missed.
	Survived int `json:"survived"`
}

// NewRunSummary creates a RunSummary from a RunReport.
func NewRunSummary(report *RunReport) *RunSummary {
	risk := report.Risk()
	info := risk.Info()

	s := &RunSummary{
		RunID:          report.RunID,
		Project:        report.Project,
		Approach:       report.Approach,
		Label:          report.Label,
		Tool:           report.Tool,
		Timestamp:      report.Timestamp,
		Total:          report.Total(),
		Detected:       report.Detected(),
		Survived:       report.Survived(),
		DetectionRate:  report.DetectionRate(),
		SurvivalRate:   report.SurvivalRate(),
		Risk:           risk,
		RiskText:       risk.String(),
		Assessment:     info.Assessment,
		Recommendation: info.Recommendation,
		Survivors:      report.SurvivingMutants(),
		Errors:         report.Errors,
	}

	s.collectOutcomes(report)
	s.collectOperators(report)

	return s
}

// collectOutcomes fills the per-outcome count map with string keys so the
// summary serializes without leaking the enum's numeric values.
func (s *RunSummary) collectOutcomes(report *RunReport) {
	counts := report.OutcomeCounts()
	if len(counts) == 0 {
		return
	}
	s.Outcomes = make(map[string]int, len(counts))
	for outcome, n := range counts {
		s.Outcomes[outcome.String()] = n
	}
}

// collectOperators builds the per-operator rows, ordered by total count
// descending, then name, for stable report output.
func (s *RunSummary) collectOperators(report *RunReport) {
	totals := report.OperatorCounts()
	if len(totals) == 0 {
		return
	}

	survived := make(map[string]int, len(totals))
	for _, m := range report.Mutants {
		if !m.Outcome.IsDetected() {
			survived[m.Operator]++
		}
	}

	for operator, total := range totals {
		s.Operators = append(s.Operators, OperatorRow{
			Operator: operator,
			Category: GetCategory(operator),
			Total:    total,
			Survived: survived[operator],
		})
	}

	sort.Slice(s.Operators, func(i, j int) bool {
		if s.Operators[i].Total != s.Operators[j].Total {
			return s.Operators[i].Total > s.Operators[j].Total
		}
		return s.Operators[i].Operator < s.Operators[j].Operator
	})
}

// HasSurvivors returns true if any mutant slipped through the test suite.
func (s *RunSummary) HasSurvivors() bool {
	return s.Survived > 0
}
