package analysis

import (
	"math"
	"time"

	"mutbench/internal/model"
)

// Direction values for the qualitative change between two result sets.
const (
	// DirectionImproved means the candidate detects more than the baseline.
	DirectionImproved = "improved"

	// DirectionRegressed means the candidate detects less than the baseline.
	DirectionRegressed = "regressed"

	// DirectionUnchanged means the rates are equal within epsilon.
	DirectionUnchanged = "unchanged"
)

// epsilon bounds float comparisons so rates derived from the same counts
// always compare equal.
const epsilon = 1e-9

// RunMetadata is the flattened metric view of one round used on both sides
// of a comparison.
type RunMetadata struct {
	// RunID identifies the round.
	RunID string `json:"run_id"`

	// Project is the analyzed project root.
	Project string `json:"project"`

	// Approach is the strategy that produced the round.
	Approach model.Approach `json:"approach"`

	// Label names the round within a study.
	Label string `json:"label,omitempty"`

	// Tool is the external tool or analyzer that produced the results.
	Tool string `json:"tool,omitempty"`

	// Timestamp is when the round was executed.
	Timestamp time.Time `json:"timestamp"`

	// Total, Detected, and Survived are the mutant counts of the round.
	Total    int `json:"total"`
	Detected int `json:"detected"`
	Survived int `json:"survived"`

	// DetectionRate and SurvivalRate are fractions in [0, 1].
	DetectionRate float64 `json:"detection_rate"`
	SurvivalRate  float64 `json:"survival_rate"`
}

// newRunMetadata extracts the metric view from a report.
func newRunMetadata(r *model.RunReport) RunMetadata {
	return RunMetadata{
		RunID:         r.RunID,
		Project:       r.Project,
		Approach:      r.Approach,
		Label:         r.Label,
		Tool:          r.Tool,
		Timestamp:     r.Timestamp,
		Total:         r.Total(),
		Detected:      r.Detected(),
		Survived:      r.Survived(),
		DetectionRate: r.DetectionRate(),
		SurvivalRate:  r.SurvivalRate(),
	}
}

// MetricRow is one row of the rendered comparison table. Values stay
// numeric; the writers decide how to format them.
type MetricRow struct {
	// Metric is the row label, e.g. "Detection rate".
	Metric string `json:"metric"`

	// Baseline and Candidate are the two values being compared.
	Baseline  float64 `json:"baseline"`
	Candidate float64 `json:"candidate"`

	// Delta is the signed difference, candidate minus baseline except
	// where the metric improves downward (survival).
	Delta float64 `json:"delta"`

	// Percent is true when the values are fractions to render as
	// percentages.
	Percent bool `json:"percent"`
}

// Comparison is the metric-level result of comparing two rounds.
// The baseline is the reference (older round, or the traditional
// approach); the candidate is what is being evaluated against it.
type Comparison struct {
	// Baseline and Candidate carry the per-round metrics.
	Baseline  RunMetadata `json:"baseline"`
	Candidate RunMetadata `json:"candidate"`

	// DetectionDelta is candidate detection rate minus baseline detection
	// rate. Positive means the candidate catches more mutants.
	DetectionDelta float64 `json:"detection_delta"`

	// SurvivalDelta is baseline survival rate minus candidate survival
	// rate. Positive means fewer mutants slip through the candidate.
	// For non-empty rounds this equals DetectionDelta, since the two
	// rates of a round always sum to one.
	SurvivalDelta float64 `json:"survival_delta"`

	// TotalDelta is the change in mutant count.
	TotalDelta int `json:"total_delta"`

	// Direction is improved, regressed, or unchanged, from the sign of
	// DetectionDelta.
	Direction string `json:"direction"`
}

// CompareRuns reduces two rounds to their metric deltas.
func CompareRuns(baseline, candidate *model.RunReport) *Comparison {
	c := &Comparison{
		Baseline:  newRunMetadata(baseline),
		Candidate: newRunMetadata(candidate),
	}

	c.DetectionDelta = c.Candidate.DetectionRate - c.Baseline.DetectionRate
	c.SurvivalDelta = c.Baseline.SurvivalRate - c.Candidate.SurvivalRate
	c.TotalDelta = c.Candidate.Total - c.Baseline.Total
	c.Direction = direction(c.DetectionDelta)

	return c
}

// direction classifies a signed rate delta.
func direction(delta float64) string {
	switch {
	case delta > epsilon:
		return DirectionImproved
	case delta < -epsilon:
		return DirectionRegressed
	default:
		return DirectionUnchanged
	}
}

// Rows returns the comparison table in presentation order.
func (c *Comparison) Rows() []MetricRow {
	return []MetricRow{
		{
			Metric:    "Total mutants",
			Baseline:  float64(c.Baseline.Total),
			Candidate: float64(c.Candidate.Total),
			Delta:     float64(c.TotalDelta),
		},
		{
			Metric:    "Detected",
			Baseline:  float64(c.Baseline.Detected),
			Candidate: float64(c.Candidate.Detected),
			Delta:     float64(c.Candidate.Detected - c.Baseline.Detected),
		},
		{
			Metric:    "Survived",
			Baseline:  float64(c.Baseline.Survived),
			Candidate: float64(c.Candidate.Survived),
			Delta:     float64(c.Candidate.Survived - c.Baseline.Survived),
		},
		{
			Metric:    "Detection rate",
			Baseline:  c.Baseline.DetectionRate,
			Candidate: c.Candidate.DetectionRate,
			Delta:     c.DetectionDelta,
			Percent:   true,
		},
		{
			Metric:    "Survival rate",
			Baseline:  c.Baseline.SurvivalRate,
			Candidate: c.Candidate.SurvivalRate,
			Delta:     c.Candidate.SurvivalRate - c.Baseline.SurvivalRate,
			Percent:   true,
		},
	}
}

// PercentChange returns the relative change from old to new as a fraction:
// (new - old) / old. A zero old value yields 0 for equal values and ±Inf
// otherwise is avoided by reporting the sign as ±1 (a change from nothing
// is treated as a full change).
func PercentChange(oldValue, newValue float64) float64 {
	if math.Abs(oldValue) < epsilon {
		switch {
		case newValue > epsilon:
			return 1
		case newValue < -epsilon:
			return -1
		default:
			return 0
		}
	}
	return (newValue - oldValue) / oldValue
}
