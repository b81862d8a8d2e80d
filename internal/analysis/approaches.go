package analysis

import "mutbench/internal/model"

// LimitationRow is one row of the per-approach limitations table.
type LimitationRow struct {
	// Approach is the approach the limitation applies to.
	Approach string `json:"approach"`

	// Limitation is the limitation text.
	Limitation string `json:"limitation"`
}

// Fixed study text rendered in every approach-comparison report. The lists
// describe the approaches themselves, not a particular run, so they are
// constants rather than derived values.
var (
	traditionalAdvantages = []string{
		"Proven reliability in production use",
		"Mature tooling (mutmut, gremlins, cosmic-ray)",
		"Precise control over which mutants are exercised",
		"Straightforward CI integration",
		"Deterministic, reproducible results",
	}

	patternAdvantages = []string{
		"Analyzes code without executing the test suite",
		"Identifies semantically relevant mutation points",
		"Generates targeted test skeletons automatically",
		"Adapts to code changes at analysis time",
		"Surfaces non-obvious edge cases for review",
	}

	approachLimitations = []LimitationRow{
		{Approach: "traditional", Limitation: "Requires prior knowledge of the critical code paths"},
		{Approach: "traditional", Limitation: "Can generate many irrelevant mutants"},
		{Approach: "traditional", Limitation: "Analysis is limited to the tool's operator set"},
		{Approach: "pattern", Limitation: "Depends on the quality of the underlying analysis"},
		{Approach: "pattern", Limitation: "Can produce incorrect or irrelevant suggestions"},
		{Approach: "pattern", Limitation: "Suggestions are unverified until a tool executes them"},
		{Approach: "pattern", Limitation: "Less mature and less battle-tested"},
	}

	hybridRecommendations = []string{
		"Use the traditional run as the reliable baseline",
		"Complement it with suggested mutation points for edge-case discovery",
		"Combine the metrics of both approaches when judging suite quality",
		"Generate test candidates from suggestions, then validate them with a tool run",
		"Wire the hybrid loop into CI: suggest, generate, validate",
	}
)

// Conclusion text keyed by the detection-delta direction.
var approachConclusions = map[string]string{
	DirectionImproved: "The suggested mutation points cover more of the code under test than the " +
		"executed tool run. Both approaches carry value: the traditional run gives verified " +
		"detection numbers, while the suggester widens coverage. A hybrid setup that validates " +
		"the suggestions with a tool run combines the strengths of both.",
	DirectionRegressed: "The executed tool run covers more than the pattern analysis suggested. " +
		"The traditional approach remains the reliable baseline here; the suggester still adds " +
		"value as a cheap pre-filter for new code before a full mutation run.",
	DirectionUnchanged: "Both approaches land on comparable coverage for this project. The " +
		"traditional run provides verified numbers; the suggester provides the same breadth " +
		"without executing the suite. Use the suggester for fast feedback and the tool run for " +
		"the authoritative rate.",
}

// ApproachComparison is the result of comparing a traditional tool round
// against a suggester pass. The suggestion report is converted to the
// common round shape first, so the metric comparison reads both sources
// the same way.
type ApproachComparison struct {
	Comparison

	// SuggestedTests is the number of test skeletons the suggester
	// generated.
	SuggestedTests int `json:"suggested_tests"`

	// TestsDelta is the relative change in available tests that the
	// generated skeletons represent, as a fraction of the baseline's
	// detected count (the tests that demonstrably exist).
	TestsDelta float64 `json:"tests_delta"`

	// TraditionalAdvantages and PatternAdvantages are the fixed study
	// sections rendered in comparison reports.
	TraditionalAdvantages []string `json:"traditional_advantages"`
	PatternAdvantages     []string `json:"pattern_advantages"`

	// Limitations lists the known limitations per approach.
	Limitations []LimitationRow `json:"limitations"`

	// Recommendations is the fixed hybrid-strategy guidance.
	Recommendations []string `json:"recommendations"`

	// Conclusion is chosen by the sign of the detection delta.
	Conclusion string `json:"conclusion"`
}

// CompareApproaches compares a traditional tool round against a suggester
// pass over the same project. The traditional round is the baseline.
func CompareApproaches(traditional *model.RunReport, suggested *model.SuggestionReport) *ApproachComparison {
	candidate := suggested.ToRunReport()

	ac := &ApproachComparison{
		Comparison:            *CompareRuns(traditional, candidate),
		SuggestedTests:        len(suggested.GeneratedTests),
		TraditionalAdvantages: traditionalAdvantages,
		PatternAdvantages:     patternAdvantages,
		Limitations:           approachLimitations,
		Recommendations:       hybridRecommendations,
	}

	ac.TestsDelta = PercentChange(float64(traditional.Detected()), float64(traditional.Detected()+ac.SuggestedTests))
	ac.Conclusion = approachConclusions[ac.Direction]

	return ac
}
