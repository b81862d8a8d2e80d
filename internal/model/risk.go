package model

// Risk represents the quality assessment of a round based on how many
// mutants survived the test suite.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Risk int

const (
	// RiskLow indicates a healthy test suite. Most mutants were caught and
	// no urgent action is needed beyond reviewing the few survivors.
	RiskLow Risk = iota

	// RiskModerate indicates notable gaps. More than 30% of mutants
	// survived; the surviving locations deserve targeted tests.
	RiskModerate

	// RiskHigh indicates serious gaps. More than half of the mutants
	// survived, meaning the test suite misses most behavioral changes.
	RiskHigh
)

// Survival-rate thresholds separating the risk levels.
// A round with survival above highRiskThreshold is high risk, above
// moderateRiskThreshold moderate, and low otherwise.
const (
	highRiskThreshold     = 0.50
	moderateRiskThreshold = 0.30
)

// String returns a human-readable representation of the risk level.
func (r Risk) String() string {
	switch r {
	case RiskLow:
		return "LOW"
	case RiskModerate:
		return "MODERATE"
	case RiskHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// RiskFromSurvivalRate classifies a survival rate (fraction in [0, 1]).
func RiskFromSurvivalRate(rate float64) Risk {
	switch {
	case rate > highRiskThreshold:
		return RiskHigh
	case rate > moderateRiskThreshold:
		return RiskModerate
	default:
		return RiskLow
	}
}

// RiskInfo contains the assessment text attached to a risk level.
type RiskInfo struct {
	Assessment     string
	Recommendation string
}

// riskInfoMapping maps risk levels to their report text.
// This centralized mapping keeps the wording identical across the PDF,
// markdown, and terminal writers.
var riskInfoMapping = map[Risk]RiskInfo{
	RiskHigh: {
		Assessment:     "High survival rate. The test suite misses most behavioral changes to the code under test.",
		Recommendation: "Add targeted tests for every surviving mutant before trusting the suite with refactoring work.",
	},
	RiskModerate: {
		Assessment:     "Moderate survival rate. The test suite catches common regressions but leaves notable gaps.",
		Recommendation: "Review the surviving mutants and cover the affected branches and boundary values.",
	},
	RiskLow: {
		Assessment:     "Low survival rate. The test suite reacts to most mutations of the code under test.",
		Recommendation: "Keep mutation runs in the loop to hold the detection rate as the code grows.",
	},
}

// Info returns the assessment text for the risk level.
// Unknown levels fall back to the low-risk entry.
func (r Risk) Info() RiskInfo {
	if info, ok := riskInfoMapping[r]; ok {
		return info
	}
	return riskInfoMapping[RiskLow]
}
