package analysis

import "mutbench/internal/model"

// Follow-up guidance rendered while mutants keep surviving across rounds.
var survivorRecommendations = []string{
	"Write a targeted test per still-surviving mutant; each names its file and line",
	"Add property-based tests for the arithmetic and boundary logic that keeps slipping through",
	"Fuzz the parsing and conversion paths to cover inputs the suite never constructs",
	"Run static analysis on the surviving locations; some survivors indicate dead code",
}

// Improvement is the result of comparing two rounds of the same study,
// extending the metric comparison with per-mutant identity diffing.
// Mutants are matched across rounds by location key (file:line:operator),
// because tool-assigned IDs do not survive a re-run.
type Improvement struct {
	Comparison

	// NewlyDetected lists mutants that survived the first round and were
	// caught in the second: the payoff of the tests added in between.
	NewlyDetected []model.Mutant `json:"newly_detected,omitempty"`

	// StillSurviving lists mutants that survived both rounds.
	StillSurviving []model.Mutant `json:"still_surviving,omitempty"`

	// Introduced lists mutants only present in the second round,
	// typically from new code or a widened tool configuration.
	Introduced []model.Mutant `json:"introduced,omitempty"`

	// Resolved lists mutants only present in the first round.
	Resolved []model.Mutant `json:"resolved,omitempty"`

	// DetectionChange is the relative change in detection rate,
	// e.g. 1.62 for a rate that went from 0.333 to 0.875.
	DetectionChange float64 `json:"detection_change"`

	// Recommendations is follow-up guidance, present only while mutants
	// keep surviving.
	Recommendations []string `json:"recommendations,omitempty"`
}

// CompareRounds diffs two rounds of the same project. The first round is
// the baseline.
func CompareRounds(first, second *model.RunReport) *Improvement {
	imp := &Improvement{
		Comparison: *CompareRuns(first, second),
	}

	firstByKey := mutantsByKey(first)
	secondByKey := mutantsByKey(second)

	for _, m := range second.Mutants {
		prev, existed := firstByKey[m.Key()]
		switch {
		case !existed:
			imp.Introduced = append(imp.Introduced, m)
		case m.Outcome.IsDetected() && !prev.Outcome.IsDetected():
			imp.NewlyDetected = append(imp.NewlyDetected, m)
		case !m.Outcome.IsDetected() && !prev.Outcome.IsDetected():
			imp.StillSurviving = append(imp.StillSurviving, m)
		}
	}

	for _, m := range first.Mutants {
		if _, exists := secondByKey[m.Key()]; !exists {
			imp.Resolved = append(imp.Resolved, m)
		}
	}

	imp.DetectionChange = PercentChange(imp.Baseline.DetectionRate, imp.Candidate.DetectionRate)

	if len(imp.StillSurviving) > 0 {
		imp.Recommendations = survivorRecommendations
	}

	return imp
}

// mutantsByKey indexes a round's mutants by location key.
func mutantsByKey(r *model.RunReport) map[string]model.Mutant {
	byKey := make(map[string]model.Mutant, len(r.Mutants))
	for _, m := range r.Mutants {
		byKey[m.Key()] = m
	}
	return byKey
}
