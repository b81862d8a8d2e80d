package model

import (
	"sort"
	"time"
)

// Approach identifies which mutation-analysis strategy produced a run.
type Approach string

const (
	// ApproachTraditional marks runs driven by an external mutation-testing
	// tool that actually executes mutants against the test suite.
	ApproachTraditional Approach = "traditional"

	// ApproachPattern marks runs produced by the pattern-based suggester,
	// which proposes mutation points without executing them.
	ApproachPattern Approach = "pattern"
)

// RunReport is the result of one mutation-testing round.
// It holds the flat result records loaded from the external tool's results
// file, plus enough metadata to store, compare, and re-render the round.
//
// Design decision: Detected and survived counts are derived from the mutant
// list on demand rather than stored, because:
//  1. The counts can never drift from the records they summarize
//  2. detected + survived = total holds by construction
//  3. Serialized reports stay small and re-derivable
type RunReport struct {
	// RunID uniquely identifies this round (UUID).
	RunID string `json:"run_id"`

	// Project is the analyzed project root, as given on the command line.
	Project string `json:"project"`

	// Approach is the strategy that produced this run.
	Approach Approach `json:"approach"`

	// Label names the round within a study, e.g. "round-1".
	Label string `json:"label,omitempty"`

	// Tool is the external tool (or suggester) that produced the results.
	Tool string `json:"tool,omitempty"`

	// Timestamp is when the round was executed.
	Timestamp time.Time `json:"timestamp"`

	// Mutants contains every mutant record of the round.
	Mutants []Mutant `json:"mutants"`

	// RawOutputPath points at the saved tool transcript, if any.
	RawOutputPath string `json:"raw_output_path,omitempty"`

	// SourceFiles is the number of source files in scope for the round.
	SourceFiles int `json:"source_files,omitempty"`

	// Summary contains the presentation view, generated on demand.
	Summary *RunSummary `json:"summary,omitempty"`

	// Errors collects non-fatal problems encountered while producing the
	// round (unreadable files, malformed records). The round is still
	// reportable when this is non-empty.
	Errors []string `json:"errors,omitempty"`
}

// NewRunReport creates an empty report for one round over the given project.
func NewRunReport(runID, project string, approach Approach) *RunReport {
	return &RunReport{
		RunID:     runID,
		Project:   project,
		Approach:  approach,
		Timestamp: time.Now().UTC(),
		Mutants:   make([]Mutant, 0),
	}
}

// AddMutant appends a mutant record, dropping exact duplicates.
// Two records are duplicates when both the tool ID and the location key
// match; distinct mutants at the same location keep separate IDs.
func (r *RunReport) AddMutant(m Mutant) {
	for _, existing := range r.Mutants {
		if existing.ID == m.ID && existing.Key() == m.Key() {
			return
		}
	}
	if m.OutcomeText == "" {
		m.OutcomeText = m.Outcome.String()
	}
	r.Mutants = append(r.Mutants, m)
}

// AddError records a non-fatal problem on the report.
func (r *RunReport) AddError(msg string) {
	if msg == "" {
		return
	}
	r.Errors = append(r.Errors, msg)
}

// Total returns the number of mutant records in the round.
func (r *RunReport) Total() int {
	return len(r.Mutants)
}

// Detected returns the number of mutants the test suite caught.
func (r *RunReport) Detected() int {
	n := 0
	for _, m := range r.Mutants {
		if m.Outcome.IsDetected() {
			n++
		}
	}
	return n
}

// Survived returns the number of mutants the test suite missed.
// Every mutant is either detected or survived, so this is always
// Total() - Detected().
func (r *RunReport) Survived() int {
	return r.Total() - r.Detected()
}

// DetectionRate returns detected/total as a fraction in [0, 1].
// An empty round has rate 0.
func (r *RunReport) DetectionRate() float64 {
	if r.Total() == 0 {
		return 0
	}
	return float64(r.Detected()) / float64(r.Total())
}

// SurvivalRate returns survived/total as a fraction in [0, 1].
// For any non-empty round, DetectionRate() + SurvivalRate() == 1.
func (r *RunReport) SurvivalRate() float64 {
	if r.Total() == 0 {
		return 0
	}
	return float64(r.Survived()) / float64(r.Total())
}

// SurvivingMutants returns the mutants the test suite missed, ordered by
// file, line, then ID for stable report output.
func (r *RunReport) SurvivingMutants() []Mutant {
	var out []Mutant
	for _, m := range r.Mutants {
		if !m.Outcome.IsDetected() {
			out = append(out, m)
		}
	}
	sortMutants(out)
	return out
}

// OutcomeCounts returns the number of mutants per normalized outcome.
func (r *RunReport) OutcomeCounts() map[Outcome]int {
	counts := make(map[Outcome]int)
	for _, m := range r.Mutants {
		counts[m.Outcome]++
	}
	return counts
}

// OperatorCounts returns the number of mutants per mutation operator.
func (r *RunReport) OperatorCounts() map[string]int {
	counts := make(map[string]int)
	for _, m := range r.Mutants {
		counts[m.Operator]++
	}
	return counts
}

// Risk classifies the round by its survival rate.
func (r *RunReport) Risk() Risk {
	return RiskFromSurvivalRate(r.SurvivalRate())
}

// MutantByKey returns the first mutant with the given location key.
// The boolean reports whether a match was found.
func (r *RunReport) MutantByKey(key string) (Mutant, bool) {
	for _, m := range r.Mutants {
		if m.Key() == key {
			return m, true
		}
	}
	return Mutant{}, false
}

// sortMutants orders mutants by file, line, then ID.
func sortMutants(mutants []Mutant) {
	sort.Slice(mutants, func(i, j int) bool {
		if mutants[i].File != mutants[j].File {
			return mutants[i].File < mutants[j].File
		}
		if mutants[i].Line != mutants[j].Line {
			return mutants[i].Line < mutants[j].Line
		}
		return mutants[i].ID < mutants[j].ID
	})
}
