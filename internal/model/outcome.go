package model

import "strings"

// Outcome represents the result of exercising a single mutant against the
// test suite, as reported by the external mutation-testing tool.
//
// Design decision: We keep the tool-level outcome granularity (timeout,
// untested, skipped, suspicious) rather than collapsing to a boolean at parse
// time because:
//  1. Reports can show the full outcome distribution
//  2. The detected/survived split stays a pure function of the outcome
//  3. Tools disagree on vocabulary; one enum normalizes them all
type Outcome int

const (
	// OutcomeSurvived indicates the test suite did not catch the mutant.
	// A surviving mutant points at a gap in the test suite.
	OutcomeSurvived Outcome = iota

	// OutcomeKilled indicates at least one test failed against the mutant.
	OutcomeKilled

	// OutcomeTimeout indicates the test suite timed out against the mutant,
	// usually because the mutation created an infinite loop. The suite
	// reacted to the change, so timeouts count as detections.
	OutcomeTimeout

	// OutcomeUntested indicates the mutant was generated but never exercised,
	// typically because the run was interrupted.
	OutcomeUntested

	// OutcomeSkipped indicates the mutant was excluded from the run.
	OutcomeSkipped

	// OutcomeSuspicious indicates the tool could not classify the result
	// reliably (flaky tests, inconsistent timing).
	OutcomeSuspicious
)

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSurvived:
		return "SURVIVED"
	case OutcomeKilled:
		return "KILLED"
	case OutcomeTimeout:
		return "TIMEOUT"
	case OutcomeUntested:
		return "UNTESTED"
	case OutcomeSkipped:
		return "SKIPPED"
	case OutcomeSuspicious:
		return "SUSPICIOUS"
	default:
		return "UNKNOWN"
	}
}

// IsDetected reports whether the test suite reacted to the mutant.
// Killed and timed-out mutants count as detected; everything else counts as
// survived, so every mutant contributes to exactly one of the two buckets
// and detected + survived always equals the total.
func (o Outcome) IsDetected() bool {
	return o == OutcomeKilled || o == OutcomeTimeout
}

// outcomeAliases maps the status strings emitted by supported external tools
// to the normalized outcome. Keys are compared case-insensitively.
var outcomeAliases = map[string]Outcome{
	// mutmut vocabulary
	"killed":       OutcomeKilled,
	"ok_killed":    OutcomeKilled,
	"bad_timeout":  OutcomeTimeout,
	"timeout":      OutcomeTimeout,
	"survived":     OutcomeSurvived,
	"bad_survived": OutcomeSurvived,
	"untested":     OutcomeUntested,
	"skipped":      OutcomeSkipped,
	"suspicious":   OutcomeSuspicious,

	// gremlins vocabulary
	"lived":       OutcomeSurvived,
	"timed_out":   OutcomeTimeout,
	"timed out":   OutcomeTimeout,
	"not_covered": OutcomeUntested,
	"not covered": OutcomeUntested,
	"not_viable":  OutcomeSkipped,
	"not viable":  OutcomeSkipped,
}

// ParseOutcome normalizes a tool-reported status string to an Outcome.
// Unknown statuses are treated as survived: a mutant we cannot prove was
// caught must be assumed to have slipped through.
func ParseOutcome(status string) Outcome {
	if o, ok := outcomeAliases[strings.ToLower(strings.TrimSpace(status))]; ok {
		return o
	}
	return OutcomeSurvived
}
