package model

import (
	"fmt"
	"strings"
)

// Mutant represents a single syntactic mutation applied to the code under
// test, together with the outcome of exercising it.
type Mutant struct {
	// ID is the tool-assigned mutant identifier. IDs are only unique within
	// one run of one tool; cross-run identity uses Key instead.
	ID string `json:"id"`

	// Operator is the mutation operator that produced this mutant,
	// e.g. "number_replacement" or "operator_replacement".
	Operator string `json:"operator"`

	// File is the path of the mutated source file, relative to the
	// target project root.
	File string `json:"file"`

	// Line is the 1-based line number of the mutation. Zero means the tool
	// did not report a location.
	Line int `json:"line"`

	// Description explains the concrete change,
	// e.g. "Replaced 2 with 3 in return statement".
	Description string `json:"description,omitempty"`

	// Outcome is the normalized test result for this mutant.
	Outcome Outcome `json:"outcome"`

	// OutcomeText is the human-readable outcome for serialized reports.
	OutcomeText string `json:"outcome_text"`
}

// NewMutant creates a mutant with the outcome text kept in sync.
func NewMutant(id, operator, file string, line int, description string, outcome Outcome) Mutant {
	return Mutant{
		ID:          id,
		Operator:    operator,
		File:        file,
		Line:        line,
		Description: description,
		Outcome:     outcome,
		OutcomeText: outcome.String(),
	}
}

// Key returns a location-based identity usable across rounds and tools.
// Two runs of the same tool over the same tree produce the same keys, which
// is what round-over-round diffing needs; tool-assigned IDs do not survive
// a re-run.
func (m Mutant) Key() string {
	return fmt.Sprintf("%s:%d:%s", m.File, m.Line, m.Operator)
}

// Validate checks that the mutant carries enough information to be reported.
func (m Mutant) Validate() error {
	if strings.TrimSpace(m.File) == "" {
		return fmt.Errorf("mutant %q: %w", m.ID, ErrMutantMissingFile)
	}
	if m.Line < 0 {
		return fmt.Errorf("mutant %q: %w", m.ID, ErrMutantNegativeLine)
	}
	return nil
}
