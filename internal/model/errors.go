package model

import "errors"

// Validation errors for mutant records loaded from external tool output.
// Callers can use errors.Is() to distinguish malformed records from I/O
// failures when ingesting a results file.
var (
	// ErrMutantMissingFile is returned when a mutant record has no source file.
	// A mutant without a location cannot be reported or diffed across rounds.
	ErrMutantMissingFile = errors.New("mutant record has no source file")

	// ErrMutantNegativeLine is returned when a mutant record carries a
	// negative line number. Zero is allowed and means "location unknown".
	ErrMutantNegativeLine = errors.New("mutant record has negative line number")
)
