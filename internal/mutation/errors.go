package mutation

import "errors"

// Results-ingestion errors.
//
// Design decision: We define specific error values rather than wrapping all
// errors generically. This allows callers to distinguish a missing tool
// selection from a malformed results file and react appropriately (list the
// known tools vs. show the offending record).
var (
	// ErrUnknownTool is returned when --tool names an adapter that does
	// not exist.
	ErrUnknownTool = errors.New("unknown mutation tool")

	// ErrNoAdapterDetected is returned when no adapter recognizes the
	// target project and none was selected explicitly.
	ErrNoAdapterDetected = errors.New("no mutation tool detected for project")

	// ErrNoResultsFile is returned when the tool ran but left no results
	// file at the expected location.
	ErrNoResultsFile = errors.New("results file not found")

	// ErrMalformedResults is returned when the results file cannot be
	// decoded into mutant records.
	ErrMalformedResults = errors.New("malformed results file")
)
