package mutation

import (
	"fmt"

	"mutbench/internal/model"
)

// ToolOptions carries the per-run settings an adapter needs to build its
// command line and locate its results file.
type ToolOptions struct {
	// SourceDir is the directory containing the code to mutate,
	// relative to the target project root.
	SourceDir string

	// TestsDir is the directory containing the test suite,
	// relative to the target project root.
	TestsDir string

	// TestRunner is the command line the tool should use to run the test
	// suite against each mutant, for tools that take one.
	TestRunner string

	// ResultsPath overrides the tool's default results file location.
	ResultsPath string

	// ExtraArgs are appended verbatim to the tool command line.
	ExtraArgs []string
}

// Adapter defines the interface for tool-specific adapters.
// Each supported mutation-testing tool provides this interface so the run
// pipeline can treat all tools uniformly.
//
// Design decision: We use an interface rather than a concrete type because:
//  1. Tools differ completely in invocation and output format
//  2. Allows for easy mocking in tests
//  3. Enables adapter plugins in the future
//  4. The pipeline can treat all tools uniformly
type Adapter interface {
	// Name returns the adapter name (e.g., "mutmut", "gremlins").
	// This is the value the --tool flag selects by.
	Name() string

	// Detect reports whether the target project looks like one this tool
	// can mutate. Used to pick a default adapter when no --tool is given.
	Detect(projectRoot string) bool

	// Command builds the tool's command line for one run.
	Command(opts ToolOptions) []string

	// ResultsPath returns the path of the results file the tool writes,
	// relative to the project root, honoring any override in opts.
	ResultsPath(opts ToolOptions) string

	// Parse decodes the tool's results file into normalized mutant records.
	Parse(data []byte) ([]model.Mutant, error)
}

// adapters lists the registered adapters in detection precedence order.
// The generic adapter comes last: it never auto-detects and only serves
// explicit selection or results-file ingestion.
var adapters = []Adapter{
	&MutmutAdapter{},
	&GremlinsAdapter{},
	&GenericAdapter{},
}

// Adapters returns the registered adapter names in precedence order.
func Adapters() []string {
	names := make([]string, 0, len(adapters))
	for _, a := range adapters {
		names = append(names, a.Name())
	}
	return names
}

// SelectAdapter picks the adapter for a run. An explicit name wins; with no
// name, the first adapter whose Detect matches the project root is chosen.
func SelectAdapter(projectRoot, explicit string) (Adapter, error) {
	if explicit != "" {
		for _, a := range adapters {
			if a.Name() == explicit {
				return a, nil
			}
		}
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownTool, explicit, Adapters())
	}

	for _, a := range adapters {
		if a.Detect(projectRoot) {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoAdapterDetected, projectRoot)
}
