package mutation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"mutbench/internal/model"
)

// mutmut invocation and output defaults.
const (
	// mutmutResultsFile is where mutmut leaves its per-mutant results,
	// relative to the project root.
	mutmutResultsFile = ".mutmut-cache/results.json"

	// mutmutDefaultRunner is the test runner passed to mutmut when the
	// configuration does not override it. --maxfail keeps a broken suite
	// from burning the whole timeout on every mutant.
	mutmutDefaultRunner = "python -m pytest --tb=no --maxfail=5 -q"
)

// MutmutAdapter drives mutmut, the Python mutation-testing tool.
//
// mutmut mutates the files under --paths-to-mutate, runs the configured
// test runner once per mutant, and records per-mutant results in its cache
// directory. The adapter reads that cache; it never inspects the mutated
// code itself.
type MutmutAdapter struct{}

// Name returns the adapter name.
func (a *MutmutAdapter) Name() string {
	return "mutmut"
}

// Detect reports whether the project looks like a Python project mutmut
// can handle.
func (a *MutmutAdapter) Detect(projectRoot string) bool {
	for _, marker := range []string{"pyproject.toml", "pytest.ini", "setup.py"} {
		if _, err := os.Stat(filepath.Join(projectRoot, marker)); err == nil {
			return true
		}
	}
	return false
}

// Command builds the mutmut command line for one run.
func (a *MutmutAdapter) Command(opts ToolOptions) []string {
	sourceDir := opts.SourceDir
	if sourceDir == "" {
		sourceDir = "source/"
	}
	testsDir := opts.TestsDir
	if testsDir == "" {
		testsDir = "tests/"
	}
	runner := opts.TestRunner
	if runner == "" {
		runner = mutmutDefaultRunner
	}

	argv := []string{
		"mutmut", "run",
		"--paths-to-mutate", sourceDir,
		"--tests-dir", testsDir,
		"--runner", runner,
	}
	return append(argv, opts.ExtraArgs...)
}

// ResultsPath returns the location of mutmut's results file.
func (a *MutmutAdapter) ResultsPath(opts ToolOptions) string {
	if opts.ResultsPath != "" {
		return opts.ResultsPath
	}
	return mutmutResultsFile
}

// mutmutRecord is one entry of mutmut's results.json, which maps mutant IDs
// to result objects.
type mutmutRecord struct {
	Status      string `json:"status"`
	Filename    string `json:"filename"`
	LineNumber  int    `json:"line_number"`
	Operator    string `json:"operator"`
	Description string `json:"description"`
}

// Parse decodes mutmut's results.json into normalized mutant records.
// The file is a JSON object keyed by mutant ID; map iteration order is
// random, so records are sorted by ID before being returned.
func (a *MutmutAdapter) Parse(data []byte) ([]model.Mutant, error) {
	var records map[string]mutmutRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResults, err)
	}

	mutants := make([]model.Mutant, 0, len(records))
	for id, rec := range records {
		mutants = append(mutants, model.NewMutant(
			id,
			rec.Operator,
			rec.Filename,
			rec.LineNumber,
			rec.Description,
			model.ParseOutcome(rec.Status),
		))
	}

	sort.Slice(mutants, func(i, j int) bool {
		return mutants[i].ID < mutants[j].ID
	})
	return mutants, nil
}
