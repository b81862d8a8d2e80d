package mutation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"mutbench/internal/model"
)

// gremlinsResultsFile is where the adapter asks gremlins to write its JSON
// report, relative to the project root.
const gremlinsResultsFile = "gremlins_results.json"

// GremlinsAdapter drives gremlins, the Go mutation-testing tool.
//
// gremlins discovers mutation points in Go source, runs the package tests
// against each viable mutant, and can emit a JSON report with per-mutation
// statuses (KILLED, LIVED, TIMED OUT, NOT COVERED, NOT VIABLE).
type GremlinsAdapter struct{}

// Name returns the adapter name.
func (a *GremlinsAdapter) Name() string {
	return "gremlins"
}

// Detect reports whether the project is a Go module.
func (a *GremlinsAdapter) Detect(projectRoot string) bool {
	_, err := os.Stat(filepath.Join(projectRoot, "go.mod"))
	return err == nil
}

// Command builds the gremlins command line for one run.
// gremlins finds its own mutation targets; SourceDir narrows the run to a
// subtree when set.
func (a *GremlinsAdapter) Command(opts ToolOptions) []string {
	argv := []string{"gremlins", "unleash", "--output", a.ResultsPath(opts)}
	if opts.SourceDir != "" {
		argv = append(argv, opts.SourceDir)
	}
	return append(argv, opts.ExtraArgs...)
}

// ResultsPath returns the location of the gremlins JSON report.
func (a *GremlinsAdapter) ResultsPath(opts ToolOptions) string {
	if opts.ResultsPath != "" {
		return opts.ResultsPath
	}
	return gremlinsResultsFile
}

// gremlinsReport mirrors the shape of the gremlins JSON output: a files
// array, each with its mutation list.
type gremlinsReport struct {
	Files []struct {
		FileName  string `json:"file_name"`
		Mutations []struct {
			Line   int    `json:"line"`
			Column int    `json:"column"`
			Type   string `json:"type"`
			Status string `json:"status"`
		} `json:"mutations"`
	} `json:"files"`
}

// Parse decodes a gremlins JSON report into normalized mutant records.
// gremlins does not assign mutant IDs, so the adapter numbers records in
// file order, which is stable across parses of the same report.
func (a *GremlinsAdapter) Parse(data []byte) ([]model.Mutant, error) {
	var report gremlinsReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResults, err)
	}

	var mutants []model.Mutant
	for _, file := range report.Files {
		for _, mut := range file.Mutations {
			id := strconv.Itoa(len(mutants) + 1)
			description := fmt.Sprintf("%s at %s:%d:%d", mut.Type, file.FileName, mut.Line, mut.Column)
			mutants = append(mutants, model.NewMutant(
				id,
				mut.Type,
				file.FileName,
				mut.Line,
				description,
				model.ParseOutcome(mut.Status),
			))
		}
	}
	return mutants, nil
}
