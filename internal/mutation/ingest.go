package mutation

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"mutbench/internal/model"
)

// ReadResults loads and parses a tool's results file through the given
// adapter. The path is resolved against projectRoot when relative.
func ReadResults(adapter Adapter, projectRoot string, opts ToolOptions) ([]model.Mutant, error) {
	path := adapter.ResultsPath(opts)
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectRoot, path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from adapter defaults and user flags
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoResultsFile, path)
		}
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	return adapter.Parse(data)
}

// Ingest validates mutant records and adds the valid ones to the report in
// stable order (file, line, ID). Invalid records are recorded as non-fatal
// report errors rather than aborting the round: one malformed entry in a
// results file should not discard the rest.
func Ingest(report *model.RunReport, mutants []model.Mutant) {
	sorted := make([]model.Mutant, len(mutants))
	copy(sorted, mutants)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].File != sorted[j].File {
			return sorted[i].File < sorted[j].File
		}
		if sorted[i].Line != sorted[j].Line {
			return sorted[i].Line < sorted[j].Line
		}
		return sorted[i].ID < sorted[j].ID
	})

	for _, m := range sorted {
		if err := m.Validate(); err != nil {
			report.AddError(err.Error())
			continue
		}
		report.AddMutant(m)
	}
}
