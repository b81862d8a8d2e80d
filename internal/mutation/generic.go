package mutation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"mutbench/internal/model"
)

// genericResultsFile is the default location of the interchange results
// file, relative to the project root.
const genericResultsFile = "mutation_results.json"

// GenericAdapter ingests results from any tool that can emit the
// interchange JSON format. It accepts two shapes:
//
//   - an object keyed by mutant ID, each value holding
//     {status, filename|file, line_number|line, operator, description}
//   - an array of the same record objects carrying their own "id" field
//
// The generic adapter never auto-detects a project and has no command of
// its own: it exists for --tool generic with a pre-produced --results file,
// which is the documented path for tools without a dedicated adapter.
type GenericAdapter struct{}

// Name returns the adapter name.
func (a *GenericAdapter) Name() string {
	return "generic"
}

// Detect always returns false; generic ingestion must be selected
// explicitly.
func (a *GenericAdapter) Detect(_ string) bool {
	return false
}

// Command returns nil: the generic adapter does not run a tool.
// The pipeline skips the execution phase for adapters without a command.
func (a *GenericAdapter) Command(_ ToolOptions) []string {
	return nil
}

// ResultsPath returns the location of the interchange results file.
func (a *GenericAdapter) ResultsPath(opts ToolOptions) string {
	if opts.ResultsPath != "" {
		return opts.ResultsPath
	}
	return genericResultsFile
}

// genericRecord is one interchange mutant record. Field aliases cover the
// vocabularies of the known tools so either spelling decodes.
type genericRecord struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Filename    string `json:"filename"`
	File        string `json:"file"`
	LineNumber  int    `json:"line_number"`
	Line        int    `json:"line"`
	Operator    string `json:"operator"`
	Description string `json:"description"`
}

// toMutant normalizes a decoded record, preferring the long-form field
// names when both are present.
func (r genericRecord) toMutant(fallbackID string) model.Mutant {
	id := r.ID
	if id == "" {
		id = fallbackID
	}
	file := r.Filename
	if file == "" {
		file = r.File
	}
	line := r.LineNumber
	if line == 0 {
		line = r.Line
	}
	return model.NewMutant(id, r.Operator, file, line, r.Description, model.ParseOutcome(r.Status))
}

// Parse decodes either interchange shape into normalized mutant records,
// sorted by ID for stable output.
func (a *GenericAdapter) Parse(data []byte) ([]model.Mutant, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedResults)
	}

	var mutants []model.Mutant
	switch trimmed[0] {
	case '[':
		var records []genericRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedResults, err)
		}
		for i, rec := range records {
			mutants = append(mutants, rec.toMutant(fmt.Sprintf("%d", i+1)))
		}
	case '{':
		var records map[string]genericRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedResults, err)
		}
		for id, rec := range records {
			mutants = append(mutants, rec.toMutant(id))
		}
	default:
		return nil, fmt.Errorf("%w: expected JSON object or array", ErrMalformedResults)
	}

	sort.Slice(mutants, func(i, j int) bool {
		return mutants[i].ID < mutants[j].ID
	})
	return mutants, nil
}
