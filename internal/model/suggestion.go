package model

import (
	"sort"
	"strconv"
	"time"
)

// Suggestion is one mutation point proposed by the pattern-based suggester.
// It names a location and a concrete change worth testing against, without
// ever executing the change.
type Suggestion struct {
	// File is the source file, relative to the analyzed root.
	File string `json:"file"`

	// Line is the 1-based line of the suggested mutation point.
	Line int `json:"line"`

	// Category classifies the suggestion (see the Category constants).
	Category string `json:"category"`

	// Operator is the mutation operator a tool would apply here.
	Operator string `json:"operator"`

	// Snippet is the matched source fragment, trimmed for display.
	Snippet string `json:"snippet,omitempty"`

	// Description explains the proposed change,
	// e.g. "Replace + with - in expression".
	Description string `json:"description"`
}

// Key returns a location-based identity matching Mutant.Key, so suggested
// mutation points can be joined against executed mutants.
func (s Suggestion) Key() string {
	m := Mutant{File: s.File, Line: s.Line, Operator: s.Operator}
	return m.Key()
}

// TestSkeleton is a generated test stub targeting one suggestion category
// in one file.
type TestSkeleton struct {
	// Name is the test function name, e.g. "TestCalculatorArithmetic".
	Name string `json:"name"`

	// Category is the suggestion category the stub targets.
	Category string `json:"category"`

	// File is the source file the stub was generated for.
	File string `json:"file"`

	// Language selects the stub dialect ("go", "python").
	Language string `json:"language"`

	// Source is the stub text, ready to paste into a test file.
	Source string `json:"source"`
}

// SuggestionSummary aggregates a suggestion report.
type SuggestionSummary struct {
	// TotalSuggestions is the number of proposed mutation points.
	TotalSuggestions int `json:"total_suggestions"`

	// TotalTests is the number of generated test skeletons.
	TotalTests int `json:"total_tests"`

	// ByCategory counts suggestions per category.
	ByCategory map[string]int `json:"by_category,omitempty"`
}

// SuggestionReport is the output of one suggester pass over a source tree.
// This is the small JSON interchange file the comparison step reads as the
// second result source.
type SuggestionReport struct {
	// RunID uniquely identifies this pass (UUID).
	RunID string `json:"run_id"`

	// Project is the analyzed root directory.
	Project string `json:"project"`

	// Timestamp is when the pass was executed.
	Timestamp time.Time `json:"timestamp"`

	// Analyzer records the label of the analysis that produced the
	// suggestions. Actual model inference is delegated; this field only
	// names what ran.
	Analyzer string `json:"analyzer"`

	// FilesAnalyzed lists the analyzed files, relative to Project.
	FilesAnalyzed []string `json:"files_analyzed"`

	// Suggestions contains every proposed mutation point.
	Suggestions []Suggestion `json:"suggestions"`

	// GeneratedTests contains the test skeletons derived from suggestions.
	GeneratedTests []TestSkeleton `json:"generated_tests,omitempty"`

	// Summary aggregates the counts above.
	Summary SuggestionSummary `json:"summary"`

	// Errors carries non-fatal per-file analysis problems.
	Errors []string `json:"errors,omitempty"`
}

// NewSuggestionReport creates an empty suggestion report.
func NewSuggestionReport(runID, project, analyzer string) *SuggestionReport {
	return &SuggestionReport{
		RunID:       runID,
		Project:     project,
		Timestamp:   time.Now().UTC(),
		Analyzer:    analyzer,
		Suggestions: make([]Suggestion, 0),
	}
}

// AddSuggestion appends a suggestion, dropping duplicates at the same
// location with the same operator.
func (r *SuggestionReport) AddSuggestion(s Suggestion) {
	for _, existing := range r.Suggestions {
		if existing.Key() == s.Key() {
			return
		}
	}
	r.Suggestions = append(r.Suggestions, s)
}

// AddError records a non-fatal per-file problem.
func (r *SuggestionReport) AddError(msg string) {
	if msg == "" {
		return
	}
	r.Errors = append(r.Errors, msg)
}

// Finalize sorts suggestions for stable output and fills the summary.
// Call once after the last suggestion is added.
func (r *SuggestionReport) Finalize() {
	sort.Slice(r.Suggestions, func(i, j int) bool {
		if r.Suggestions[i].File != r.Suggestions[j].File {
			return r.Suggestions[i].File < r.Suggestions[j].File
		}
		if r.Suggestions[i].Line != r.Suggestions[j].Line {
			return r.Suggestions[i].Line < r.Suggestions[j].Line
		}
		return r.Suggestions[i].Category < r.Suggestions[j].Category
	})
	sort.Strings(r.FilesAnalyzed)

	r.Summary = SuggestionSummary{
		TotalSuggestions: len(r.Suggestions),
		TotalTests:       len(r.GeneratedTests),
	}
	if len(r.Suggestions) > 0 {
		r.Summary.ByCategory = make(map[string]int)
		for _, s := range r.Suggestions {
			r.Summary.ByCategory[s.Category]++
		}
	}
}

// ToRunReport converts the suggestion report into the common round shape so
// the comparison aggregator reads both result sources through one type.
// Each suggestion becomes a proposed mutant with outcome survived: a
// suggested mutation point is by definition not yet covered by a test
// written for it.
func (r *SuggestionReport) ToRunReport() *RunReport {
	run := &RunReport{
		RunID:     r.RunID,
		Project:   r.Project,
		Approach:  ApproachPattern,
		Tool:      r.Analyzer,
		Timestamp: r.Timestamp,
		Mutants:   make([]Mutant, 0, len(r.Suggestions)),
		Errors:    r.Errors,
	}
	for i, s := range r.Suggestions {
		run.AddMutant(NewMutant(
			suggestionID(i),
			s.Operator,
			s.File,
			s.Line,
			s.Description,
			OutcomeSurvived,
		))
	}
	run.SourceFiles = len(r.FilesAnalyzed)
	return run
}

// suggestionID derives a stable synthetic mutant ID for the i-th suggestion.
func suggestionID(i int) string {
	return "s" + strconv.Itoa(i+1)
}
