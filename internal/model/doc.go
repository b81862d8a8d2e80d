// Package model defines the core data structures used throughout mutbench.
//
// This package contains the following main types:
//   - Mutant: A single syntactic mutation and its test outcome
//   - RunReport: The result of one mutation-testing round
//   - RunSummary: A summarized, human-readable view of a round
//   - SuggestionReport: The output of the pattern-based mutation suggester
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (mutation, suggest, analysis, report) need
// to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
