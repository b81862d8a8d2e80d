// Package suggest proposes mutation points by pattern-matching source code.
//
// This is the study's stand-in for an LLM-assisted analysis: a deterministic
// set of regex-driven analyzers that flag the same classes of mutation an
// external tool would apply (arithmetic operators, comparisons, constants,
// string literals, nil returns, swallowed errors, type conversions). Model
// inference itself is delegated; the suggester only records the label of
// the analysis that ran.
//
// Each analyzer focuses on one suggestion category and lives in its own
// file. The Suggester coordinates them: it walks the source tree, runs the
// analyzers per file concurrently, aggregates a SuggestionReport, and
// generates one test skeleton per category found in a file.
package suggest
