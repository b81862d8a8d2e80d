// Package mutation adapts external mutation-testing tools to one common
// result shape.
//
// Mutation execution is delegated entirely to the external tool; this
// package only knows how to invoke each supported tool and how to read the
// results file it leaves behind. Adapters normalize the per-tool status
// vocabulary into model.Outcome so every downstream consumer (reports,
// comparison, history) works from one set of records.
//
// This package provides:
//   - Adapter: the per-tool interface (command line, results location,
//     results parsing)
//   - Adapters for mutmut and gremlins, plus a generic adapter for any
//     tool that can emit the documented interchange JSON
//   - Ingest helpers with per-record validation and stable ordering
//   - Embedded sample fixtures for exercising the full reporting path
//     without an external tool installed
package mutation
