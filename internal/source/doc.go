// Package source discovers and loads the source files a study round
// analyzes.
//
// This package provides:
//   - Walker: bounded traversal of a project tree with extension and
//     ignore-pattern filtering
//   - Language detection by extension and shebang
//   - Project detection from marker files (go.mod, pyproject.toml, ...)
//
// Design decision: Discovery is separated from analysis because both the
// mutation run (counting files in scope) and the suggester (reading file
// contents) need the same traversal rules, and keeping them in one place
// guarantees the two approaches look at the same tree.
package source
