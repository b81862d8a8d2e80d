// Package mcp exposes mutation rounds, pattern analysis, comparison, and
// run history as Model Context Protocol tools.
//
// The server is transport-agnostic; the serve command connects it over
// stdio. Tool handlers render the same text the CLI prints, so agents and
// humans read identical summaries.
package mcp
