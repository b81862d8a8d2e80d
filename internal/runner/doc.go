// Package runner executes the external mutation-testing tool as a bounded
// subprocess.
//
// The runner confines execution to the target workspace, enforces a
// timeout through context cancellation, and caps captured output so a
// runaway tool cannot exhaust memory. Each invocation gets a unique run ID
// that ties the process transcript to the stored report.
//
// Design decision: Mutation runs are delegated to an external tool rather
// than implemented here. The runner therefore treats the tool as an opaque
// command: it only guarantees safe execution and faithful capture of what
// the tool printed and how it exited.
package runner
