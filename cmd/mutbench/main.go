// Package main provides the entry point for the mutbench CLI.
//
// mutbench runs comparative mutation testing studies: it executes external
// mutation tools against a project, suggests mutation points through static
// pattern analysis, and compares the detection rates of rounds over time.
//
// Usage:
//
//	mutbench run <target-dir>
//	mutbench suggest <source-dir>
//	mutbench compare --project <target-dir>
//
// See --help for all available options.
package main

// main is the entry point for mutbench.
func main() {
	Execute()
}
