package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoTarget is returned when no target project directory is specified.
	// This error occurs when no positional argument provides a target.
	ErrNoTarget = errors.New("no target specified: provide a project directory")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would abort every tool run immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	// A concurrency of zero would mean no analyses run, effectively
	// stopping the process.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidMaxFiles is returned when the max file count is negative.
	// A negative count is invalid; use 0 to use the default limit.
	ErrInvalidMaxFiles = errors.New("invalid max files: must be non-negative")

	// ErrConflictingFormats is returned when both --json and --markdown
	// are specified. Only one stdout format can be used at a time.
	ErrConflictingFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidReportsDir is returned when a file report is requested but
	// the reports directory is empty.
	ErrInvalidReportsDir = errors.New("invalid reports directory: must be set when writing report files")
)
