package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen based on typical mutation-testing workloads:
// external tools rerun the test suite once per mutant, so whole-round
// budgets are measured in minutes, not seconds.
const (
	// DefaultTimeout is set to 30 minutes because an external mutation
	// tool reruns the target's test suite once per mutant. Even a small
	// project with a few hundred mutants and a one-second suite needs
	// several minutes; a short timeout would abort healthy runs.
	DefaultTimeout = 30 * time.Minute

	// DefaultConcurrency of 4 concurrent analyses balances throughput with
	// resource usage. The suggester is CPU-bound on regex matching, so
	// values far above the core count buy nothing.
	DefaultConcurrency = 4

	// DefaultReportsDir is where generated report files are written,
	// relative to the working directory unless overridden.
	DefaultReportsDir = "reports"

	// DefaultMaxFiles is the maximum number of source files to analyze per
	// target. This prevents runaway analysis on large monorepos. Users can
	// override this via the --max-files CLI flag.
	DefaultMaxFiles = 1000

	// DefaultMaxOutputSize limits how much of an external tool's output is
	// captured. 10MB is sufficient for any sane tool run while preventing
	// memory exhaustion from a tool stuck in a print loop.
	DefaultMaxOutputSize = 10 * 1024 * 1024 // 10MB

	// AppName is the application name used for XDG directory paths.
	AppName = "mutbench"
)

// DefaultExtensions are the source file extensions analyzed when the user
// does not narrow the set. Python and Go cover the supported tool adapters.
var DefaultExtensions = []string{".py", ".go"}

// Config holds all configuration options for mutbench.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., RunConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// Targets is the list of project directories to run against.
	// Must contain at least one existing directory.
	Targets []string

	// Tool selects the external mutation tool adapter ("mutmut",
	// "gremlins", "generic"). Empty means detect from the project layout.
	Tool string

	// ToolArgs are extra arguments appended to the tool invocation.
	ToolArgs []string

	// ResultsPath overrides where the tool's results file is read from.
	// Empty means use the adapter's conventional location.
	ResultsPath string

	// SourceDir is the directory of source files under mutation, relative
	// to the target. Empty means the target root.
	SourceDir string

	// TestsDir is the directory holding the target's test suite, relative
	// to the target.
	TestsDir string

	// TestRunner is the command the external tool uses to run the test
	// suite. Empty means use the adapter's default.
	TestRunner string

	// Timeout is the budget for one full tool run, not per mutant.
	// Mutation rounds rerun the test suite many times, so this should be
	// generous (minutes, not seconds).
	Timeout time.Duration

	// Concurrency is the number of concurrent analyses when processing
	// multiple targets or files. Higher values increase throughput but may
	// overwhelm system resources.
	Concurrency int

	// MaxFiles is the maximum number of source files to analyze per target.
	// A value of 0 means use the default (DefaultMaxFiles).
	MaxFiles int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// Label names the round within a study (e.g. "round-1").
	// Used when comparing rounds of the same project.
	Label string

	// Sample selects a bundled sample round instead of running the
	// external tool. Used for demos and offline study of the report
	// pipeline. Empty means run the real tool.
	Sample string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .mutbench in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// ProjectConfigs holds per-project overrides loaded from the config
	// file. This is populated by LoadConfigFile and used when a target
	// matches a configured project path.
	ProjectConfigs *File

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. When true, outputs GitHub Flavored Markdown
	// with tables, alerts, and pie charts.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// PDFReport additionally writes a PDF report file into ReportsDir.
	// Unlike the stdout formats this is not exclusive: the PDF is a file
	// artifact alongside whatever goes to the terminal.
	PDFReport bool

	// ReportsDir is the directory where report files are written.
	ReportsDir string

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory path for storing the SQLite database.
	// Defaults to XDG data directory (~/.local/share/mutbench on Linux).
	DBDir string

	// SaveToDB indicates whether to save run results to the database.
	// Disabled via --no-save for throwaway runs.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout,
// concurrency). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
		MaxFiles:    DefaultMaxFiles,
		ReportsDir:  DefaultReportsDir,
		DBDir:       XDGDataDir(),
		SaveToDB:    true,
	}
}

// XDGDataDir returns the XDG data directory for mutbench.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/mutbench
// On macOS: ~/Library/Application Support/mutbench
// On Windows: %LOCALAPPDATA%\mutbench
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for mutbench.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/mutbench
// On macOS: ~/Library/Application Support/mutbench
// On Windows: %APPDATA%\mutbench
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for mutbench.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.cache/mutbench
// On macOS: ~/Library/Caches/mutbench
// On Windows: %LOCALAPPDATA%\mutbench\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any run begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one target directory
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	// Timeout must be positive; zero timeout would abort every run
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// Concurrency must be positive; zero would mean no work gets done
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	// MaxFiles must be non-negative; zero means use the default
	if c.MaxFiles < 0 {
		return ErrInvalidMaxFiles
	}

	// JSONReport and MarkdownReport are mutually exclusive stdout formats
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingFormats
	}

	// A reports directory is required when a file artifact is requested
	if c.PDFReport && c.ReportsDir == "" {
		return ErrInvalidReportsDir
	}

	return nil
}
