package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default execution bounds.
const (
	// DefaultTimeout is the maximum wall-clock time for one tool run.
	// Mutation runs execute the full test suite once per mutant, so this
	// is deliberately generous.
	DefaultTimeout = 30 * time.Minute

	// DefaultMaxOutput is the maximum number of bytes captured from each
	// of stdout and stderr.
	DefaultMaxOutput = 10 << 20 // 10MB
)

// Runner executes external commands within a workspace.
type Runner struct {
	// Workspace is the root directory commands may run under.
	// Empty means the current working directory at Run time.
	Workspace string

	// Timeout is the maximum duration for one command.
	Timeout time.Duration

	// MaxOutput caps the bytes captured from each output stream.
	MaxOutput int64
}

// New creates a Runner rooted at workspace with default bounds.
func New(workspace string) *Runner {
	return &Runner{
		Workspace: workspace,
		Timeout:   DefaultTimeout,
		MaxOutput: DefaultMaxOutput,
	}
}

// Result is the captured outcome of one command invocation.
type Result struct {
	// RunID uniquely identifies this invocation.
	RunID string `json:"run_id"`

	// Command is the argv that was executed.
	Command []string `json:"command"`

	// Dir is the directory the command ran in.
	Dir string `json:"dir"`

	// ExitCode is the process exit code. -1 when the process did not run
	// or was killed before exiting on its own.
	ExitCode int `json:"exit_code"`

	// Stdout and Stderr hold the captured output, possibly truncated.
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`

	// Truncated is true when either stream hit the MaxOutput cap.
	Truncated bool `json:"truncated"`

	// Duration is the wall-clock run time.
	Duration time.Duration `json:"duration"`

	// TimedOut is true when the run was cancelled by the timeout.
	TimedOut bool `json:"timed_out"`
}

// Run executes argv in dir (relative to the workspace) and captures the
// result. A non-zero exit code is not an error: mutation tools conventionally
// exit non-zero when mutants survive, and that is a result, not a failure.
// Errors are reserved for the tool being missing, the directory escaping the
// workspace, or the process failing to start.
func (r *Runner) Run(ctx context.Context, argv []string, dir string) (*Result, error) {
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}

	resolved, err := r.resolveDir(dir)
	if err != nil {
		return nil, err
	}

	if _, err := exec.LookPath(argv[0]); err != nil {
		if hint := InstallHint(argv[0]); hint != "" {
			return nil, fmt.Errorf("%w: %s (install with: %s)", ErrToolNotFound, argv[0], hint)
		}
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, argv[0])
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	maxOutput := r.MaxOutput
	if maxOutput <= 0 {
		maxOutput = DefaultMaxOutput
	}

	stdout := &limitWriter{max: maxOutput}
	stderr := &limitWriter{max: maxOutput}

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...) //nolint:gosec // argv comes from config/flags by design of the tool
	cmd.Dir = resolved
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	result := &Result{
		RunID:   uuid.NewString(),
		Command: argv,
		Dir:     resolved,
	}

	start := time.Now()
	runErr := cmd.Run()
	result.Duration = time.Since(start)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	result.Truncated = stdout.truncated || stderr.truncated
	result.TimedOut = errors.Is(runCtx.Err(), context.DeadlineExceeded)

	switch {
	case runErr == nil:
		result.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
			return result, fmt.Errorf("failed to run %s: %w", argv[0], runErr)
		}
	}

	return result, nil
}

// resolveDir resolves dir against the workspace and verifies it does not
// escape it.
func (r *Runner) resolveDir(dir string) (string, error) {
	workspace := r.Workspace
	if workspace == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		workspace = cwd
	}

	absWorkspace, err := filepath.Abs(workspace)
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace: %w", err)
	}

	if dir == "" {
		return absWorkspace, nil
	}

	resolved := dir
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(absWorkspace, resolved)
	}
	resolved = filepath.Clean(resolved)

	rel, err := filepath.Rel(absWorkspace, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkspace, dir)
	}

	return resolved, nil
}

// limitWriter captures writes up to max bytes and drops the rest.
type limitWriter struct {
	buf       strings.Builder
	max       int64
	truncated bool
}

// Write appends p to the buffer, discarding bytes beyond the cap.
// It always reports the full length so the writing process never sees a
// short write.
func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.max - int64(w.buf.Len())
	if remaining <= 0 {
		w.truncated = true
		return len(p), nil
	}
	if int64(len(p)) > remaining {
		w.buf.Write(p[:remaining])
		w.truncated = true
		return len(p), nil
	}
	w.buf.Write(p)
	return len(p), nil
}

// String returns the captured output with a truncation marker when needed.
func (w *limitWriter) String() string {
	if w.truncated {
		return w.buf.String() + "\n... [output truncated]"
	}
	return w.buf.String()
}

// RawOutputFileName is the transcript file written next to the reports.
const RawOutputFileName = "raw_output.txt"

// SaveRawOutput writes the tool transcript to dir/raw_output.txt and
// returns the written path. The transcript keeps stdout, stderr, and the
// exit code together so a failed run can be diagnosed from the reports
// directory alone.
func SaveRawOutput(dir string, result *Result) (string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Command: " + strings.Join(result.Command, " ") + "\n")
	sb.WriteString("Run ID: " + result.RunID + "\n")
	sb.WriteString("Duration: " + result.Duration.String() + "\n\n")
	sb.WriteString("STDOUT:\n")
	sb.WriteString(result.Stdout)
	sb.WriteString("\n\nSTDERR:\n")
	sb.WriteString(result.Stderr)
	sb.WriteString(fmt.Sprintf("\n\nExit code: %d\n", result.ExitCode))

	path := filepath.Join(dir, RawOutputFileName)
	if err := os.WriteFile(path, []byte(sb.String()), 0600); err != nil {
		return "", fmt.Errorf("failed to write raw output: %w", err)
	}

	return path, nil
}
