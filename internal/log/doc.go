// Package log provides logging functionality with stable path rendering,
// built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic relativization of workspace paths in log attributes
//   - Configurable log levels with verbose mode support
//   - Colorized terminal output via tint when appropriate
//   - JSON output for structured log aggregation
//
// # Path Rewriting
//
// The PathHandler rewrites absolute path-valued attributes under the
// workspace root to their relative form. Runs on different machines or CI
// workspaces then produce identical log lines, which keeps logs diffable
// and lets tests assert on them.
//
// # Usage
//
//	logger := log.New(os.Stderr, log.Options{
//	    Verbose: true,
//	    Color:   log.AutoColor(),
//	    Root:    projectRoot,
//	})
//
//	logger.Info("results parsed",
//	    "path", "/home/user/project/results.json", // logged as "results.json"
//	    "mutants", 42,
//	)
//
//	slog.SetDefault(logger)
package log
