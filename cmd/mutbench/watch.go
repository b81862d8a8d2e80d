package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mutbench/internal/config"
	"mutbench/internal/database"
	"mutbench/internal/model"
	"mutbench/internal/report"
	"mutbench/internal/suggest"
	"mutbench/internal/watch"
)

// NewWatchCmd creates the watch command.
// The watch command keeps a pattern analysis running against a project:
// every time source files settle after a burst of edits, the changed
// directory is re-analyzed and new mutation points are reported.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [target-dir]",
		Short: "Re-analyze a project whenever its source files change",
		Long: `Watch monitors a project directory and re-runs the pattern analysis
whenever source files change.

Rapid bursts of edits (for example an editor save-all, or a formatter
rewriting a tree) are debounced and analyzed once, after the files have
settled. Press Ctrl+C to stop watching.

With --full, each settled batch also triggers a full round of the
external mutation tool against the project, so the detection history
grows while you work.

Examples:
  # Watch the current directory
  mutbench watch

  # Watch a project, re-running the full tool round on changes
  mutbench watch ./service --full --tool mutmut

  # Watch only Go files with a longer settle window
  mutbench watch ./service --ext .go --interval 5s`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatchCmd,
	}

	cmd.Flags().StringSlice("ext", nil,
		"Source file extensions to watch (default: all supported languages)")
	cmd.Flags().Duration("interval", 2*time.Second,
		"How long files must settle before a batch is analyzed")
	cmd.Flags().Bool("full", false,
		"Run a full external-tool round on each settled batch")
	cmd.Flags().StringP("tool", "t", "",
		"External mutation tool for --full rounds (mutmut, gremlins, generic)")
	cmd.Flags().Duration("timeout", config.DefaultTimeout,
		"Budget for one --full tool round")
	cmd.Flags().Bool("no-save", false,
		"Do not store --full rounds in the history database")

	return cmd
}

// runWatchCmd executes the watch command.
func runWatchCmd(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}
	if _, err := os.Stat(targetDir); err != nil {
		return fmt.Errorf("target directory not accessible: %w", err)
	}

	extensions, err := cmd.Flags().GetStringSlice("ext")
	if err != nil {
		return err
	}
	interval, err := cmd.Flags().GetDuration("interval")
	if err != nil {
		return err
	}
	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return err
	}
	tool, err := cmd.Flags().GetString("tool")
	if err != nil {
		return err
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}
	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, targetDir)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	var store *database.HistoryDB
	if full && !noSave {
		store, err = database.Open(config.NewConfig().DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer store.Close()
	}

	session := &watchSession{
		targetDir: targetDir,
		full:      full,
		tool:      tool,
		timeout:   timeout,
		store:     store,
		logger:    logger,
	}

	opts := []watch.Option{
		watch.WithDebounce(interval),
		watch.WithLogger(logger),
	}
	if len(extensions) > 0 {
		opts = append(opts, watch.WithExtensions(extensions))
	}

	watcher, err := watch.New([]string{targetDir}, session.onChange, opts...)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watching: %w", err)
	}
	defer watcher.Stop()

	fmt.Printf("Watching %s for changes (settle window %s). Press Ctrl+C to stop.\n\n",
		targetDir, interval)

	<-ctx.Done()

	stats := watcher.Stats()
	fmt.Printf("\nStopped watching. %d change batches analyzed.\n", stats.Batches)
	return nil
}

// watchSession holds the state shared by successive change batches.
type watchSession struct {
	targetDir string
	full      bool
	tool      string
	timeout   time.Duration
	store     *database.HistoryDB
	logger    *slog.Logger
}

// onChange runs the analysis for one settled batch of changed files.
// Batches are delivered sequentially by the watcher, so no locking is
// needed here.
func (s *watchSession) onChange(ctx context.Context, paths []string) {
	fmt.Printf("--- %s: %d file(s) changed ---\n",
		time.Now().Format("15:04:05"), len(paths))
	for _, p := range paths {
		fmt.Printf("  %s\n", p)
	}
	fmt.Println()

	suggester := suggest.New(suggest.WithLogger(s.logger))
	pass, err := suggester.Run(ctx, uuid.New().String(), s.targetDir)
	if err != nil {
		s.logger.Error("pattern analysis failed", "error", err)
		fmt.Fprintf(os.Stderr, "Analysis error: %v\n", err)
		return
	}

	fmt.Printf("Pattern analysis: %d mutation point(s) in %d file(s)\n",
		len(pass.Suggestions), len(pass.FilesAnalyzed))

	if _, err := report.NewSimpleWriter(os.Stdout).WriteSuggestions(pass); err != nil {
		s.logger.Error("failed to write suggestions", "error", err)
	}

	if s.full {
		s.runFullRound(ctx)
	}
}

// runFullRound runs one external-tool round against the watched project.
func (s *watchSession) runFullRound(ctx context.Context) {
	cfg := config.NewConfig()
	cfg.Targets = []string{s.targetDir}
	cfg.Tool = s.tool
	cfg.Timeout = s.timeout
	cfg.SaveToDB = s.store != nil
	cfg.ProjectConfigs = &config.File{
		Projects: make(map[string]config.ProjectConfig),
	}

	fmt.Printf("Running mutation round against %s...\n", s.targetDir)

	p := createPipelineForTarget(cfg, s.store, s.logger, s.targetDir)
	run := model.NewRunReport(uuid.New().String(), s.targetDir, model.ApproachTraditional)

	if err := p.Execute(ctx, run); err != nil {
		s.logger.Error("round failed", "error", err)
		fmt.Fprintf(os.Stderr, "Round error: %v\n", err)
		return
	}

	if err := outputRunReport(cfg, run); err != nil {
		s.logger.Error("report failed", "error", err)
	}
}
