package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mutbench/internal/config"
	"mutbench/internal/database"
	"mutbench/internal/model"
	"mutbench/internal/mutation"
	"mutbench/internal/pipeline"
	"mutbench/internal/report"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [target-dir]...",
		Short: "Run a mutation testing round against a project",
		Long: `Run executes a mutation testing round against one or more project directories.

It selects a mutation tool (auto-detected from the project layout, or set
with --tool), runs it, parses the results file, and stores the round so it
can be compared against later rounds.

Examples:
  # Run against the current directory with an auto-detected tool
  mutbench run .

  # Run mutmut against a project with a custom test runner
  mutbench run --tool mutmut --runner "python -m pytest -x" ./service

  # Parse an existing results file without running a tool
  mutbench run --tool generic --results mutation_results.json ./service

  # Run several projects concurrently
  mutbench run --concurrency 4 ./svc-a ./svc-b ./svc-c

  # Explore with a bundled fixture round (no tool required)
  mutbench run --sample round-1 .

  # Write a PDF report
  mutbench run --pdf --reports-dir reports .`,
		Args: cobra.ArbitraryArgs,
		RunE: runRunCmd,
	}

	// Tool flags
	cmd.Flags().StringP("tool", "t", "",
		"Mutation tool to run: mutmut, gremlins, generic (default: auto-detect)")
	cmd.Flags().StringArray("tool-arg", nil,
		"Extra argument passed to the tool verbatim (repeatable)")
	cmd.Flags().String("results", "",
		"Path of the tool's results file, relative to the target root")
	cmd.Flags().String("source-dir", "",
		"Directory of sources to mutate, relative to the target root")
	cmd.Flags().String("tests-dir", "",
		"Directory of the test suite, relative to the target root")
	cmd.Flags().StringP("runner", "r", "",
		"Command line the tool uses to run the test suite against each mutant")
	cmd.Flags().Duration("timeout", config.DefaultTimeout,
		"Timeout for the tool run")

	// Study flags
	cmd.Flags().StringP("label", "l", "",
		"Name for this round within a study, e.g. round-1")
	cmd.Flags().StringP("sample", "s", "",
		"Load a bundled fixture round instead of running a tool (round-1, round-2)")

	// Batch flags
	cmd.Flags().IntP("concurrency", "b", config.DefaultConcurrency,
		"Number of concurrent rounds when multiple targets are given")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .mutbench in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().BoolP("pdf", "p", false,
		"Write a PDF report under --reports-dir")
	cmd.Flags().String("reports-dir", config.DefaultReportsDir,
		"Directory for generated report files")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to the specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-save", false,
		"Do not store the round in the run history database")
	cmd.Flags().String("db-dir", "",
		"Directory of the run history database (default: XDG data directory)")

	return cmd
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildRunConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg.Targets[0])
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	return runRounds(ctx, cfg, logger)
}

// buildRunConfig creates a Config from cobra command flags.
func buildRunConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Tool, err = cmd.Flags().GetString("tool")
	if err != nil {
		return nil, err
	}
	cfg.ToolArgs, err = cmd.Flags().GetStringArray("tool-arg")
	if err != nil {
		return nil, err
	}
	cfg.ResultsPath, err = cmd.Flags().GetString("results")
	if err != nil {
		return nil, err
	}
	cfg.SourceDir, err = cmd.Flags().GetString("source-dir")
	if err != nil {
		return nil, err
	}
	cfg.TestsDir, err = cmd.Flags().GetString("tests-dir")
	if err != nil {
		return nil, err
	}
	cfg.TestRunner, err = cmd.Flags().GetString("runner")
	if err != nil {
		return nil, err
	}
	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}
	cfg.Label, err = cmd.Flags().GetString("label")
	if err != nil {
		return nil, err
	}
	cfg.Sample, err = cmd.Flags().GetString("sample")
	if err != nil {
		return nil, err
	}
	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if err := loadProjectConfigs(cfg); err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	cfg.PDFReport, err = cmd.Flags().GetBool("pdf")
	if err != nil {
		return nil, err
	}
	cfg.ReportsDir, err = cmd.Flags().GetString("reports-dir")
	if err != nil {
		return nil, err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	cfg.Verbose, _ = cmd.Flags().GetBool("verbose") //nolint:errcheck // flag registered on root

	// Positional arguments are the target directories
	cfg.Targets = args

	return cfg, nil
}

// loadProjectConfigs loads the YAML configuration file into cfg.
// If the user explicitly specified a config file path, a missing file is an
// error. If no path was specified, a missing file yields an empty config.
func loadProjectConfigs(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ProjectConfigs = file
		return nil
	}

	if explicit {
		return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.ProjectConfigs = &config.File{
		Projects: make(map[string]config.ProjectConfig),
	}
	return nil
}

// runRounds executes rounds for all configured targets.
func runRounds(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting rounds",
		"targets", cfg.Targets,
		"tool", cfg.Tool,
		"concurrency", cfg.Concurrency,
		"saveToDB", cfg.SaveToDB,
	)

	// Open the history database if saving is enabled
	var store *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		store, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer store.Close()
		logger.Info("history database opened", "dir", cfg.DBDir)
	}

	// Use the batch processor for concurrent rounds over multiple targets
	if len(cfg.Targets) > 1 && cfg.Concurrency > 1 {
		return runBatchRounds(ctx, cfg, store, logger)
	}

	return runSequentialRounds(ctx, cfg, store, logger)
}

// runSequentialRounds runs rounds one target at a time. A failed round
// does not stop the remaining targets, but a run where every round failed
// returns the last error.
func runSequentialRounds(ctx context.Context, cfg *config.Config, store *database.HistoryDB, logger *slog.Logger) error {
	var lastErr error
	completed := 0

	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		p := createPipelineForTarget(cfg, store, logger, target)

		run := model.NewRunReport(uuid.New().String(), target, model.ApproachTraditional)
		if cfg.Label != "" {
			run.Label = cfg.Label
		}

		fmt.Printf("Running mutation round against %s...\n", target)
		startTime := time.Now()

		if err := p.Execute(ctx, run); err != nil {
			logger.Error("round failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Round error for %s: %v\n", target, err)
			lastErr = err
			continue
		}
		completed++

		elapsed := time.Since(startTime)
		fmt.Printf("Round completed in %s\n\n", elapsed.Round(time.Millisecond))

		if err := outputRunReport(cfg, run); err != nil {
			logger.Error("report failed", "target", target, "error", err)
		}
	}

	if completed == 0 && lastErr != nil {
		return lastErr
	}
	return nil
}

// runBatchRounds runs rounds for multiple targets concurrently.
func runBatchRounds(ctx context.Context, cfg *config.Config, store *database.HistoryDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch of %d rounds (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.Concurrency)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func(target string) *pipeline.Pipeline {
			return createPipelineForTarget(cfg, store, logger, target)
		},
		pipeline.WithBatchConcurrency(cfg.Concurrency),
		pipeline.WithBatchLogger(logger),
	)

	// Stream results as rounds finish
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.Targets, func(run *model.RunReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		if cfg.Label != "" && run.Label == "" {
			run.Label = cfg.Label
		}

		fmt.Printf("[%d/%d] Round completed: %s\n", index+1, len(cfg.Targets), run.Project)

		if err := outputRunReport(cfg, run); err != nil {
			logger.Error("report failed", "target", run.Project, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// createPipelineForTarget creates the round pipeline for one target,
// applying per-project configuration from the config file.
func createPipelineForTarget(cfg *config.Config, store *database.HistoryDB, logger *slog.Logger, target string) *pipeline.Pipeline {
	var project config.ProjectConfig
	if cfg.ProjectConfigs != nil {
		project = cfg.ProjectConfigs.GetProjectConfig(target)
	}

	tool := cfg.Tool
	if tool == "" {
		tool = project.Tool
	}

	toolOpts := mutation.ToolOptions{
		SourceDir:   firstNonEmpty(cfg.SourceDir, project.SourceDir),
		TestsDir:    firstNonEmpty(cfg.TestsDir, project.TestsDir),
		TestRunner:  firstNonEmpty(cfg.TestRunner, project.Runner),
		ResultsPath: cfg.ResultsPath,
		ExtraArgs:   cfg.ToolArgs,
	}

	mutOpts := []pipeline.MutationStepOption{
		pipeline.WithTool(tool),
		pipeline.WithToolOptions(toolOpts),
		pipeline.WithTimeout(cfg.Timeout),
		pipeline.WithReportsDir(cfg.ReportsDir),
		pipeline.WithMutationLogger(logger),
	}
	if cfg.Sample != "" {
		mutOpts = append(mutOpts, pipeline.WithSample(cfg.Sample))
	}

	sumOpts := []pipeline.SummarizeStepOption{
		pipeline.WithSummarizeLogger(logger),
	}
	if toolOpts.SourceDir != "" {
		sumOpts = append(sumOpts, pipeline.WithSummarySourceDir(toolOpts.SourceDir))
	}

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddStep(pipeline.NewMutationStep(mutOpts...))
	p.AddStep(pipeline.NewResultsStep(
		pipeline.WithResultsTool(tool),
		pipeline.WithResultsToolOptions(toolOpts),
		pipeline.WithResultsLogger(logger),
	))
	p.AddStep(pipeline.NewSummarizeStep(sumOpts...))
	p.AddStep(pipeline.NewPersistStep(store, pipeline.WithPersistLogger(logger)))
	return p
}

// outputRunReport outputs the round report in the requested format.
func outputRunReport(cfg *config.Config, run *model.RunReport) error {
	if run.Summary == nil {
		run.Summary = model.NewRunSummary(run)
	}

	// PDF reports always go to a file
	if cfg.PDFReport {
		return writePDFRunReport(cfg, run)
	}

	output, closeFn, err := openReportOutput(cfg.ReportFile)
	if err != nil {
		return err
	}
	defer closeFn()

	switch {
	case cfg.JSONReport:
		_, err = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint()).Write(run)
	case cfg.MarkdownReport:
		_, err = report.NewMarkdownWriter(output).Write(run)
	default:
		_, err = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose)).Write(run)
	}
	return err
}

// writePDFRunReport renders the round to a PDF file, either at the explicit
// output path or under the reports directory.
func writePDFRunReport(cfg *config.Config, run *model.RunReport) error {
	var f *os.File
	var err error

	if cfg.ReportFile != "" {
		f, err = createReportAt(cfg.ReportFile)
	} else {
		f, err = report.CreateReportFile(cfg.ReportsDir, report.KindMutation, "pdf")
	}
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := report.NewPDFWriter(f).Write(run); err != nil {
		return fmt.Errorf("failed to write PDF report: %w", err)
	}

	fmt.Printf("PDF report written to %s\n", f.Name())
	return nil
}

// openReportOutput returns the report destination and a close function.
// An empty path means stdout.
func openReportOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	f, err := createReportAt(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil //nolint:errcheck // Best effort close
}

// createReportAt creates the report file at path, creating parent
// directories as needed. Reports are written with owner-only permissions.
func createReportAt(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
