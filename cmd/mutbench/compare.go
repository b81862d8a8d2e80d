package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mutbench/internal/analysis"
	"mutbench/internal/config"
	"mutbench/internal/database"
	"mutbench/internal/model"
	"mutbench/internal/report"
	"mutbench/internal/suggest"
)

// Output format names accepted by --format.
const (
	formatText     = "text"
	formatJSON     = "json"
	formatMarkdown = "markdown"
	formatPDF      = "pdf"
)

// NewCompareCmd creates the compare command.
// This command compares rounds against each other or against a fresh
// pattern-analysis pass.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare rounds and approaches",
		Long: `Compare reports the detection-rate differences between rounds.

Two modes are available:

Approaches (default): the project's most recent tool round is compared
against a fresh pattern-analysis pass over the same directory, showing
what each approach finds that the other does not.

Rounds (--rounds): two stored rounds are compared, showing newly detected
mutants, still-surviving mutants, and the detection-rate change between
them. Rounds come from the history database (--with-run-id, or the latest
two for --project) or from report JSON files (--baseline / --candidate).

Examples:
  # Compare the latest tool round against a fresh pattern pass
  mutbench compare --project ./service

  # Compare the two most recent rounds of a project
  mutbench compare --rounds --project ./service

  # Compare two specific rounds by run ID
  mutbench compare --rounds --with-run-id <id1> --with-run-id <id2>

  # Compare two exported report files
  mutbench compare --baseline before.json --candidate after.json

  # Compare against the first round since a date
  mutbench compare --rounds --project ./service --since 2026-01-01

  # List stored rounds for a project
  mutbench compare --list --project ./service

  # Render the comparison as a PDF
  mutbench compare --project ./service --format pdf`,
		Args: cobra.NoArgs,
		RunE: runCompareCmd,
	}

	// Mode flags
	cmd.Flags().Bool("approaches", true,
		"Compare the latest tool round against a fresh pattern pass (default mode)")
	cmd.Flags().Bool("rounds", false,
		"Compare two stored rounds instead of approaches")

	// Round selection flags
	cmd.Flags().String("baseline", "",
		"Report JSON file of the baseline round")
	cmd.Flags().String("candidate", "",
		"Report JSON file of the candidate round")
	cmd.Flags().StringArray("with-run-id", nil,
		"Run ID of a stored round (give twice: baseline then candidate)")
	cmd.Flags().StringP("project", "P", "",
		"Project whose stored rounds to use")
	cmd.Flags().String("since", "",
		"Use the first stored round at or after this date as the baseline (YYYY-MM-DD)")

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List stored rounds for --project, or all projects when no project is given")

	// Output flags
	cmd.Flags().StringP("format", "f", formatText,
		"Output format: text, json, markdown, pdf")
	cmd.Flags().StringP("output", "o", "",
		"Write the comparison to the specified file path")
	cmd.Flags().String("reports-dir", config.DefaultReportsDir,
		"Directory for generated PDF files when --output is not given")

	// History flags
	cmd.Flags().String("db-dir", "",
		"Directory of the run history database (default: XDG data directory)")

	return cmd
}

// compareOptions carries the parsed compare flags.
type compareOptions struct {
	rounds       bool
	baselineFile string
	candidate    string
	runIDs       []string
	project      string
	since        string
	list         bool
	format       string
	output       string
	reportsDir   string
	dbDir        string
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, _ []string) error {
	opts, err := parseCompareFlags(cmd)
	if err != nil {
		return err
	}

	if opts.format != formatText && opts.format != formatJSON &&
		opts.format != formatMarkdown && opts.format != formatPDF {
		return fmt.Errorf("unknown format %q (use text, json, markdown, or pdf)", opts.format)
	}

	logger := setupLogger(cmd, opts.project)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	// File-based comparison needs no database
	if opts.baselineFile != "" || opts.candidate != "" {
		return compareReportFiles(opts)
	}

	dbDir := opts.dbDir
	if dbDir == "" {
		dbDir = config.NewConfig().DBDir
	}
	store, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	if opts.list {
		return listRunHistory(ctx, store, opts.project)
	}

	if opts.rounds || len(opts.runIDs) > 0 {
		return compareStoredRounds(ctx, store, opts)
	}

	return compareApproaches(ctx, store, opts, logger)
}

// parseCompareFlags reads all compare flags into a compareOptions.
func parseCompareFlags(cmd *cobra.Command) (*compareOptions, error) {
	opts := &compareOptions{}

	var err error
	if opts.rounds, err = cmd.Flags().GetBool("rounds"); err != nil {
		return nil, err
	}
	if opts.baselineFile, err = cmd.Flags().GetString("baseline"); err != nil {
		return nil, err
	}
	if opts.candidate, err = cmd.Flags().GetString("candidate"); err != nil {
		return nil, err
	}
	if opts.runIDs, err = cmd.Flags().GetStringArray("with-run-id"); err != nil {
		return nil, err
	}
	if opts.project, err = cmd.Flags().GetString("project"); err != nil {
		return nil, err
	}
	if opts.since, err = cmd.Flags().GetString("since"); err != nil {
		return nil, err
	}
	if opts.list, err = cmd.Flags().GetBool("list"); err != nil {
		return nil, err
	}
	if opts.format, err = cmd.Flags().GetString("format"); err != nil {
		return nil, err
	}
	if opts.output, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if opts.reportsDir, err = cmd.Flags().GetString("reports-dir"); err != nil {
		return nil, err
	}
	if opts.dbDir, err = cmd.Flags().GetString("db-dir"); err != nil {
		return nil, err
	}

	return opts, nil
}

// listRunHistory lists stored rounds for a project, or all projects.
func listRunHistory(ctx context.Context, store *database.HistoryDB, project string) error {
	if project == "" {
		projects, err := store.ListProjects(ctx)
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}
		if len(projects) == 0 {
			fmt.Println("No stored rounds found.")
			fmt.Println("\nUse 'mutbench run <target-dir>' to run and store a round.")
			return nil
		}

		fmt.Printf("Projects with stored rounds (%d):\n\n", len(projects))
		for _, p := range projects {
			fmt.Printf("  • %s\n", p)
		}
		fmt.Println("\nUse 'mutbench compare --list --project <dir>' to see a project's rounds.")
		return nil
	}

	history, err := store.GetRunHistory(ctx, project, 0)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}
	if len(history) == 0 {
		fmt.Printf("No stored rounds found for %s\n", project)
		fmt.Println("\nUse 'mutbench run' to run a round against this project.")
		return nil
	}

	fmt.Printf("Stored rounds for %s (%d):\n\n", project, len(history))
	fmt.Printf("  %-36s  %-11s  %-10s  %-20s  %s\n", "Run ID", "Approach", "Label", "Date", "Detection")
	fmt.Println("  " + strings.Repeat("-", 92))

	for _, meta := range history {
		fmt.Printf("  %-36s  %-11s  %-10s  %-20s  %d/%d (%.1f%%)\n",
			meta.RunID,
			meta.Approach,
			meta.Label,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			meta.Detected,
			meta.Total,
			meta.DetectionRate*100,
		)
	}

	fmt.Println("\nUse 'mutbench compare --rounds --with-run-id <id> --with-run-id <id>' to compare two rounds.")
	return nil
}

// compareReportFiles compares two exported report JSON files.
func compareReportFiles(opts *compareOptions) error {
	if opts.baselineFile == "" || opts.candidate == "" {
		return errors.New("--baseline and --candidate must be given together")
	}

	baseline, err := loadReportFile(opts.baselineFile)
	if err != nil {
		return err
	}
	candidate, err := loadReportFile(opts.candidate)
	if err != nil {
		return err
	}

	return outputImprovement(opts, analysis.CompareRounds(baseline, candidate))
}

// loadReportFile decodes a round report from a JSON file written by
// 'mutbench run --json'.
func loadReportFile(path string) (*model.RunReport, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied report path
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	// Accept both the bare report and the versioned export envelope.
	var envelope struct {
		Report *model.RunReport `json:"report"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Report != nil {
		return envelope.Report, nil
	}

	var run model.RunReport
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to parse report file %s: %w", path, err)
	}
	if run.RunID == "" && len(run.Mutants) == 0 {
		return nil, fmt.Errorf("report file %s does not contain a round report", path)
	}
	return &run, nil
}

// compareStoredRounds compares two rounds from the history database.
func compareStoredRounds(ctx context.Context, store *database.HistoryDB, opts *compareOptions) error {
	baseline, candidate, err := resolveStoredRounds(ctx, store, opts)
	if err != nil {
		return err
	}

	return outputImprovement(opts, analysis.CompareRounds(baseline, candidate))
}

// resolveStoredRounds picks the two rounds to compare from run IDs, a
// --since date, or the project's two most recent rounds.
func resolveStoredRounds(ctx context.Context, store *database.HistoryDB, opts *compareOptions) (*model.RunReport, *model.RunReport, error) {
	if len(opts.runIDs) > 0 {
		if len(opts.runIDs) != 2 {
			return nil, nil, fmt.Errorf("--with-run-id must be given exactly twice (baseline then candidate), got %d", len(opts.runIDs))
		}

		baseline, err := loadStoredRound(ctx, store, opts.runIDs[0])
		if err != nil {
			return nil, nil, err
		}
		candidate, err := loadStoredRound(ctx, store, opts.runIDs[1])
		if err != nil {
			return nil, nil, err
		}
		return baseline, candidate, nil
	}

	if opts.project == "" {
		return nil, nil, errors.New("a project is required (use --project, --with-run-id, or --baseline/--candidate)")
	}

	history, err := store.GetRunHistory(ctx, opts.project, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get run history: %w", err)
	}
	if len(history) < 2 {
		return nil, nil, fmt.Errorf("at least 2 stored rounds are required for comparison (found %d)", len(history))
	}

	// History is most recent first; the newest round is the candidate.
	candidateMeta := history[0]
	baselineMeta := history[1]

	if opts.since != "" {
		sinceDate, err := time.Parse("2006-01-02", opts.since)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		// Iterate in reverse to find the oldest round at or after the date.
		found := false
		for i := len(history) - 1; i >= 0; i-- {
			if !history[i].Timestamp.Before(sinceDate) {
				baselineMeta = history[i]
				found = true
				break
			}
		}
		if !found {
			return nil, nil, fmt.Errorf("no rounds found since %s", opts.since)
		}
		if baselineMeta.RunID == candidateMeta.RunID {
			return nil, nil, fmt.Errorf("only one round found since %s; at least 2 are required", opts.since)
		}
	}

	baseline, err := loadStoredRound(ctx, store, baselineMeta.RunID)
	if err != nil {
		return nil, nil, err
	}
	candidate, err := loadStoredRound(ctx, store, candidateMeta.RunID)
	if err != nil {
		return nil, nil, err
	}
	return baseline, candidate, nil
}

// loadStoredRound loads one round by run ID, erroring when it is missing.
func loadStoredRound(ctx context.Context, store *database.HistoryDB, runID string) (*model.RunReport, error) {
	run, err := store.GetRunReportByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load round %s: %w", runID, err)
	}
	if run == nil {
		return nil, fmt.Errorf("no stored round with run ID %s (use --list to see available rounds)", runID)
	}
	return run, nil
}

// compareApproaches compares the project's latest tool round against a
// fresh pattern-analysis pass over the same directory.
func compareApproaches(ctx context.Context, store *database.HistoryDB, opts *compareOptions, logger *slog.Logger) error {
	if opts.project == "" {
		return errors.New("a project is required for approach comparison (use --project)")
	}

	traditional, err := store.LatestRunByApproach(ctx, opts.project, model.ApproachTraditional)
	if err != nil {
		return fmt.Errorf("failed to load latest tool round: %w", err)
	}
	if traditional == nil {
		return fmt.Errorf("no tool round stored for %s (run 'mutbench run %s' first)", opts.project, opts.project)
	}

	fmt.Printf("Analyzing %s for mutation points...\n\n", opts.project)

	suggester := suggest.New(suggest.WithLogger(logger))
	pass, err := suggester.Run(ctx, uuid.New().String(), opts.project)
	if err != nil {
		return fmt.Errorf("pattern analysis failed: %w", err)
	}

	return outputComparison(opts, analysis.CompareApproaches(traditional, pass))
}

// outputComparison renders an approach comparison in the requested format.
func outputComparison(opts *compareOptions, comparison *analysis.ApproachComparison) error {
	return renderComparison(opts, report.KindComparison, func(w report.ComparisonWriter) error {
		_, err := w.WriteComparison(comparison)
		return err
	})
}

// outputImprovement renders a round improvement in the requested format.
func outputImprovement(opts *compareOptions, improvement *analysis.Improvement) error {
	return renderComparison(opts, report.KindImprovement, func(w report.ComparisonWriter) error {
		_, err := w.WriteImprovement(improvement)
		return err
	})
}

// renderComparison builds the writer for the requested format and invokes
// the render function on it.
func renderComparison(opts *compareOptions, kind string, render func(report.ComparisonWriter) error) error {
	var output io.Writer = os.Stdout
	var closeFn func()

	switch {
	case opts.output != "":
		f, err := createReportAt(opts.output)
		if err != nil {
			return err
		}
		output = f
		closeFn = func() { _ = f.Close() } //nolint:errcheck // Best effort close
	case opts.format == formatPDF:
		f, err := report.CreateReportFile(opts.reportsDir, kind, "pdf")
		if err != nil {
			return err
		}
		output = f
		closeFn = func() {
			_ = f.Close() //nolint:errcheck // Best effort close
			fmt.Printf("PDF report written to %s\n", f.Name())
		}
	}
	if closeFn != nil {
		defer closeFn()
	}

	var w report.ComparisonWriter
	switch opts.format {
	case formatJSON:
		w = report.NewJSONWriter(output, report.WithPrettyPrint())
	case formatMarkdown:
		w = report.NewMarkdownWriter(output)
	case formatPDF:
		w = report.NewPDFWriter(output)
	default:
		w = report.NewSimpleWriter(output)
	}

	return render(w)
}
