package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mutbench/internal/config"
	"mutbench/internal/database"
	"mutbench/internal/model"
	"mutbench/internal/report"
	"mutbench/internal/source"
	"mutbench/internal/suggest"
)

// NewSuggestCmd creates the suggest command.
func NewSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest [source-dir]",
		Short: "Suggest mutation points through pattern analysis",
		Long: `Suggest analyzes source files for likely mutation points without running
a mutation tool.

It scans for arithmetic operators, comparisons, boolean logic, constants,
boundary conditions, and return values, and reports suggested mutation
points alongside generated test skeletons that would catch them.

The pass is stored as a pattern-approach round so it can be compared
against tool runs with 'mutbench compare'.

Examples:
  # Analyze the current directory
  mutbench suggest .

  # Analyze Python sources only, writing skeletons to a directory
  mutbench suggest --ext .py --tests-out suggested_tests ./service

  # Write a Markdown report
  mutbench suggest --markdown ./service`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSuggestCmd,
	}

	// Analysis flags
	cmd.Flags().StringSlice("ext", nil,
		"File extensions to analyze, e.g. .py,.go (default: all known)")
	cmd.Flags().Int("max-files", config.DefaultMaxFiles,
		"Maximum number of files to analyze")
	cmd.Flags().String("analyzer-label", "",
		"Name recorded as the analyzer for this pass")
	cmd.Flags().IntP("concurrency", "b", config.DefaultConcurrency,
		"Number of files analyzed concurrently")

	// Skeleton output
	cmd.Flags().String("tests-out", "",
		"Directory to write generated test skeletons into")

	// Report flags
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report")
	cmd.Flags().BoolP("pdf", "p", false,
		"Write a PDF report under --reports-dir")
	cmd.Flags().String("reports-dir", config.DefaultReportsDir,
		"Directory for generated report files")

	// History flags
	cmd.Flags().Bool("no-save", false,
		"Do not store the pass in the run history database")

	return cmd
}

// runSuggestCmd executes the suggest command.
func runSuggestCmd(cmd *cobra.Command, args []string) error {
	sourceDir := "."
	if len(args) > 0 {
		sourceDir = args[0]
	}
	if _, err := os.Stat(sourceDir); err != nil {
		return fmt.Errorf("source directory not accessible: %w", err)
	}

	logger := setupLogger(cmd, sourceDir)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	exts, err := cmd.Flags().GetStringSlice("ext")
	if err != nil {
		return err
	}
	maxFiles, err := cmd.Flags().GetInt("max-files")
	if err != nil {
		return err
	}
	analyzerLabel, err := cmd.Flags().GetString("analyzer-label")
	if err != nil {
		return err
	}
	concurrency, err := cmd.Flags().GetInt("concurrency")
	if err != nil {
		return err
	}
	testsOut, err := cmd.Flags().GetString("tests-out")
	if err != nil {
		return err
	}
	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return err
	}

	// Build the suggester
	opts := []suggest.Option{
		suggest.WithLogger(logger),
		suggest.WithConcurrency(concurrency),
	}
	if analyzerLabel != "" {
		opts = append(opts, suggest.WithAnalyzerLabel(analyzerLabel))
	}

	var walkOpts []source.WalkerOption
	if len(exts) > 0 {
		walkOpts = append(walkOpts, source.WithExtensions(exts))
	}
	if maxFiles > 0 {
		walkOpts = append(walkOpts, source.WithMaxFiles(maxFiles))
	}
	if len(walkOpts) > 0 {
		opts = append(opts, suggest.WithWalkOptions(walkOpts...))
	}

	suggester := suggest.New(opts...)

	fmt.Printf("Analyzing %s for mutation points...\n\n", sourceDir)

	pass, err := suggester.Run(ctx, uuid.New().String(), sourceDir)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	// Write generated test skeletons if requested
	if testsOut != "" {
		written, err := writeSkeletons(testsOut, pass.GeneratedTests)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %d test skeleton(s) to %s\n\n", written, testsOut)
	}

	// Store as a pattern round unless disabled
	if !noSave {
		if err := saveSuggestionPass(ctx, pass, logger); err != nil {
			logger.Error("failed to save pattern round", "error", err)
		}
	}

	return outputSuggestionReport(cmd, pass)
}

// writeSkeletons writes each generated test skeleton to its own file under
// dir. Skeletons for the same source file and language append-merge poorly,
// so each gets a distinct name derived from its target and category.
func writeSkeletons(dir string, skeletons []model.TestSkeleton) (int, error) {
	if len(skeletons) == 0 {
		return 0, nil
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return 0, fmt.Errorf("failed to create skeleton directory: %w", err)
	}

	written := 0
	for _, sk := range skeletons {
		path := filepath.Join(dir, skeletonFileName(sk))
		if err := os.WriteFile(path, []byte(sk.Source), 0600); err != nil {
			return written, fmt.Errorf("failed to write skeleton %s: %w", path, err)
		}
		written++
	}
	return written, nil
}

// skeletonFileName derives the output file name for one skeleton in the
// naming convention of its language.
func skeletonFileName(sk model.TestSkeleton) string {
	// Flatten the relative path so same-named files in different
	// directories don't collide.
	base := strings.TrimSuffix(sk.File, filepath.Ext(sk.File))
	base = strings.ToLower(strings.NewReplacer("/", "_", "\\", "_", ".", "_").Replace(base))

	if sk.Language == source.LangGo {
		return fmt.Sprintf("%s_%s_test.go", base, sk.Category)
	}
	return fmt.Sprintf("test_%s_%s.py", base, sk.Category)
}

// saveSuggestionPass stores the pass in the history database as a
// pattern-approach round.
func saveSuggestionPass(ctx context.Context, pass *model.SuggestionReport, logger *slog.Logger) error {
	store, err := database.Open(config.NewConfig().DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	run := pass.ToRunReport()
	run.Summary = model.NewRunSummary(run)

	if err := store.SaveRunReport(ctx, run); err != nil {
		return fmt.Errorf("failed to save pattern round: %w", err)
	}

	logger.Info("pattern round saved", "run_id", pass.RunID)
	return nil
}

// outputSuggestionReport renders the pass in the requested format.
func outputSuggestionReport(cmd *cobra.Command, pass *model.SuggestionReport) error {
	markdownOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	pdfOut, err := cmd.Flags().GetBool("pdf")
	if err != nil {
		return err
	}
	reportsDir, err := cmd.Flags().GetString("reports-dir")
	if err != nil {
		return err
	}

	if pdfOut {
		f, err := report.CreateReportFile(reportsDir, report.KindSuggestion, "pdf")
		if err != nil {
			return err
		}
		defer f.Close()

		if _, err := report.NewPDFWriter(f).WriteSuggestions(pass); err != nil {
			return fmt.Errorf("failed to write PDF report: %w", err)
		}
		fmt.Printf("PDF report written to %s\n", f.Name())
		return nil
	}

	if markdownOut {
		_, err := report.NewMarkdownWriter(os.Stdout).WriteSuggestions(pass)
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose") //nolint:errcheck // flag registered on root
	_, err = report.NewSimpleWriter(os.Stdout, report.WithVerbose(verbose)).WriteSuggestions(pass)
	return err
}
