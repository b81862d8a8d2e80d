package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"mutbench/internal/database"
	"mutbench/internal/model"
	"mutbench/internal/mutation"
	"mutbench/internal/runner"
	"mutbench/internal/source"
)

// MutationStep runs the external mutation tool against the target project.
// This step selects the tool adapter, invokes the tool, and saves its raw
// transcript for diagnosis.
//
// Design decision: Running the tool is separate from parsing its results
// because:
// 1. Results can be ingested from a pre-existing file without a run
// 2. The sample mode replaces only this step, not the parsing
// 3. A failed run still leaves a transcript to diagnose
type MutationStep struct {
	// tool is the explicit adapter name, empty for auto-detection.
	tool string

	// toolOpts carries the per-run tool configuration.
	toolOpts mutation.ToolOptions

	// timeout bounds one full tool run.
	timeout time.Duration

	// reportsDir is where the raw transcript is saved. Empty disables
	// transcript saving.
	reportsDir string

	// sample selects a bundled sample round instead of running the tool.
	sample string

	// logger for structured logging.
	logger *slog.Logger
}

// MutationStepOption configures a MutationStep.
type MutationStepOption func(*MutationStep)

// WithTool selects an explicit tool adapter instead of auto-detection.
func WithTool(tool string) MutationStepOption {
	return func(s *MutationStep) {
		s.tool = tool
	}
}

// WithToolOptions sets the per-run tool configuration.
func WithToolOptions(opts mutation.ToolOptions) MutationStepOption {
	return func(s *MutationStep) {
		s.toolOpts = opts
	}
}

// WithTimeout bounds one full tool run.
func WithTimeout(timeout time.Duration) MutationStepOption {
	return func(s *MutationStep) {
		s.timeout = timeout
	}
}

// WithReportsDir enables saving the tool transcript into dir.
func WithReportsDir(dir string) MutationStepOption {
	return func(s *MutationStep) {
		s.reportsDir = dir
	}
}

// WithSample replaces the tool run with a bundled sample round.
func WithSample(label string) MutationStepOption {
	return func(s *MutationStep) {
		s.sample = label
	}
}

// WithMutationLogger sets a custom logger for the mutation step.
func WithMutationLogger(logger *slog.Logger) MutationStepOption {
	return func(s *MutationStep) {
		s.logger = logger
	}
}

// NewMutationStep creates a new mutation tool step.
func NewMutationStep(opts ...MutationStepOption) *MutationStep {
	s := &MutationStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *MutationStep) Name() string {
	return "mutation_run"
}

// Do executes the mutation tool step.
func (s *MutationStep) Do(ctx context.Context, report *model.RunReport) error {
	// Sample mode bypasses the tool entirely; the bundled round is
	// ingested directly so the rest of the pipeline runs unchanged.
	if s.sample != "" {
		mutants, err := mutation.Sample(s.sample)
		if err != nil {
			return err
		}
		report.Tool = "sample"
		report.Label = s.sample
		mutation.Ingest(report, mutants)
		s.logger.Info("loaded sample round",
			"sample", s.sample,
			"mutants", len(mutants),
		)
		return nil
	}

	adapter, err := mutation.SelectAdapter(report.Project, s.tool)
	if err != nil {
		return err
	}
	report.Tool = adapter.Name()

	argv := adapter.Command(s.toolOpts)
	if argv == nil {
		// Adapter has no execution phase; its results file is read as-is
		// by the results step.
		s.logger.Debug("adapter has no execution phase", "tool", adapter.Name())
		return nil
	}

	r := runner.New(report.Project)
	if s.timeout > 0 {
		r.Timeout = s.timeout
	}

	s.logger.Info("running mutation tool",
		"tool", adapter.Name(),
		"project", report.Project,
	)

	result, err := r.Run(ctx, argv, report.Project)
	if err != nil {
		return err
	}

	if s.reportsDir != "" {
		path, err := runner.SaveRawOutput(s.reportsDir, result)
		if err != nil {
			// A lost transcript is not worth failing the round over.
			report.AddError("failed to save tool transcript: " + err.Error())
		} else {
			report.RawOutputPath = path
		}
	}

	// Mutation tools conventionally exit non-zero when mutants survive, so
	// the exit code alone is not an error. The results step decides.
	s.logger.Debug("mutation tool finished",
		"tool", adapter.Name(),
		"exit_code", result.ExitCode,
		"duration", result.Duration,
	)

	return nil
}

// ResultsStep locates and parses the mutation tool's results file into the
// report.
type ResultsStep struct {
	// tool is the explicit adapter name, empty for auto-detection.
	tool string

	// toolOpts carries the per-run tool configuration, including any
	// results-path override.
	toolOpts mutation.ToolOptions

	// logger for structured logging.
	logger *slog.Logger
}

// ResultsStepOption configures a ResultsStep.
type ResultsStepOption func(*ResultsStep)

// WithResultsTool selects an explicit tool adapter instead of auto-detection.
func WithResultsTool(tool string) ResultsStepOption {
	return func(s *ResultsStep) {
		s.tool = tool
	}
}

// WithResultsToolOptions sets the per-run tool configuration.
func WithResultsToolOptions(opts mutation.ToolOptions) ResultsStepOption {
	return func(s *ResultsStep) {
		s.toolOpts = opts
	}
}

// WithResultsLogger sets a custom logger for the results step.
func WithResultsLogger(logger *slog.Logger) ResultsStepOption {
	return func(s *ResultsStep) {
		s.logger = logger
	}
}

// NewResultsStep creates a new results ingestion step.
func NewResultsStep(opts ...ResultsStepOption) *ResultsStep {
	s := &ResultsStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ResultsStep) Name() string {
	return "results_ingest"
}

// Do executes the results ingestion step.
func (s *ResultsStep) Do(ctx context.Context, report *model.RunReport) error {
	// Sample mode already ingested its mutants in the mutation step.
	if len(report.Mutants) > 0 {
		return nil
	}

	adapter, err := mutation.SelectAdapter(report.Project, s.tool)
	if err != nil {
		return err
	}

	mutants, err := mutation.ReadResults(adapter, report.Project, s.toolOpts)
	if err != nil {
		return err
	}
	mutation.Ingest(report, mutants)

	s.logger.Info("parsed tool results",
		"path", filepath.Join(report.Project, adapter.ResultsPath(s.toolOpts)),
		"mutants", len(mutants),
	)

	return nil
}

// SummarizeStep attaches the presentation summary to the report.
// It also counts the source files in scope so the summary can report
// coverage alongside the mutant metrics.
type SummarizeStep struct {
	// sourceDir narrows the counted files to a subdirectory of the target.
	sourceDir string

	// logger for structured logging.
	logger *slog.Logger
}

// SummarizeStepOption configures a SummarizeStep.
type SummarizeStepOption func(*SummarizeStep)

// WithSummarySourceDir narrows the counted files to dir within the target.
func WithSummarySourceDir(dir string) SummarizeStepOption {
	return func(s *SummarizeStep) {
		s.sourceDir = dir
	}
}

// WithSummarizeLogger sets a custom logger for the summarize step.
func WithSummarizeLogger(logger *slog.Logger) SummarizeStepOption {
	return func(s *SummarizeStep) {
		s.logger = logger
	}
}

// NewSummarizeStep creates a new summarize step.
func NewSummarizeStep(opts ...SummarizeStepOption) *SummarizeStep {
	s := &SummarizeStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *SummarizeStep) Name() string {
	return "summarize"
}

// Do executes the summarize step.
func (s *SummarizeStep) Do(ctx context.Context, report *model.RunReport) error {
	root := report.Project
	if s.sourceDir != "" {
		root = filepath.Join(root, s.sourceDir)
	}

	// File counting is best-effort context for the summary; a missing
	// source dir should not discard the mutant metrics.
	files, err := source.NewWalker(source.WithContent(false)).Walk(root)
	if err != nil {
		report.AddError("failed to count source files: " + err.Error())
	} else {
		report.SourceFiles = len(files)
	}

	report.Summary = model.NewRunSummary(report)

	s.logger.Debug("summarized round",
		"total", report.Total(),
		"detected", report.Detected(),
		"survived", report.Survived(),
		"risk", report.Summary.RiskText,
	)

	return nil
}

// PersistStep saves the completed report to the run history database.
type PersistStep struct {
	// store is the history database. Nil disables persistence.
	store *database.HistoryDB

	// logger for structured logging.
	logger *slog.Logger
}

// PersistStepOption configures a PersistStep.
type PersistStepOption func(*PersistStep)

// WithPersistLogger sets a custom logger for the persist step.
func WithPersistLogger(logger *slog.Logger) PersistStepOption {
	return func(s *PersistStep) {
		s.logger = logger
	}
}

// NewPersistStep creates a new persistence step writing to store.
// A nil store turns the step into a no-op, which keeps pipeline
// composition uniform when --no-save is set.
func NewPersistStep(store *database.HistoryDB, opts ...PersistStepOption) *PersistStep {
	s := &PersistStep{
		store:  store,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do executes the persistence step.
func (s *PersistStep) Do(ctx context.Context, report *model.RunReport) error {
	if s.store == nil {
		return nil
	}

	if err := s.store.SaveRunReport(ctx, report); err != nil {
		return err
	}

	s.logger.Info("saved run to history",
		"run_id", report.RunID,
		"project", report.Project,
	)

	return nil
}

// DefaultPipeline composes the standard round: run the tool, ingest its
// results, summarize, and persist.
func DefaultPipeline(store *database.HistoryDB, logger *slog.Logger, steps ...Step) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	p := New(
		WithLogger(logger),
		WithContinueOnError(false),
	)
	p.AddSteps(steps...)
	p.AddStep(NewSummarizeStep(WithSummarizeLogger(logger)))
	p.AddStep(NewPersistStep(store, WithPersistLogger(logger)))
	return p
}
