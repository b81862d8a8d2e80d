package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"mutbench/internal/model"
	"mutbench/internal/source"
)

// DefaultAnalyzerLabel names the built-in pattern analysis. The label is
// recorded on every report so a future model-backed analysis can be told
// apart from the heuristic one.
const DefaultAnalyzerLabel = "pattern-heuristic-v1"

// DefaultConcurrency is the number of files analyzed simultaneously.
const DefaultConcurrency = 4

// Suggester coordinates the analyzers over a source tree.
//
// Design decision: We use a coordinator pattern rather than running
// analyzers independently because:
//  1. All analyzers share one walk over the tree
//  2. Deduplication and ordering happen in one place
//  3. Consistent context and cancellation handling
type Suggester struct {
	// analyzers is the list of analyzers to run per file.
	analyzers []Analyzer

	// label is the recorded analysis label.
	label string

	// concurrency is the number of files analyzed in parallel.
	concurrency int

	// maxPerFile caps suggestions per file; 0 means no cap.
	maxPerFile int

	// walkOptions configures source discovery.
	walkOptions []source.WalkerOption

	// logger is used for per-file progress logging.
	logger *slog.Logger
}

// Option configures a Suggester.
type Option func(*Suggester)

// WithAnalyzers replaces the built-in analyzer set.
func WithAnalyzers(analyzers ...Analyzer) Option {
	return func(s *Suggester) {
		s.analyzers = analyzers
	}
}

// WithAnalyzerLabel sets the recorded analysis label.
func WithAnalyzerLabel(label string) Option {
	return func(s *Suggester) {
		if label != "" {
			s.label = label
		}
	}
}

// WithConcurrency sets how many files are analyzed in parallel.
func WithConcurrency(n int) Option {
	return func(s *Suggester) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithMaxPerFile caps the number of suggestions kept per file.
// The cap keeps a dense arithmetic-heavy file from drowning the rest of
// the report.
func WithMaxPerFile(n int) Option {
	return func(s *Suggester) {
		if n > 0 {
			s.maxPerFile = n
		}
	}
}

// WithWalkOptions sets the source-discovery options.
func WithWalkOptions(opts ...source.WalkerOption) Option {
	return func(s *Suggester) {
		s.walkOptions = opts
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Suggester) {
		s.logger = logger
	}
}

// New creates a Suggester with the built-in analyzers.
func New(opts ...Option) *Suggester {
	s := &Suggester{
		analyzers:   DefaultAnalyzers(),
		label:       DefaultAnalyzerLabel,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Run walks the tree under root, analyzes every discovered file, and
// aggregates the suggestion report. Files are analyzed concurrently under
// the configured limit; per-file failures are recorded as non-fatal report
// errors so one unreadable file cannot discard the pass.
func (s *Suggester) Run(ctx context.Context, runID, root string) (*model.SuggestionReport, error) {
	files, err := source.NewWalker(s.walkOptions...).Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to discover source files: %w", err)
	}

	report := model.NewSuggestionReport(runID, root, s.label)

	s.logger.Debug("analyzing source files",
		"root", root,
		"files", len(files),
		"analyzers", len(s.analyzers),
	)

	// Per-file results are collected under a mutex and merged after the
	// group finishes so the report itself is never shared across
	// goroutines.
	type fileResult struct {
		file        source.File
		suggestions []model.Suggestion
	}

	var (
		mu      sync.Mutex
		results = make([]fileResult, 0, len(files))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, file := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			suggestions := s.analyzeFile(gctx, file)

			mu.Lock()
			results = append(results, fileResult{file: file, suggestions: suggestions})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	// Merge in path order for deterministic output.
	sort.Slice(results, func(i, j int) bool {
		return results[i].file.RelPath < results[j].file.RelPath
	})

	for _, res := range results {
		report.FilesAnalyzed = append(report.FilesAnalyzed, res.file.RelPath)

		categories := make(map[string]bool)
		for _, sug := range res.suggestions {
			report.AddSuggestion(sug)
			categories[sug.Category] = true
		}

		// One skeleton per category found in the file, in stable order.
		names := make([]string, 0, len(categories))
		for category := range categories {
			names = append(names, category)
		}
		sort.Strings(names)
		for _, category := range names {
			report.GeneratedTests = append(report.GeneratedTests, GenerateTestSkeleton(res.file, category))
		}
	}

	report.Finalize()
	return report, nil
}

// analyzeFile runs every analyzer over one file and applies the per-file
// cap in suggestion order (line, then category).
func (s *Suggester) analyzeFile(ctx context.Context, file source.File) []model.Suggestion {
	var suggestions []model.Suggestion
	for _, analyzer := range s.analyzers {
		suggestions = append(suggestions, analyzer.Analyze(ctx, file)...)
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Line != suggestions[j].Line {
			return suggestions[i].Line < suggestions[j].Line
		}
		return suggestions[i].Category < suggestions[j].Category
	})

	if s.maxPerFile > 0 && len(suggestions) > s.maxPerFile {
		suggestions = suggestions[:s.maxPerFile]
	}
	return suggestions
}
