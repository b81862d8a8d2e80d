package pipeline

import (
	"context"
	"log/slog"

	"mutbench/internal/model"
)

// Step is one phase of a mutation round. Steps run in order and mutate the
// shared report as the round progresses: the mutation step fills in raw
// tool output, the results step turns it into mutant records, and so on.
//
// Design decision: Steps are an interface rather than plain functions
// because:
// 1. Each step carries its own configuration (tool, timeout, directories)
// 2. Name() gives logs and recorded errors a stable step identity
// 3. New phases slot in without touching the executor
type Step interface {
	// Do runs the phase against the report. A returned error aborts the
	// round (subject to the pipeline's error policy); problems the round
	// can survive should be recorded on the report instead.
	Do(ctx context.Context, report *model.RunReport) error

	// Name identifies the step in logs and recorded errors.
	Name() string
}

// Pipeline runs the phases of one round in sequence.
type Pipeline struct {
	// steps in execution order.
	steps []Step

	// logger receives per-step progress.
	logger *slog.Logger

	// continueOnError keeps later phases running after a failure.
	// The default is to stop: a failed tool run leaves nothing for the
	// later phases to work on.
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for step progress.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps the round going after a failed phase.
//
// Design decision: Some phase failures leave a report worth keeping. When
// the history database cannot be opened, the round's results still exist
// and can be rendered; stopping would throw them away. The option stays
// off by default because the common failure is the first phase (tool not
// installed), after which nothing downstream can succeed.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty pipeline. Add phases with AddStep.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends one phase. Phases run in insertion order.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends several phases at once.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every phase of the round against the report.
//
// Cancellation is checked between phases, not during: a phase owns its own
// timeout handling (the tool run in particular), and checking between
// phases lets each one finish its cleanup before the round stops.
//
// With the default error policy the first failing phase aborts the round
// and its error is returned; with continueOnError every phase runs and
// failures are only recorded on the report.
func (p *Pipeline) Execute(ctx context.Context, report *model.RunReport) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("round cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			report.AddError("round cancelled before " + step.Name())
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"project", report.Project,
		)

		err := step.Do(ctx, report)
		if err == nil {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"project", report.Project,
			)
			continue
		}

		p.logger.Error("step failed",
			"step", step.Name(),
			"project", report.Project,
			"error", err,
		)
		report.AddError(step.Name() + ": " + err.Error())

		if !p.continueOnError {
			return err
		}
	}

	return nil
}

// StepCount returns the number of phases.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the phase names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
