package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/gallerygen/internal/model"
	"github.com/nao1215/gallerygen/internal/page"
)

// Build is the state shared by the steps of one generation run.
type Build struct {
	// Report collects the results of every step.
	Report *model.BuildReport

	// Site owns the image index and the page registry of the run.
	Site *page.Site

	// Written lists the file names of the pages written so far, in order.
	Written []string
}

// NewBuild creates the state of a run with an empty image index.
func NewBuild(report *model.BuildReport, siteOpts ...page.Option) *Build {
	return &Build{
		Report:  report,
		Site:    page.NewSite(model.NewIndex(), siteOpts...),
		Written: make([]string, 0),
	}
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, and each one relies on the state the
// previous steps left in the Build.
type Step interface {
	// Do executes the pipeline step. Any returned error aborts the run.
	Do(ctx context.Context, build *Build) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// Execution is fail-fast: the first failing step ends the run, and pages
// written before the failure are left in place.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
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

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// Cancellation is checked before each step; steps that do long work check
// the context themselves. The error of the failing step is returned and
// recorded in the build report.
func (p *Pipeline) Execute(ctx context.Context, build *Build) error {
	report := build.Report

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			report.Cancelled = true
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"output", report.OutputDir,
		)

		if err := step.Do(ctx, build); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"output", report.OutputDir,
				"error", err,
			)

			report.Error = err
			report.ErrorMessage = err.Error()
			if ctx.Err() != nil {
				report.Cancelled = true
			}
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"output", report.OutputDir,
		)
		report.PerformedSteps = append(report.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
