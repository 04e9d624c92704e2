package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/gallerygen/internal/linkcheck"
	"github.com/nao1215/gallerygen/internal/model"
	"github.com/nao1215/gallerygen/internal/output"
	"github.com/nao1215/gallerygen/internal/page"
	"github.com/nao1215/gallerygen/internal/render"
	"github.com/nao1215/gallerygen/internal/source"
)

// Step names as recorded in BuildReport.PerformedSteps.
const (
	StepLoad         = "load"
	StepRegister     = "register"
	StepRenderModels = "render_models"
	StepRenderMakes  = "render_makes"
	StepRenderIndex  = "render_index"
	StepVerifyLinks  = "verify_links"
)

// LoadStep reads every work from a record source into the image index.
type LoadStep struct {
	source source.Source
	logger *slog.Logger
}

// NewLoadStep creates a step reading from src.
func NewLoadStep(src source.Source, logger *slog.Logger) *LoadStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadStep{source: src, logger: logger}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return StepLoad
}

// Do reads the works and appends one image per work, in source order.
func (s *LoadStep) Do(ctx context.Context, build *Build) error {
	works, err := s.source.Works(ctx)
	if err != nil {
		return fmt.Errorf("failed to read works from %s: %w", s.source.Name(), err)
	}

	idx := build.Site.ImageIndex()
	for i, work := range works {
		img, err := model.NewImage(i, work)
		if err != nil {
			return err
		}
		if err := idx.Append(img); err != nil {
			return err
		}
	}

	build.Report.ImageCount = idx.Len()
	s.logger.Debug("works loaded", "source", s.source.Name(), "images", idx.Len())
	return nil
}

// RegisterStep registers the make and model pages and freezes the site.
type RegisterStep struct{}

// NewRegisterStep creates a RegisterStep.
func NewRegisterStep() *RegisterStep {
	return &RegisterStep{}
}

// Name returns the step name.
func (s *RegisterStep) Name() string {
	return StepRegister
}

// Do populates the site registry.
func (s *RegisterStep) Do(_ context.Context, build *Build) error {
	if err := build.Site.Populate(); err != nil {
		return err
	}
	reg := build.Site.Registry()
	build.Report.MakeCount = len(reg.Makes())
	build.Report.ModelCount = len(reg.Models())
	return nil
}

// RenderStep renders and writes every unit of one page variant.
// Model pages must be rendered before make pages, and make pages before
// the index page; DefaultPipeline adds the steps in that order.
type RenderStep struct {
	kind  model.PageKind
	batch *BatchRenderer
}

// NewRenderStep creates a step rendering the pages of kind with batch.
func NewRenderStep(kind model.PageKind, batch *BatchRenderer) *RenderStep {
	return &RenderStep{kind: kind, batch: batch}
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	switch s.kind {
	case model.PageKindModel:
		return StepRenderModels
	case model.PageKindMake:
		return StepRenderMakes
	default:
		return StepRenderIndex
	}
}

// Do renders the units and records the written pages.
func (s *RenderStep) Do(ctx context.Context, build *Build) error {
	units, err := s.units(build.Site)
	if err != nil {
		return err
	}

	records, err := s.batch.RenderAll(ctx, units)
	if err != nil {
		return err
	}

	build.Report.AddPages(records...)
	for _, r := range records {
		build.Written = append(build.Written, r.Filename)
	}
	return nil
}

func (s *RenderStep) units(site *page.Site) ([]page.Unit, error) {
	reg := site.Registry()
	if !reg.Frozen() {
		return nil, fmt.Errorf("cannot render %s pages before registration", s.kind)
	}

	switch s.kind {
	case model.PageKindModel:
		models := reg.Models()
		units := make([]page.Unit, len(models))
		for i, u := range models {
			units[i] = u
		}
		return units, nil
	case model.PageKindMake:
		makes := reg.Makes()
		units := make([]page.Unit, len(makes))
		for i, u := range makes {
			units[i] = u
		}
		return units, nil
	default:
		return []page.Unit{site.Index()}, nil
	}
}

// VerifyLinksStep checks every local link of the written pages.
type VerifyLinksStep struct {
	outputDir string
}

// NewVerifyLinksStep creates a step verifying the pages in outputDir.
func NewVerifyLinksStep(outputDir string) *VerifyLinksStep {
	return &VerifyLinksStep{outputDir: outputDir}
}

// Name returns the step name.
func (s *VerifyLinksStep) Name() string {
	return StepVerifyLinks
}

// Do verifies the links and records how many were checked.
func (s *VerifyLinksStep) Do(ctx context.Context, build *Build) error {
	checked, err := linkcheck.Verify(ctx, s.outputDir, build.Written)
	build.Report.LinksChecked = checked
	if err != nil {
		return fmt.Errorf("link verification failed: %w", err)
	}
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// Concurrency is the number of pages rendered at the same time.
	Concurrency int

	// SkipLinkCheck disables the verify_links step.
	SkipLinkCheck bool

	// SiteName is shown in every page title.
	SiteName string

	// Renderer overrides the HTML renderer.
	Renderer render.Renderer

	// Writer overrides the file writer.
	Writer output.Writer
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineConcurrency sets the render concurrency.
func WithPipelineConcurrency(n int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Concurrency = n
	}
}

// WithPipelineSkipLinkCheck disables link verification.
func WithPipelineSkipLinkCheck(skip bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.SkipLinkCheck = skip
	}
}

// WithPipelineSiteName sets the site name used by the HTML renderer.
func WithPipelineSiteName(name string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.SiteName = name
	}
}

// WithPipelineRenderer replaces the HTML renderer.
func WithPipelineRenderer(r render.Renderer) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Renderer = r
	}
}

// WithPipelineWriter replaces the file writer.
func WithPipelineWriter(w output.Writer) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Writer = w
	}
}

// DefaultPipeline creates the generation pipeline: load, register, render
// models, render makes, render index and, unless disabled, verify links.
//
// The first variadic parameter accepts pipeline options (WithLogger, etc).
// The second accepts pipeline config options (WithPipelineConcurrency, etc).
func DefaultPipeline(src source.Source, outputDir string, pipelineOpts []Option, configOpts ...DefaultPipelineOption) (*Pipeline, error) {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		Concurrency: DefaultConcurrency,
		SiteName:    render.DefaultSiteName,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	if cfg.Renderer == nil {
		r, err := render.NewHTMLRenderer(render.WithSiteName(cfg.SiteName))
		if err != nil {
			return nil, err
		}
		cfg.Renderer = r
	}
	if cfg.Writer == nil {
		cfg.Writer = output.NewFileWriter()
	}

	batch := NewBatchRenderer(cfg.Renderer, cfg.Writer, outputDir,
		WithConcurrency(cfg.Concurrency),
		WithBatchLogger(p.logger),
	)

	p.AddSteps(
		NewLoadStep(src, p.logger),
		NewRegisterStep(),
		NewRenderStep(model.PageKindModel, batch),
		NewRenderStep(model.PageKindMake, batch),
		NewRenderStep(model.PageKindIndex, batch),
	)
	if !cfg.SkipLinkCheck {
		p.AddStep(NewVerifyLinksStep(outputDir))
	}

	return p, nil
}
