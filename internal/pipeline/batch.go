package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/gallerygen/internal/model"
	"github.com/nao1215/gallerygen/internal/output"
	"github.com/nao1215/gallerygen/internal/page"
	"github.com/nao1215/gallerygen/internal/render"
)

// DefaultConcurrency is the number of pages rendered at the same time.
const DefaultConcurrency = 4

// BatchRenderer renders and writes a batch of page units concurrently.
// The units of a batch must not depend on each other's output, which holds
// for the units of one variant once the site has been populated.
type BatchRenderer struct {
	renderer render.Renderer
	writer   output.Writer

	// outputDir is the directory pages are written to.
	outputDir string

	// concurrency is the maximum number of pages in flight.
	concurrency int

	logger *slog.Logger
}

// BatchOption configures a BatchRenderer.
type BatchOption func(*BatchRenderer)

// WithBatchLogger sets a custom logger for batch rendering.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchRenderer) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of pages rendered at once.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchRenderer) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchRenderer creates a BatchRenderer writing into outputDir.
func NewBatchRenderer(renderer render.Renderer, writer output.Writer, outputDir string, opts ...BatchOption) *BatchRenderer {
	b := &BatchRenderer{
		renderer:    renderer,
		writer:      writer,
		outputDir:   outputDir,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// RenderAll renders and writes every unit. The returned records are in
// the order of units regardless of completion order. The first error
// cancels the remaining work and is returned.
func (b *BatchRenderer) RenderAll(ctx context.Context, units []page.Unit) ([]model.PageRecord, error) {
	b.logger.Debug("rendering batch",
		"pages", len(units),
		"concurrency", b.concurrency,
	)

	startTime := time.Now()
	records := make([]model.PageRecord, len(units))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, unit := range units {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			record, err := b.renderOne(ctx, unit)
			if err != nil {
				return err
			}
			records[i] = record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	b.logger.Debug("batch rendered",
		"pages", len(units),
		"duration", time.Since(startTime),
	)
	return records, nil
}

func (b *BatchRenderer) renderOne(ctx context.Context, unit page.Unit) (model.PageRecord, error) {
	data, err := b.renderer.Render(ctx, unit)
	if err != nil {
		return model.PageRecord{}, err
	}

	if err := b.writer.Write(filepath.Join(b.outputDir, unit.Filename()), data); err != nil {
		return model.PageRecord{}, err
	}

	nav, err := unit.Navigation()
	if err != nil {
		return model.PageRecord{}, err
	}

	b.logger.Debug("page written", "page", unit.Filename())
	return model.PageRecord{
		Kind:            unit.Kind(),
		Title:           unit.Title(),
		Filename:        unit.Filename(),
		NavigationLinks: len(nav),
		Thumbnails:      len(unit.Thumbnails()),
		Bytes:           len(data),
		Digest:          output.Digest(data),
	}, nil
}
