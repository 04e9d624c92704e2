package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/nao1215/gallerygen/internal/model"
	"github.com/nao1215/gallerygen/internal/page"
)

//go:embed templates/page.html.tmpl
var templateFS embed.FS

// DefaultSiteName is shown next to every page title.
const DefaultSiteName = "Photo Gallery"

// unsafeURL replaces URLs with a scheme that must not end up in a page.
// It is the value html/template itself uses for rejected URLs.
const unsafeURL = "#ZgotmplZ"

// Renderer turns a page unit into markup.
type Renderer interface {
	Render(ctx context.Context, unit page.Unit) ([]byte, error)
}

// HTMLRenderer renders every page variant with one fixed HTML template.
// It is safe for concurrent use.
type HTMLRenderer struct {
	tmpl     *template.Template
	siteName string
}

var _ Renderer = (*HTMLRenderer)(nil)

// Option is a function that configures an HTMLRenderer.
type Option func(*HTMLRenderer)

// WithSiteName sets the site name shown in page titles.
func WithSiteName(name string) Option {
	return func(r *HTMLRenderer) {
		if name != "" {
			r.siteName = name
		}
	}
}

// NewHTMLRenderer parses the embedded page template.
func NewHTMLRenderer(opts ...Option) (*HTMLRenderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/page.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	r := &HTMLRenderer{tmpl: tmpl, siteName: DefaultSiteName}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// pageView is the data the template is executed with.
type pageView struct {
	SiteName   string
	Title      string
	Navigation []page.Link
	Thumbnails []thumbnailView
}

type thumbnailView struct {
	Filename string
	Width    string
	Height   string
	Make     string
	Model    string
	Small    template.URL
	Large    template.URL
}

// Component returns the page of unit as a templ component.
// Navigation and image URLs are resolved before the component is returned,
// so a *page.MakeNotFoundError or *model.MissingURLError is reported here
// rather than halfway through writing markup.
func (r *HTMLRenderer) Component(unit page.Unit) (templ.Component, error) {
	view, err := r.view(unit)
	if err != nil {
		return nil, err
	}
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return r.tmpl.Execute(w, view)
	}), nil
}

// Render renders unit into a byte slice.
func (r *HTMLRenderer) Render(ctx context.Context, unit page.Unit) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmp, err := r.Component(unit)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare %s: %w", unit.Filename(), err)
	}

	var buf bytes.Buffer
	if err := cmp.Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", unit.Filename(), err)
	}
	return buf.Bytes(), nil
}

func (r *HTMLRenderer) view(unit page.Unit) (pageView, error) {
	nav, err := unit.Navigation()
	if err != nil {
		return pageView{}, err
	}

	images := unit.Thumbnails()
	thumbs := make([]thumbnailView, 0, len(images))
	for _, img := range images {
		thumb, err := newThumbnailView(img)
		if err != nil {
			return pageView{}, err
		}
		thumbs = append(thumbs, thumb)
	}

	return pageView{
		SiteName:   r.siteName,
		Title:      unit.Title(),
		Navigation: nav,
		Thumbnails: thumbs,
	}, nil
}

func newThumbnailView(img *model.Image) (thumbnailView, error) {
	small, err := img.URL(model.SizeSmall)
	if err != nil {
		return thumbnailView{}, err
	}
	large, err := img.URL(model.SizeLarge)
	if err != nil {
		return thumbnailView{}, err
	}
	return thumbnailView{
		Filename: img.Filename(),
		Width:    img.Width(),
		Height:   img.Height(),
		Make:     img.Make(),
		Model:    img.Model(),
		Small:    imageURL(small),
		Large:    imageURL(large),
	}, nil
}

// imageURL marks an image URL as safe for src/href attributes.
// Only relative, http, https and file URLs are kept.
func imageURL(raw string) template.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return unsafeURL
	}
	switch u.Scheme {
	case "", "http", "https", "file":
		return template.URL(raw) //nolint:gosec // scheme checked above
	default:
		return unsafeURL
	}
}
