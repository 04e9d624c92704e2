package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/nao1215/gallerygen/internal/linkcheck"
	"github.com/nao1215/gallerygen/internal/model"
	"github.com/nao1215/gallerygen/internal/page"
	"github.com/nao1215/gallerygen/internal/source"
)

const testExport = `<works>
  <work>
    <filename>1.jpg</filename><image_width>10</image_width><image_height>10</image_height>
    <urls><url type="small">s1.jpg</url><url type="medium">m1.jpg</url><url type="large">l1.jpg</url></urls>
    <exif><make>NIKON CORPORATION</make><model>NIKON D80</model></exif>
  </work>
  <work>
    <filename>2.jpg</filename><image_width>10</image_width><image_height>10</image_height>
    <urls><url type="small">s2.jpg</url><url type="medium">m2.jpg</url><url type="large">l2.jpg</url></urls>
    <exif><make>Canon</make><model>EOS 5D</model></exif>
  </work>
  <work>
    <filename>3.jpg</filename><image_width>10</image_width><image_height>10</image_height>
    <urls><url type="small">s3.jpg</url><url type="large">l3.jpg</url></urls>
    <exif><make>Canon</make><model>EOS 7D</model></exif>
  </work>
</works>`

func writeExport(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "works.xml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write export: %v", err)
	}
	return path
}

// TestDefaultPipeline tests a complete generation run.
func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	t.Run("writes every page", func(t *testing.T) {
		t.Parallel()

		outDir := t.TempDir()
		p, err := DefaultPipeline(source.NewXMLSource(writeExport(t, testExport)), outDir, nil,
			WithPipelineConcurrency(2),
			WithPipelineSiteName("Test"),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expectedSteps := []string{StepLoad, StepRegister, StepRenderModels, StepRenderMakes, StepRenderIndex, StepVerifyLinks}
		if !slices.Equal(p.StepNames(), expectedSteps) {
			t.Errorf("got steps %v, expected %v", p.StepNames(), expectedSteps)
		}

		build := NewBuild(model.NewBuildReport("works.xml", outDir))
		if err := p.Execute(context.Background(), build); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		report := build.Report
		if report.ImageCount != 3 || report.MakeCount != 2 || report.ModelCount != 3 {
			t.Errorf("got %d images, %d makes, %d models", report.ImageCount, report.MakeCount, report.ModelCount)
		}

		expectedPages := []string{
			"model_nikon_corporation_nikon_d80.html",
			"model_canon_eos_5d.html",
			"model_canon_eos_7d.html",
			"make_nikon_corporation.html",
			"make_canon.html",
			"index.html",
		}
		if !slices.Equal(build.Written, expectedPages) {
			t.Errorf("got %v, expected %v", build.Written, expectedPages)
		}
		for _, name := range expectedPages {
			if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
				t.Errorf("expected %s to exist: %v", name, err)
			}
		}

		// 2 links per model page, 3 on make_canon, 2 on make_nikon, 2 on index
		if report.LinksChecked != 13 {
			t.Errorf("got %d checked links, expected 13", report.LinksChecked)
		}
		if !slices.Equal(report.PerformedSteps, expectedSteps) {
			t.Errorf("got performed steps %v", report.PerformedSteps)
		}

		makeCanon := report.Pages[4]
		if makeCanon.Kind != model.PageKindMake || makeCanon.NavigationLinks != 3 || makeCanon.Thumbnails != 2 {
			t.Errorf("unexpected make page record: %+v", makeCanon)
		}
		if makeCanon.Digest == "" || makeCanon.Bytes == 0 {
			t.Errorf("expected digest and size, got %+v", makeCanon)
		}
	})

	t.Run("skips link check", func(t *testing.T) {
		t.Parallel()

		p, err := DefaultPipeline(source.NewXMLSource("unused.xml"), t.TempDir(), nil, WithPipelineSkipLinkCheck(true))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if slices.Contains(p.StepNames(), StepVerifyLinks) {
			t.Error("expected verify_links to be skipped")
		}
	})

	t.Run("overwrites previous output", func(t *testing.T) {
		t.Parallel()

		outDir := t.TempDir()
		stale := filepath.Join(outDir, "index.html")
		if err := os.WriteFile(stale, []byte("stale"), 0o600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		p, err := DefaultPipeline(source.NewXMLSource(writeExport(t, testExport)), outDir, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := p.Execute(context.Background(), NewBuild(model.NewBuildReport("", outDir))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := os.ReadFile(stale) //nolint:gosec // test file
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}
		if !strings.Contains(string(got), "<html") {
			t.Error("expected index.html to be overwritten")
		}
	})
}

// TestDefaultPipelineFailures tests fail-fast behavior.
func TestDefaultPipelineFailures(t *testing.T) {
	t.Parallel()

	t.Run("malformed record aborts during load", func(t *testing.T) {
		t.Parallel()

		export := `<works><work><filename>a.jpg</filename></work></works>`
		outDir := t.TempDir()
		p, err := DefaultPipeline(source.NewXMLSource(writeExport(t, export)), outDir, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		build := NewBuild(model.NewBuildReport("", outDir))
		err = p.Execute(context.Background(), build)
		var malformed *model.MalformedRecordError
		if !errors.As(err, &malformed) {
			t.Fatalf("expected MalformedRecordError, got %v", err)
		}
		if malformed.Field != "image_width" {
			t.Errorf("got field %q, expected 'image_width'", malformed.Field)
		}
		if len(build.Written) != 0 {
			t.Errorf("expected no pages, got %v", build.Written)
		}
	})

	t.Run("missing small url aborts during render", func(t *testing.T) {
		t.Parallel()

		export := `<works><work>
<filename>a.jpg</filename><image_width>1</image_width><image_height>1</image_height>
<urls><url type="large">l.jpg</url></urls>
</work></works>`
		outDir := t.TempDir()
		p, err := DefaultPipeline(source.NewXMLSource(writeExport(t, export)), outDir, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		build := NewBuild(model.NewBuildReport("", outDir))
		err = p.Execute(context.Background(), build)
		var missing *model.MissingURLError
		if !errors.As(err, &missing) {
			t.Fatalf("expected MissingURLError, got %v", err)
		}
		if !slices.Equal(build.Report.PerformedSteps, []string{StepLoad, StepRegister}) {
			t.Errorf("got performed steps %v", build.Report.PerformedSteps)
		}
	})

	t.Run("filename collision aborts during register", func(t *testing.T) {
		t.Parallel()

		export := `<works>
<work><filename>a.jpg</filename><image_width>1</image_width><image_height>1</image_height><urls/><exif><make>Sony</make><model>A-7</model></exif></work>
<work><filename>b.jpg</filename><image_width>1</image_width><image_height>1</image_height><urls/><exif><make>Sony</make><model>A7</model></exif></work>
</works>`
		p, err := DefaultPipeline(source.NewXMLSource(writeExport(t, export)), t.TempDir(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		err = p.Execute(context.Background(), newTestBuild())
		var collision *page.FilenameCollisionError
		if !errors.As(err, &collision) {
			t.Errorf("expected FilenameCollisionError, got %v", err)
		}
	})
}

// TestRenderStepBeforeRegister tests that rendering requires a populated site.
func TestRenderStepBeforeRegister(t *testing.T) {
	t.Parallel()

	step := NewRenderStep(model.PageKindIndex, NewBatchRenderer(nil, nil, t.TempDir()))
	if err := step.Do(context.Background(), newTestBuild()); err == nil {
		t.Error("expected error when rendering before registration")
	}
}

// TestRenderStepName tests step names per page variant.
func TestRenderStepName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind     model.PageKind
		expected string
	}{
		{kind: model.PageKindModel, expected: StepRenderModels},
		{kind: model.PageKindMake, expected: StepRenderMakes},
		{kind: model.PageKindIndex, expected: StepRenderIndex},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()
			if got := NewRenderStep(tt.kind, nil).Name(); got != tt.expected {
				t.Errorf("got %q, expected %q", got, tt.expected)
			}
		})
	}
}

// TestVerifyLinksStep tests link verification failures.
func TestVerifyLinksStep(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(outDir, "index.html"), []byte(`<a href="make_x.html">x</a>`), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	build := newTestBuild()
	build.Written = []string{"index.html"}

	err := NewVerifyLinksStep(outDir).Do(context.Background(), build)
	var broken *linkcheck.BrokenLinkError
	if !errors.As(err, &broken) {
		t.Fatalf("expected BrokenLinkError, got %v", err)
	}
	if build.Report.LinksChecked != 1 {
		t.Errorf("got %d, expected 1", build.Report.LinksChecked)
	}
}
