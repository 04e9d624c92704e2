package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/gallerygen/internal/config"
	"github.com/nao1215/gallerygen/internal/database"
)

const nikonWork = `<work>
      <id>1</id>
      <filename>162042.jpg</filename>
      <image_width>2048</image_width>
      <image_height>1536</image_height>
      <urls>
        <url type="small">https://img.example.com/small/162042.jpg</url>
        <url type="medium">https://img.example.com/medium/162042.jpg</url>
        <url type="large">https://img.example.com/large/162042.jpg</url>
      </urls>
      <exif>
        <model>NIKON D80</model>
        <make>NIKON CORPORATION</make>
      </exif>
    </work>`

const canonWork = `<work>
      <id>2</id>
      <filename>99.jpg</filename>
      <image_width>1024</image_width>
      <image_height>768</image_height>
      <urls>
        <url type="small">https://img.example.com/small/99.jpg</url>
        <url type="medium">https://img.example.com/medium/99.jpg</url>
        <url type="large">https://img.example.com/large/99.jpg</url>
      </urls>
      <exif>
        <model>Canon EOS 5D</model>
        <make>Canon</make>
      </exif>
    </work>`

// writeWorks writes an XML export containing the given works.
func writeWorks(t *testing.T, path string, works ...string) {
	t.Helper()

	content := "<response><works>" + strings.Join(works, "\n") + "</works></response>"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

// generateEnv is a scratch layout for one generate run.
type generateEnv struct {
	input  string
	output string
	dbDir  string
	config string
}

func newGenerateEnv(t *testing.T, configContent string) generateEnv {
	t.Helper()

	dir := t.TempDir()
	env := generateEnv{
		input:  filepath.Join(dir, "works.xml"),
		output: filepath.Join(dir, "public"),
		dbDir:  filepath.Join(dir, "db"),
		config: filepath.Join(dir, "gallerygen.yaml"),
	}
	if err := os.Mkdir(env.output, 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(env.config, []byte(configContent), 0600); err != nil {
		t.Fatal(err)
	}
	return env
}

// executeRoot runs the root command with args and returns stdout, stderr
// and the error.
func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// TestNewGenerateCmd tests the generate command flags.
func TestNewGenerateCmd(t *testing.T) {
	t.Parallel()

	cmd := NewGenerateCmd()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{name: "source", shorthand: "s", defValue: "xml"},
		{name: "thumbnails", shorthand: "n", defValue: "10"},
		{name: "json", shorthand: "j", defValue: "false"},
		{name: "markdown", shorthand: "m", defValue: "false"},
		{name: "output", shorthand: "o", defValue: ""},
		{name: "config", shorthand: "c", defValue: ""},
		{name: "concurrency", defValue: "4"},
		{name: "site-name", defValue: config.DefaultSiteName},
		{name: "skip-link-check", defValue: "false"},
		{name: "no-history", defValue: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("got shorthand %q, expected %q", flag.Shorthand, tt.shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("got default %q, expected %q", flag.DefValue, tt.defValue)
			}
		})
	}
}

// TestGenerate_EndToEnd tests a full generate run from an XML export.
func TestGenerate_EndToEnd(t *testing.T) {
	t.Parallel()

	env := newGenerateEnv(t, "defaults:\n  siteName: \"Camera Archive\"\n")
	writeWorks(t, env.input, nikonWork, canonWork)

	stdout, stderr, err := executeRoot(t,
		"generate", "--db-dir", env.dbDir, "-c", env.config, "--json", env.input, env.output)
	if err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr)
	}

	t.Run("writes every page", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{
			"index.html",
			"make_nikon_corporation.html",
			"make_canon.html",
			"model_nikon_corporation_nikon_d80.html",
			"model_canon_canon_eos_5d.html",
		} {
			if _, err := os.Stat(filepath.Join(env.output, name)); err != nil {
				t.Errorf("expected %s to exist: %v", name, err)
			}
		}
	})

	t.Run("site name comes from the config file", func(t *testing.T) {
		t.Parallel()

		content, err := os.ReadFile(filepath.Join(env.output, "index.html"))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(content), "Camera Archive") {
			t.Errorf("expected site name in index.html, got:\n%s", content)
		}
	})

	t.Run("releases the output lock", func(t *testing.T) {
		t.Parallel()

		if _, err := os.Stat(filepath.Join(env.output, ".gallerygen.lock")); !os.IsNotExist(err) {
			t.Errorf("expected lock file to be removed, got %v", err)
		}
	})

	t.Run("prints a JSON report", func(t *testing.T) {
		t.Parallel()

		var decoded map[string]any
		if err := json.Unmarshal([]byte(stdout), &decoded); err != nil {
			t.Fatalf("report is not valid JSON: %v\n%s", err, stdout)
		}
		if !strings.Contains(stdout, "model_canon_canon_eos_5d.html") {
			t.Errorf("expected report to list pages, got:\n%s", stdout)
		}
	})

	t.Run("saves the build to history", func(t *testing.T) {
		t.Parallel()

		db, err := database.Open(env.dbDir, database.DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		defer db.Close()

		latest, err := db.GetLatestBuildReport(t.Context(), env.output)
		if err != nil {
			t.Fatal(err)
		}
		if latest == nil {
			t.Fatal("expected a saved build")
		}
		if latest.ImageCount != 2 || latest.MakeCount != 2 || latest.ModelCount != 2 {
			t.Errorf("got images=%d makes=%d models=%d, expected 2/2/2",
				latest.ImageCount, latest.MakeCount, latest.ModelCount)
		}
		if len(latest.Pages) != 5 {
			t.Errorf("got %d pages, expected 5", len(latest.Pages))
		}
	})
}

// TestGenerate_NoHistory tests that --no-history leaves the database alone.
func TestGenerate_NoHistory(t *testing.T) {
	t.Parallel()

	env := newGenerateEnv(t, "")
	writeWorks(t, env.input, nikonWork)

	_, stderr, err := executeRoot(t,
		"generate", "--no-history", "--db-dir", env.dbDir, "-c", env.config, env.input, env.output)
	if err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr)
	}

	if _, err := os.Stat(filepath.Join(env.dbDir, database.Filename)); !os.IsNotExist(err) {
		t.Errorf("expected no database file, got %v", err)
	}
}

// TestGenerate_ReportFile tests writing a Markdown report to a file.
func TestGenerate_ReportFile(t *testing.T) {
	t.Parallel()

	env := newGenerateEnv(t, "")
	writeWorks(t, env.input, nikonWork)
	reportPath := filepath.Join(filepath.Dir(env.input), "reports", "build.md")

	stdout, stderr, err := executeRoot(t,
		"generate", "--no-history", "-c", env.config, "-m", "-o", reportPath, env.input, env.output)
	if err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr)
	}
	if stdout != "" {
		t.Errorf("expected nothing on stdout, got %q", stdout)
	}

	content, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(content), "# ") {
		t.Errorf("expected Markdown heading, got:\n%s", content)
	}
}

// TestGenerate_Errors tests argument and input validation.
func TestGenerate_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()

		env := newGenerateEnv(t, "")
		_, _, err := executeRoot(t,
			"generate", "--no-history", "-c", env.config, env.input, env.output)
		if err == nil || !strings.Contains(err.Error(), "cannot read input") {
			t.Errorf("expected 'cannot read input' error, got %v", err)
		}
	})

	t.Run("output directory does not exist", func(t *testing.T) {
		t.Parallel()

		env := newGenerateEnv(t, "")
		writeWorks(t, env.input, nikonWork)
		_, _, err := executeRoot(t,
			"generate", "--no-history", "-c", env.config, env.input, filepath.Join(env.output, "missing"))
		if err == nil {
			t.Error("expected error for missing output directory")
		}
	})

	t.Run("conflicting report formats", func(t *testing.T) {
		t.Parallel()

		env := newGenerateEnv(t, "")
		writeWorks(t, env.input, nikonWork)
		_, _, err := executeRoot(t,
			"generate", "--no-history", "-c", env.config, "--json", "--markdown", env.input, env.output)
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("got %v, expected ErrConflictingReportFormats", err)
		}
	})

	t.Run("exif source needs a directory", func(t *testing.T) {
		t.Parallel()

		env := newGenerateEnv(t, "")
		writeWorks(t, env.input, nikonWork)
		_, _, err := executeRoot(t,
			"generate", "--no-history", "-c", env.config, "-s", "exif", env.input, env.output)
		if err == nil || !strings.Contains(err.Error(), "must be a directory") {
			t.Errorf("expected 'must be a directory' error, got %v", err)
		}
	})

	t.Run("unknown source kind", func(t *testing.T) {
		t.Parallel()

		env := newGenerateEnv(t, "")
		writeWorks(t, env.input, nikonWork)
		_, _, err := executeRoot(t,
			"generate", "--no-history", "-c", env.config, "-s", "flickr", env.input, env.output)
		if !errors.Is(err, config.ErrUnknownSourceKind) {
			t.Errorf("got %v, expected ErrUnknownSourceKind", err)
		}
	})

	t.Run("named config file must exist", func(t *testing.T) {
		t.Parallel()

		env := newGenerateEnv(t, "")
		writeWorks(t, env.input, nikonWork)
		_, _, err := executeRoot(t,
			"generate", "--no-history", "-c", env.config+".missing", env.input, env.output)
		if err == nil || !strings.Contains(err.Error(), "configuration file not found") {
			t.Errorf("expected 'configuration file not found' error, got %v", err)
		}
	})

	t.Run("wrong number of arguments", func(t *testing.T) {
		t.Parallel()

		_, _, err := executeRoot(t, "generate", "only-one")
		if err == nil {
			t.Error("expected error for a single argument")
		}
	})
}

// TestBuildConfig_FlagsOverrideConfigFile tests that explicitly set flags
// win over config file values while unset flags take the file's values.
func TestBuildConfig_FlagsOverrideConfigFile(t *testing.T) {
	t.Parallel()

	env := newGenerateEnv(t, "defaults:\n  siteName: \"From File\"\n  thumbnails: 3\n  concurrency: 2\n")

	cmd := NewGenerateCmd()
	if err := cmd.Flags().Parse([]string{"-c", env.config, "-n", "7"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := buildConfig(cmd, []string{env.input, env.output})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ThumbnailLimit != 7 {
		t.Errorf("got thumbnail limit %d, expected 7 from the flag", cfg.ThumbnailLimit)
	}
	if cfg.SiteName != "From File" {
		t.Errorf("got site name %q, expected 'From File'", cfg.SiteName)
	}
	if cfg.Concurrency != 2 {
		t.Errorf("got concurrency %d, expected 2", cfg.Concurrency)
	}
	if !filepath.IsAbs(cfg.InputPath) || !filepath.IsAbs(cfg.OutputDir) {
		t.Errorf("expected absolute paths, got %q and %q", cfg.InputPath, cfg.OutputDir)
	}
	if !cfg.SaveToDB {
		t.Error("expected SaveToDB by default")
	}
}
