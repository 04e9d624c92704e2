package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/gallerygen/internal/config"
	"github.com/nao1215/gallerygen/internal/database"
	"github.com/nao1215/gallerygen/internal/log"
	"github.com/nao1215/gallerygen/internal/model"
	"github.com/nao1215/gallerygen/internal/output"
	"github.com/nao1215/gallerygen/internal/page"
	"github.com/nao1215/gallerygen/internal/pipeline"
	"github.com/nao1215/gallerygen/internal/report"
	"github.com/nao1215/gallerygen/internal/source"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <input> <output-dir>",
		Short: "Generate the gallery pages",
		Long: `Generate reads the image records and writes the gallery into an existing directory.

Pages written:
- index.html with links to every camera make and the first thumbnails
- make_<make>.html per camera make, linking to its models
- model_<make>_<model>.html per make/model pair with every image

Existing pages with the same names are overwritten. The output directory
must already exist and is locked while generation runs.

Examples:
  # Generate from an XML export
  gallerygen generate works.xml ./public

  # Generate from a directory of JPEG files, linking images via a CDN
  gallerygen generate --source exif --base-url https://cdn.example.com ./photos ./public

  # Show 20 thumbnails and write a Markdown build report
  gallerygen generate -n 20 --markdown -o build.md works.xml ./public`,
		Args: cobra.ExactArgs(2),
		RunE: runGenerateCmd,
	}

	// Source flags
	cmd.Flags().StringP("source", "s", config.DefaultSourceKind,
		`Record source: "xml" (export file) or "exif" (directory of JPEG files)`)
	cmd.Flags().String("base-url", "",
		"URL prefix for images read with --source exif (default: file:// URLs)")

	// Generation flags
	cmd.Flags().IntP("thumbnails", "n", config.DefaultThumbnailLimit,
		"Number of thumbnails on the index and make pages")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Number of pages rendered in parallel")
	cmd.Flags().String("site-name", config.DefaultSiteName,
		"Site name appended to page titles")
	cmd.Flags().Bool("skip-link-check", false,
		"Do not verify navigation links after writing")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: ./.gallerygen, $XDG_CONFIG_HOME/gallerygen/config.yaml or ~/.gallerygen)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON build report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown build report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the build report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not save the build report to the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runGenerateCmd executes the generate command.
func runGenerateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if err := checkPaths(cfg); err != nil {
		return err
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runGenerate(ctx, cfg, logger, cmd.OutOrStdout())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the config file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if len(args) == 2 {
		if cfg.InputPath, err = filepath.Abs(args[0]); err != nil {
			return nil, fmt.Errorf("invalid input path: %w", err)
		}
		if cfg.OutputDir, err = filepath.Abs(args[1]); err != nil {
			return nil, fmt.Errorf("invalid output directory: %w", err)
		}
	}

	if cfg.SourceKind, err = flags.GetString("source"); err != nil {
		return nil, err
	}
	if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
		return nil, err
	}
	if cfg.ThumbnailLimit, err = flags.GetInt("thumbnails"); err != nil {
		return nil, err
	}
	if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
		return nil, err
	}
	if cfg.SiteName, err = flags.GetString("site-name"); err != nil {
		return nil, err
	}
	if cfg.SkipLinkCheck, err = flags.GetBool("skip-link-check"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}
	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory
	cfg.Verbose = getVerboseFlag(cmd)

	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}

	// An explicitly named config file must exist; the default search may
	// come up empty.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	overridden := make(map[string]bool)
	for _, name := range []string{"site-name", "thumbnails", "concurrency", "skip-link-check", "base-url"} {
		overridden[name] = flags.Changed(name)
	}
	cfg.ApplySiteConfig(overridden)

	return cfg, nil
}

// checkPaths verifies the input and output locations before any work starts.
func checkPaths(cfg *config.Config) error {
	info, err := os.Stat(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("cannot read input: %w", err)
	}

	switch cfg.SourceKind {
	case source.KindEXIF:
		if !info.IsDir() {
			return fmt.Errorf("input %s must be a directory with --source exif", cfg.InputPath)
		}
	default:
		if !info.Mode().IsRegular() {
			return fmt.Errorf("input %s is not a regular file", cfg.InputPath)
		}
	}

	return output.CheckDir(cfg.OutputDir)
}

// runGenerate locks the output directory, runs the pipeline and reports
// the result. The build report is written and saved even when the run
// fails, so partial builds show up in the history.
func runGenerate(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	lock, err := output.LockDir(cfg.OutputDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release output lock", "path", lock.Path(), "error", err)
		}
	}()

	src, err := source.New(cfg.SourceKind, cfg.InputPath, source.Options{
		BaseURL: cfg.BaseURL,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	p, err := pipeline.DefaultPipeline(src, cfg.OutputDir,
		[]pipeline.Option{pipeline.WithLogger(logger)},
		pipeline.WithPipelineConcurrency(cfg.Concurrency),
		pipeline.WithPipelineSkipLinkCheck(cfg.SkipLinkCheck),
		pipeline.WithPipelineSiteName(cfg.SiteName),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	buildReport := model.NewBuildReport(cfg.InputPath, cfg.OutputDir)
	buildReport.SourceKind = cfg.SourceKind
	build := pipeline.NewBuild(buildReport, page.WithThumbnailLimit(cfg.ThumbnailLimit))

	logger.Info("starting build",
		"build", buildReport.ID,
		"input", cfg.InputPath,
		"output", cfg.OutputDir,
		"steps", p.StepNames(),
	)

	start := time.Now()
	runErr := p.Execute(ctx, build)
	buildReport.Duration = time.Since(start)

	if err := outputReport(cfg, buildReport, stdout); err != nil {
		logger.Error("report failed", "error", err)
	}

	// Saving must succeed after an interrupt, too.
	if err := saveBuildReport(context.WithoutCancel(ctx), cfg, buildReport, logger); err != nil {
		logger.Error("failed to save build report", "error", err)
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return fmt.Errorf("generation cancelled after %d page(s): %w", len(buildReport.Pages), runErr)
		}
		return fmt.Errorf("generation failed: %w", runErr)
	}
	return nil
}

// outputReport writes the build report in the requested format.
func outputReport(cfg *config.Config, buildReport *model.BuildReport, stdout io.Writer) error {
	out := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewFullJSONWriter(out, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}

	_, err := w.Write(buildReport)
	return err
}

// saveBuildReport saves the build report to the history database.
// It is a no-op when history is disabled.
func saveBuildReport(ctx context.Context, cfg *config.Config, buildReport *model.BuildReport, logger *slog.Logger) error {
	if !cfg.SaveToDB {
		return nil
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.SaveBuildReport(ctx, buildReport); err != nil {
		return err
	}

	logger.Info("build report saved to database", "build", buildReport.ID, "db", db.Path())
	return nil
}
