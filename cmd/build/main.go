// Command build renders the dream catalog into a static site.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/CTAG07/dreamsite/pkg/config"
	"github.com/CTAG07/dreamsite/pkg/dreams"
	"github.com/CTAG07/dreamsite/pkg/journal"
	"github.com/CTAG07/dreamsite/pkg/site"
	"github.com/CTAG07/dreamsite/pkg/templating"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "build",
		Short:         "Render the dream catalog into the output directory",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), config.DefaultPath, cmd.OutOrStdout())
		},
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.Exit(1)
	}
}

// run loads the configuration at cfgPath and performs one build. Log output
// and the final summary go to out.
func run(ctx context.Context, cfgPath string, out io.Writer) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.LogLevel, out)

	j := openJournal(cfg.JournalPath, logger)
	if j != nil {
		defer func() {
			if cerr := j.Close(); cerr != nil {
				logger.Warn("Failed to close journal", "error", cerr)
			}
		}()
	}

	report, err := build(cfg, logger)
	if j != nil {
		if jerr := j.RecordBuild(ctx, report, err); jerr != nil {
			logger.Warn("Failed to record build", "error", jerr)
		}
	}
	if err != nil {
		logger.Error("Build failed", "error", err)
		return err
	}

	logger.Info("Build complete", "run_id", report.RunID, "entries", report.EntryCount, "files", len(report.Files))
	_, _ = io.WriteString(out, report.Summary())
	return nil
}

// build loads the data before touching the output directory, so a bad data
// file leaves the previous site in place.
func build(cfg *config.Config, logger *slog.Logger) (*site.Report, error) {
	logger.Info("[1/3] Loading data", "path", cfg.Site.DataPath)
	catalog, err := dreams.Load(cfg.Site.DataPath)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded entries", "count", catalog.Len())

	logger.Info("[2/3] Loading templates", "dir", cfg.Site.TemplateDir)
	tm, err := templating.NewTemplateManager(logger, cfg.Templates, cfg.Site.TemplateDir)
	if err != nil {
		return nil, err
	}
	for _, name := range []string{site.IndexTemplate, site.DetailTemplate} {
		if !tm.Has(name) {
			return nil, fmt.Errorf("template %q not found in %s", name, cfg.Site.TemplateDir)
		}
	}

	logger.Info("[3/3] Rendering site", "output", cfg.Site.OutputDir)
	return site.NewBuilder(cfg.SiteBuild(), tm, logger).Build(catalog)
}

// openJournal opens the run history. Failures only disable it.
func openJournal(path string, logger *slog.Logger) *journal.Journal {
	if path == "" {
		return nil
	}
	j, err := journal.Open(path)
	if err != nil {
		logger.Warn("Journal unavailable, build history will not be recorded", "path", path, "error", err)
		return nil
	}
	return j
}
