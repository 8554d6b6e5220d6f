// Command deploy rebuilds the site, commits the result and pushes it.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/CTAG07/dreamsite/pkg/config"
	"github.com/CTAG07/dreamsite/pkg/deploy"
	"github.com/CTAG07/dreamsite/pkg/journal"
	"github.com/spf13/cobra"
)

const (
	exitStepFailed  = 1
	exitSetupFailed = 2
)

// setupError marks failures that happen before any deploy step runs.
type setupError struct {
	err error
}

func (e *setupError) Error() string { return e.err.Error() }
func (e *setupError) Unwrap() error { return e.err }

func main() {
	rootCmd := &cobra.Command{
		Use:           "deploy",
		Short:         "Build the site, then commit and push the output",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), config.DefaultPath, cmd.OutOrStdout(), deploy.ExecRunner{})
		},
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "deploy failed: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var se *setupError
	if errors.As(err, &se) {
		return exitSetupFailed
	}
	return exitStepFailed
}

// run performs one deploy with runner. A nothing-to-commit outcome returns nil.
func run(ctx context.Context, cfgPath string, out io.Writer, runner deploy.Runner) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return &setupError{err: err}
	}
	logger := config.NewLogger(cfg.LogLevel, out)

	var j *journal.Journal
	if cfg.JournalPath != "" {
		j, err = journal.Open(cfg.JournalPath)
		if err != nil {
			logger.Error("Failed to open journal", "path", cfg.JournalPath, "error", err)
			return &setupError{err: err}
		}
		defer func() {
			if cerr := j.Close(); cerr != nil {
				logger.Warn("Failed to close journal", "error", cerr)
			}
		}()

		last, lerr := j.LastDeploy(ctx)
		switch {
		case errors.Is(lerr, journal.ErrNoRuns):
			logger.Info("No previous deploy recorded")
		case lerr != nil:
			logger.Warn("Failed to read last deploy", "error", lerr)
		default:
			logger.Info("Previous deploy", "run_id", last.RunID, "outcome", last.Outcome, "started_at", last.StartedAt)
		}
	}

	report, err := deploy.NewOrchestrator(runner, logger, cfg.Deploy).Run(ctx)
	if j != nil {
		if jerr := j.RecordDeploy(ctx, report, err); jerr != nil {
			logger.Warn("Failed to record deploy", "error", jerr)
		}
	}
	if err != nil {
		var stepErr *deploy.StepError
		if errors.As(err, &stepErr) && stepErr.Stderr != "" {
			fmt.Fprintln(os.Stderr, stepErr.Stderr)
		}
		return err
	}

	logger.Info("Deploy finished", "run_id", report.RunID, "outcome", report.Outcome)
	return nil
}
