package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Step names one stage of a deploy.
type Step string

const (
	StepBuild  Step = "build"
	StepStage  Step = "stage"
	StepCommit Step = "commit"
	StepPush   Step = "push"
)

// Outcome is the final state of a deploy run.
type Outcome string

const (
	OutcomeDeployed        Outcome = "deployed"
	OutcomeNothingToCommit Outcome = "nothing_to_commit"
	OutcomeFailed          Outcome = "failed"
)

const commitTimeLayout = "2006-01-02 15:04"

// Config holds the commands and git coordinates of a deploy.
type Config struct {
	BuildCommand []string `yaml:"build_command"`
	Remote       string   `yaml:"remote"`
	Branch       string   `yaml:"branch"`
	CommitPrefix string   `yaml:"commit_prefix"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		BuildCommand: []string{"go", "run", "./cmd/build"},
		Remote:       "origin",
		Branch:       "main",
		CommitPrefix: "Update dream content",
	}
}

// StepError reports a command that could not run or exited non-zero.
type StepError struct {
	Step     Step
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *StepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s step failed: %s: %v", e.Step, e.Command, e.Err)
	}
	return fmt.Sprintf("%s step failed: %s exited with code %d", e.Step, e.Command, e.ExitCode)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// StepResult records one executed command.
type StepResult struct {
	Step      Step
	Command   string
	ExitCode  int
	Stdout    string
	Stderr    string
	StartedAt time.Time
	Duration  time.Duration
}

// Report describes a deploy run.
type Report struct {
	RunID         string
	StartedAt     time.Time
	FinishedAt    time.Time
	Outcome       Outcome
	CommitMessage string
	Steps         []StepResult
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock sets the clock used for the commit message and timings.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// Orchestrator runs the Build, Stage, Commit and Push steps in order.
type Orchestrator struct {
	runner Runner
	logger *slog.Logger
	cfg    Config
	now    func() time.Time
}

// NewOrchestrator creates an Orchestrator. Empty config fields fall back to DefaultConfig.
func NewOrchestrator(runner Runner, logger *slog.Logger, cfg Config, opts ...Option) *Orchestrator {
	def := DefaultConfig()
	if len(cfg.BuildCommand) == 0 {
		cfg.BuildCommand = def.BuildCommand
	}
	if cfg.Remote == "" {
		cfg.Remote = def.Remote
	}
	if cfg.Branch == "" {
		cfg.Branch = def.Branch
	}
	if cfg.CommitPrefix == "" {
		cfg.CommitPrefix = def.CommitPrefix
	}
	o := &Orchestrator{
		runner: runner,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the deploy. It returns a nil error for both the deployed and
// the nothing-to-commit outcomes; any failing step yields a *StepError and
// the failed outcome. The report is never nil.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	start := o.now()
	report := &Report{
		RunID:         uuid.NewString(),
		StartedAt:     start,
		CommitMessage: fmt.Sprintf("%s - %s", o.cfg.CommitPrefix, start.Format(commitTimeLayout)),
	}
	finish := func(outcome Outcome, err error) (*Report, error) {
		report.Outcome = outcome
		report.FinishedAt = o.now()
		return report, err
	}

	o.logger.Info("[1/4] Building site")
	if _, err := o.exec(ctx, report, StepBuild, o.cfg.BuildCommand[0], o.cfg.BuildCommand[1:]...); err != nil {
		return finish(OutcomeFailed, err)
	}

	o.logger.Info("[2/4] Staging changes")
	if _, err := o.exec(ctx, report, StepStage, "git", "add", "."); err != nil {
		return finish(OutcomeFailed, err)
	}
	status, err := o.exec(ctx, report, StepStage, "git", "status", "--porcelain")
	if err != nil {
		return finish(OutcomeFailed, err)
	}
	if strings.TrimSpace(status.Stdout) == "" {
		o.logger.Info("No changes to commit, nothing to deploy")
		return finish(OutcomeNothingToCommit, nil)
	}

	o.logger.Info("[3/4] Committing", "message", report.CommitMessage)
	if _, err = o.exec(ctx, report, StepCommit, "git", "commit", "-m", report.CommitMessage); err != nil {
		return finish(OutcomeFailed, err)
	}

	o.logger.Info("[4/4] Pushing", "remote", o.cfg.Remote, "branch", o.cfg.Branch)
	if _, err = o.exec(ctx, report, StepPush, "git", "push", o.cfg.Remote, o.cfg.Branch); err != nil {
		return finish(OutcomeFailed, err)
	}

	o.logger.Info("Deploy complete")
	return finish(OutcomeDeployed, nil)
}

// exec runs one command, appends it to the report and logs its output. A
// non-zero exit or a start failure becomes a *StepError.
func (o *Orchestrator) exec(ctx context.Context, report *Report, step Step, name string, args ...string) (Result, error) {
	line := CommandLine(name, args...)
	o.logger.Info("Running command", "step", step, "command", line)

	started := o.now()
	res, runErr := o.runner.Run(ctx, name, args...)
	report.Steps = append(report.Steps, StepResult{
		Step:      step,
		Command:   line,
		ExitCode:  res.ExitCode,
		Stdout:    res.Stdout,
		Stderr:    res.Stderr,
		StartedAt: started,
		Duration:  o.now().Sub(started),
	})

	for _, l := range splitLines(res.Stdout) {
		o.logger.Info("Command output", "step", step, "line", l)
	}

	if runErr == nil && res.ExitCode == 0 {
		return res, nil
	}

	o.logger.Error("Step failed", "step", step, "command", line, "exit_code", res.ExitCode)
	for _, l := range splitLines(res.Stderr) {
		o.logger.Error("Command error output", "step", step, "line", l)
	}
	return res, &StepError{
		Step:     step,
		Command:  line,
		ExitCode: res.ExitCode,
		Stderr:   strings.TrimSpace(res.Stderr),
		Err:      runErr,
	}
}
