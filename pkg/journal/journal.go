package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/CTAG07/dreamsite/pkg/deploy"
	"github.com/CTAG07/dreamsite/pkg/site"
	"github.com/google/uuid"
)

// ErrNoRuns is returned when the journal holds no matching run.
var ErrNoRuns = errors.New("journal: no runs recorded")

const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"

	// Fixed width so that stored timestamps sort lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// SetupSchema creates the journal tables. It is idempotent.
func SetupSchema(db *sql.DB) error {
	const (
		schemaBuilds = `
CREATE TABLE IF NOT EXISTS build_runs (
    run_id      TEXT PRIMARY KEY,
    started_at  TEXT NOT NULL,
    finished_at TEXT NOT NULL DEFAULT '',
    build_date  TEXT NOT NULL DEFAULT '',
    entry_count INTEGER NOT NULL DEFAULT 0,
    file_count  INTEGER NOT NULL DEFAULT 0,
    status      TEXT NOT NULL,
    error       TEXT NOT NULL DEFAULT ''
);
`
		schemaDeploys = `
CREATE TABLE IF NOT EXISTS deploy_runs (
    run_id         TEXT PRIMARY KEY,
    started_at     TEXT NOT NULL,
    finished_at    TEXT NOT NULL DEFAULT '',
    outcome        TEXT NOT NULL,
    commit_message TEXT NOT NULL DEFAULT '',
    error          TEXT NOT NULL DEFAULT ''
);
`
		schemaSteps = `
CREATE TABLE IF NOT EXISTS deploy_steps (
    run_id      TEXT NOT NULL,
    seq         INTEGER NOT NULL,
    step        TEXT NOT NULL,
    command     TEXT NOT NULL,
    exit_code   INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    stderr      TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (run_id, seq)
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	for _, stmt := range []string{schemaBuilds, schemaDeploys, schemaSteps} {
		if _, err = tx.Exec(stmt); err != nil {
			return fmt.Errorf("could not create journal schema: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Journal records build and deploy runs.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the journal database at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}
	db, err := initDB(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	j, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// New wraps an open database and ensures the schema exists.
func New(db *sql.DB) (*Journal, error) {
	if err := SetupSchema(db); err != nil {
		return nil, err
	}
	return &Journal{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// BuildRun is one recorded build.
type BuildRun struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	BuildDate  string
	EntryCount int
	FileCount  int
	Status     string
	Error      string
}

// Succeeded reports whether the build finished without error.
func (r BuildRun) Succeeded() bool {
	return r.Status == statusSucceeded
}

// DeployStep is one recorded deploy command.
type DeployStep struct {
	Seq      int
	Step     string
	Command  string
	ExitCode int
	Duration time.Duration
	Stderr   string
}

// DeployRun is one recorded deploy with its commands.
type DeployRun struct {
	RunID         string
	StartedAt     time.Time
	FinishedAt    time.Time
	Outcome       string
	CommitMessage string
	Error         string
	Steps         []DeployStep
}

// RecordBuild stores a build run. report may be nil when the build failed
// before rendering started (for example, on a load error).
func (j *Journal) RecordBuild(ctx context.Context, report *site.Report, buildErr error) error {
	if report == nil {
		report = &site.Report{RunID: uuid.NewString(), StartedAt: j.now()}
	}
	finished := report.FinishedAt
	if finished.IsZero() {
		finished = j.now()
	}
	status := statusSucceeded
	if buildErr != nil {
		status = statusFailed
	}

	_, err := j.db.ExecContext(ctx, `
INSERT INTO build_runs (run_id, started_at, finished_at, build_date, entry_count, file_count, status, error)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID,
		formatTime(report.StartedAt),
		formatTime(finished),
		report.BuildDate,
		report.EntryCount,
		len(report.Files),
		status,
		errString(buildErr),
	)
	if err != nil {
		return fmt.Errorf("failed to record build %s: %w", report.RunID, err)
	}
	return nil
}

// RecordDeploy stores a deploy run and its commands in one transaction.
func (j *Journal) RecordDeploy(ctx context.Context, report *deploy.Report, deployErr error) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	_, err = tx.ExecContext(ctx, `
INSERT INTO deploy_runs (run_id, started_at, finished_at, outcome, commit_message, error)
VALUES (?, ?, ?, ?, ?, ?)`,
		report.RunID,
		formatTime(report.StartedAt),
		formatTime(report.FinishedAt),
		string(report.Outcome),
		report.CommitMessage,
		errString(deployErr),
	)
	if err != nil {
		return fmt.Errorf("failed to record deploy %s: %w", report.RunID, err)
	}

	for i, s := range report.Steps {
		_, err = tx.ExecContext(ctx, `
INSERT INTO deploy_steps (run_id, seq, step, command, exit_code, duration_ms, stderr)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
			report.RunID, i, string(s.Step), s.Command, s.ExitCode, s.Duration.Milliseconds(), s.Stderr,
		)
		if err != nil {
			return fmt.Errorf("failed to record deploy step %d of %s: %w", i, report.RunID, err)
		}
	}

	return tx.Commit()
}

// RecentBuilds returns up to limit builds, newest first.
func (j *Journal) RecentBuilds(ctx context.Context, limit int) ([]BuildRun, error) {
	rows, err := j.db.QueryContext(ctx, `
SELECT run_id, started_at, finished_at, build_date, entry_count, file_count, status, error
FROM build_runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query builds: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var runs []BuildRun
	for rows.Next() {
		var r BuildRun
		var started, finished string
		if err = rows.Scan(&r.RunID, &started, &finished, &r.BuildDate, &r.EntryCount, &r.FileCount, &r.Status, &r.Error); err != nil {
			return nil, err
		}
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished)
		runs = append(runs, r)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// LastDeploy returns the most recent deploy run with its steps, or ErrNoRuns.
func (j *Journal) LastDeploy(ctx context.Context) (DeployRun, error) {
	var r DeployRun
	var started, finished string
	err := j.db.QueryRowContext(ctx, `
SELECT run_id, started_at, finished_at, outcome, commit_message, error
FROM deploy_runs ORDER BY started_at DESC, rowid DESC LIMIT 1`).
		Scan(&r.RunID, &started, &finished, &r.Outcome, &r.CommitMessage, &r.Error)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DeployRun{}, ErrNoRuns
		}
		return DeployRun{}, fmt.Errorf("failed to query last deploy: %w", err)
	}
	r.StartedAt = parseTime(started)
	r.FinishedAt = parseTime(finished)

	rows, err := j.db.QueryContext(ctx, `
SELECT seq, step, command, exit_code, duration_ms, stderr
FROM deploy_steps WHERE run_id = ? ORDER BY seq`, r.RunID)
	if err != nil {
		return DeployRun{}, fmt.Errorf("failed to query deploy steps: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	for rows.Next() {
		var s DeployStep
		var ms int64
		if err = rows.Scan(&s.Seq, &s.Step, &s.Command, &s.ExitCode, &ms, &s.Stderr); err != nil {
			return DeployRun{}, err
		}
		s.Duration = time.Duration(ms) * time.Millisecond
		r.Steps = append(r.Steps, s)
	}
	if err = rows.Err(); err != nil {
		return DeployRun{}, err
	}
	return r, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
