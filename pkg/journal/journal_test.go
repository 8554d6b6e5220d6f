package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/CTAG07/dreamsite/pkg/deploy"
	"github.com/CTAG07/dreamsite/pkg/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestJournal opens a journal in a fresh temp directory.
func setupTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "state", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

var t0 = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func TestSetupSchemaIdempotent(t *testing.T) {
	j := setupTestJournal(t)
	require.NoError(t, SetupSchema(j.db))
	require.NoError(t, SetupSchema(j.db))
}

func TestRecordBuild(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	ok := &site.Report{
		RunID:      "run-1",
		StartedAt:  t0,
		FinishedAt: t0.Add(2 * time.Second),
		BuildDate:  "2025-03-14",
		EntryCount: 2,
		Files:      []string{"output/index.html", "output/a/index.html", "output/b/index.html", "output/sitemap.xml"},
	}
	require.NoError(t, j.RecordBuild(ctx, ok, nil))

	failed := &site.Report{RunID: "run-2", StartedAt: t0.Add(time.Minute), EntryCount: 2}
	require.NoError(t, j.RecordBuild(ctx, failed, errors.New("disk full")))

	runs, err := j.RecentBuilds(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "run-2", runs[0].RunID, "newest build first")
	assert.False(t, runs[0].Succeeded())
	assert.Equal(t, "disk full", runs[0].Error)

	assert.Equal(t, "run-1", runs[1].RunID)
	assert.True(t, runs[1].Succeeded())
	assert.Equal(t, 4, runs[1].FileCount)
	assert.Equal(t, 2, runs[1].EntryCount)
	assert.Equal(t, "2025-03-14", runs[1].BuildDate)
	assert.True(t, runs[1].StartedAt.Equal(t0))
	assert.True(t, runs[1].FinishedAt.Equal(t0.Add(2*time.Second)))
}

func TestRecordBuild_NilReport(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.RecordBuild(ctx, nil, errors.New("failed to read dream data")))

	runs, err := j.RecentBuilds(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.NotEmpty(t, runs[0].RunID)
	assert.Equal(t, "failed", runs[0].Status)
}

func TestLastDeploy(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	_, err := j.LastDeploy(ctx)
	require.ErrorIs(t, err, ErrNoRuns)

	first := &deploy.Report{
		RunID:      "deploy-1",
		StartedAt:  t0,
		FinishedAt: t0.Add(time.Second),
		Outcome:    deploy.OutcomeNothingToCommit,
		Steps: []deploy.StepResult{
			{Step: deploy.StepBuild, Command: "go run ./cmd/build"},
		},
	}
	require.NoError(t, j.RecordDeploy(ctx, first, nil))

	second := &deploy.Report{
		RunID:         "deploy-2",
		StartedAt:     t0.Add(time.Hour),
		FinishedAt:    t0.Add(time.Hour + 3*time.Second),
		Outcome:       deploy.OutcomeFailed,
		CommitMessage: "Update dream content - 2025-03-14 10:00",
		Steps: []deploy.StepResult{
			{Step: deploy.StepBuild, Command: "go run ./cmd/build", Duration: 1500 * time.Millisecond},
			{Step: deploy.StepStage, Command: "git add ."},
			{Step: deploy.StepStage, Command: "git status --porcelain"},
			{Step: deploy.StepCommit, Command: `git commit -m "Update dream content - 2025-03-14 10:00"`},
			{Step: deploy.StepPush, Command: "git push origin main", ExitCode: 128, Stderr: "fatal: unable to access"},
		},
	}
	pushErr := &deploy.StepError{Step: deploy.StepPush, Command: "git push origin main", ExitCode: 128}
	require.NoError(t, j.RecordDeploy(ctx, second, pushErr))

	last, err := j.LastDeploy(ctx)
	require.NoError(t, err)
	assert.Equal(t, "deploy-2", last.RunID)
	assert.Equal(t, string(deploy.OutcomeFailed), last.Outcome)
	assert.Equal(t, second.CommitMessage, last.CommitMessage)
	assert.Equal(t, pushErr.Error(), last.Error)
	require.Len(t, last.Steps, 5)
	assert.Equal(t, "build", last.Steps[0].Step)
	assert.Equal(t, 1500*time.Millisecond, last.Steps[0].Duration)
	assert.Equal(t, 128, last.Steps[4].ExitCode)
	assert.Equal(t, "fatal: unable to access", last.Steps[4].Stderr)
}

func TestRecordDeploy_DuplicateRunID(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	r := &deploy.Report{RunID: "same", StartedAt: t0, Outcome: deploy.OutcomeDeployed}
	require.NoError(t, j.RecordDeploy(ctx, r, nil))
	assert.Error(t, j.RecordDeploy(ctx, r, nil))
}
