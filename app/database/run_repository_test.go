package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lysyi3m/compare-sitemaps/app/sitemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	version, dirty, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepository(openTestDB(t))

	latest, err := repo.LatestRun(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	started := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	runID, err := repo.StartRun(ctx, started)
	require.NoError(t, err)
	assert.NotZero(t, runID)

	latest, err = repo.LatestRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, RunStatusRunning, latest.Status)
	assert.Nil(t, latest.FinishedAt)
	assert.Equal(t, 0, latest.Files)

	require.NoError(t, repo.RecordFile(ctx, runID, sitemap.WrittenFile{
		Category: "cpu", Language: "en", Index: 1, Name: "cpu-sitemap-en-1.xml", URLs: 45000,
	}))
	require.NoError(t, repo.RecordFile(ctx, runID, sitemap.WrittenFile{
		Category: "cpu", Language: "en", Index: 2, Name: "cpu-sitemap-en-2.xml", URLs: 12,
	}))

	finished := started.Add(90 * time.Second)
	require.NoError(t, repo.FinishRun(ctx, runID, finished, nil))

	latest, err = repo.LatestRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, runID, latest.ID)
	assert.Equal(t, RunStatusSuccess, latest.Status)
	assert.Empty(t, latest.Error)
	assert.True(t, started.Equal(latest.StartedAt))
	require.NotNil(t, latest.FinishedAt)
	assert.True(t, finished.Equal(*latest.FinishedAt))
	assert.Equal(t, 2, latest.Files)
	assert.Equal(t, 45012, latest.URLs)

	files, err := repo.GetRunFiles(ctx, runID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "cpu-sitemap-en-1.xml", files[0].Filename)
	assert.Equal(t, 2, files[1].Index)
	assert.Equal(t, 12, files[1].URLCount)
}

func TestFinishRunFailed(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepository(openTestDB(t))

	first, err := repo.StartRun(ctx, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.FinishRun(ctx, first, time.Now(), nil))

	second, err := repo.StartRun(ctx, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.FinishRun(ctx, second, time.Now(), errors.New("category cpu: connection refused")))

	latest, err := repo.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, latest.ID)
	assert.Equal(t, RunStatusFailed, latest.Status)
	assert.Equal(t, "category cpu: connection refused", latest.Error)
}

func TestFinishUnknownRun(t *testing.T) {
	repo := NewRunRepository(openTestDB(t))
	assert.Error(t, repo.FinishRun(context.Background(), 42, time.Now(), nil))
}

func TestRecordFileRequiresRun(t *testing.T) {
	repo := NewRunRepository(openTestDB(t))
	err := repo.RecordFile(context.Background(), 42, sitemap.WrittenFile{Category: "cpu", Language: "en", Index: 1, Name: "cpu-sitemap-en-1.xml"})
	assert.Error(t, err)
}
