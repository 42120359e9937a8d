package retention

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/internal/jobs"
)

func insertJob(t *testing.T, store *jobs.Store, id string, status jobs.Status, updatedAt time.Time, uploadPath string) {
	t.Helper()
	source := jobs.Source{UploadPath: uploadPath}
	if uploadPath == "" {
		source.RemoteURL = "https://example.com/v"
	}
	require.NoError(t, store.Insert(jobs.Job{
		ID:        id,
		Source:    source,
		Status:    status,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}))
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestSweep_RemovesExpiredTerminalJobs(t *testing.T) {
	store := jobs.NewStore()
	audioDir := t.TempDir()
	srtDir := t.TempDir()
	uploadDir := t.TempDir()

	now := time.Now()
	old := now.Add(-48 * time.Hour)

	uploadPath := filepath.Join(uploadDir, "old_clip.mp4")
	touch(t, uploadPath)
	insertJob(t, store, "old-done", jobs.StatusCompleted, old, uploadPath)
	touch(t, filepath.Join(audioDir, "old-done_audio.wav"))
	touch(t, filepath.Join(srtDir, "old-done.srt"))
	touch(t, filepath.Join(srtDir, "old-done.txt"))

	insertJob(t, store, "old-failed", jobs.StatusError, old, "")
	touch(t, filepath.Join(audioDir, "old-failed_audio.wav"))

	insertJob(t, store, "fresh-done", jobs.StatusCompleted, now, "")
	touch(t, filepath.Join(srtDir, "fresh-done.srt"))

	insertJob(t, store, "old-running", jobs.StatusRunning, old, "")
	touch(t, filepath.Join(audioDir, "old-running_audio.wav"))

	sweeper := NewSweeper(store, []string{audioDir, srtDir}, 24*time.Hour, "0 * * * *", cron.New())
	removed := sweeper.Sweep(now)
	assert.Equal(t, 2, removed)

	_, ok := store.Get("old-done")
	assert.False(t, ok)
	_, ok = store.Get("old-failed")
	assert.False(t, ok)
	_, ok = store.Get("fresh-done")
	assert.True(t, ok)
	_, ok = store.Get("old-running")
	assert.True(t, ok)

	assert.NoFileExists(t, uploadPath)
	assert.NoFileExists(t, filepath.Join(audioDir, "old-done_audio.wav"))
	assert.NoFileExists(t, filepath.Join(srtDir, "old-done.srt"))
	assert.NoFileExists(t, filepath.Join(srtDir, "old-done.txt"))
	assert.NoFileExists(t, filepath.Join(audioDir, "old-failed_audio.wav"))
	assert.FileExists(t, filepath.Join(srtDir, "fresh-done.srt"))
	assert.FileExists(t, filepath.Join(audioDir, "old-running_audio.wav"))
}

func TestSweep_NothingExpired(t *testing.T) {
	store := jobs.NewStore()
	insertJob(t, store, "done", jobs.StatusCompleted, time.Now(), "")

	sweeper := NewSweeper(store, nil, 24*time.Hour, "0 * * * *", cron.New())
	assert.Equal(t, 0, sweeper.Sweep(time.Now()))
	assert.Len(t, store.List(), 1)
}

func TestSchedule(t *testing.T) {
	c := cron.New()
	sweeper := NewSweeper(jobs.NewStore(), nil, time.Hour, "0 * * * *", c)
	require.NoError(t, sweeper.Schedule(context.Background()))
	assert.Len(t, c.Entries(), 1)
}

func TestSchedule_InvalidExpression(t *testing.T) {
	sweeper := NewSweeper(jobs.NewStore(), nil, time.Hour, "not a cron expr", cron.New())
	assert.Error(t, sweeper.Schedule(context.Background()))
}
