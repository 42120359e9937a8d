package jobs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("not really a video"), 0o644))
	return path
}

func newTestManager() (*Manager, *Store) {
	store := NewStore()
	pipeline, _, _ := okPipeline()
	return NewManager(store, NewExecutor(store, pipeline)), store
}

func TestManager_Submit_UploadRunsToCompletion(t *testing.T) {
	manager, store := newTestManager()

	jobID, err := manager.Submit(SubmitRequest{
		Source:     Source{UploadPath: writeTempVideo(t)},
		SourceLang: "en",
		TargetLang: "es",
	})
	require.NoError(t, err)
	require.NotEmpty(t, jobID)

	require.Eventually(t, func() bool {
		snapshot, err := manager.GetStatus(jobID)
		return err == nil && snapshot.Status == StatusCompleted
	}, time.Second, 10*time.Millisecond)

	snapshot, err := manager.GetStatus(jobID)
	require.NoError(t, err)
	assert.Equal(t, 100, snapshot.Progress)
	assert.NotEmpty(t, snapshot.ResultPath)
	assert.Empty(t, snapshot.ErrorDetail)

	job, ok := store.Get(jobID)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, job.Status)
}

func TestManager_Submit_URLSource(t *testing.T) {
	manager, _ := newTestManager()

	jobID, err := manager.Submit(SubmitRequest{
		Source:     Source{RemoteURL: "https://example.com/talk.mp4"},
		SourceLang: "auto",
		TargetLang: "fr",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		snapshot, err := manager.GetStatus(jobID)
		return err == nil && snapshot.Status.Terminal()
	}, time.Second, 10*time.Millisecond)

	snapshot, _ := manager.GetStatus(jobID)
	assert.Equal(t, StatusCompleted, snapshot.Status)
}

func TestManager_Submit_InvalidInputCreatesNoJob(t *testing.T) {
	manager, store := newTestManager()
	upload := writeTempVideo(t)

	tests := []struct {
		name string
		req  SubmitRequest
	}{
		{
			name: "no source",
			req:  SubmitRequest{SourceLang: "en", TargetLang: "es"},
		},
		{
			name: "both sources",
			req: SubmitRequest{
				Source:     Source{UploadPath: upload, RemoteURL: "https://example.com/v.mp4"},
				SourceLang: "en",
				TargetLang: "es",
			},
		},
		{
			name: "missing upload file",
			req: SubmitRequest{
				Source:     Source{UploadPath: filepath.Join(t.TempDir(), "missing.mp4")},
				SourceLang: "en",
				TargetLang: "es",
			},
		},
		{
			name: "bad url scheme",
			req: SubmitRequest{
				Source:     Source{RemoteURL: "ftp://example.com/v.mp4"},
				SourceLang: "en",
				TargetLang: "es",
			},
		},
		{
			name: "unparseable url",
			req: SubmitRequest{
				Source:     Source{RemoteURL: "not a url"},
				SourceLang: "en",
				TargetLang: "es",
			},
		},
		{
			name: "same source and target",
			req: SubmitRequest{
				Source:     Source{UploadPath: upload},
				SourceLang: "en",
				TargetLang: "en",
			},
		},
		{
			name: "target auto",
			req: SubmitRequest{
				Source:     Source{UploadPath: upload},
				SourceLang: "en",
				TargetLang: "auto",
			},
		},
		{
			name: "missing target",
			req: SubmitRequest{
				Source:     Source{UploadPath: upload},
				SourceLang: "en",
			},
		},
		{
			name: "invalid source language",
			req: SubmitRequest{
				Source:     Source{UploadPath: upload},
				SourceLang: "not-a-language-!!",
				TargetLang: "es",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.Submit(tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput), "want ErrInvalidInput, got %v", err)
		})
	}

	assert.Empty(t, store.List())
}

func TestManager_Submit_AutoSourceMatchingTargetIsAllowed(t *testing.T) {
	manager, _ := newTestManager()

	_, err := manager.Submit(SubmitRequest{
		Source:     Source{UploadPath: writeTempVideo(t)},
		SourceLang: "auto",
		TargetLang: "en",
	})
	require.NoError(t, err)
}

func TestManager_GetStatus_UnknownID(t *testing.T) {
	manager, _ := newTestManager()

	_, err := manager.GetStatus("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestManager_GetResult(t *testing.T) {
	store := NewStore()
	pipeline, _, _ := okPipeline()
	manager := NewManager(store, NewExecutor(store, pipeline))

	_, err := manager.GetResult("nope")
	assert.True(t, errors.Is(err, ErrNotFound))

	// a running job is not ready
	running := newTestJob("running-job")
	running.Status = StatusRunning
	require.NoError(t, store.Insert(running))
	_, err = manager.GetResult("running-job")
	assert.True(t, errors.Is(err, ErrNotReady))

	// a failed job never becomes ready
	failed := newTestJob("failed-job")
	failed.Status = StatusError
	failed.ErrorDetail = "TranscribeFailed: unintelligible audio"
	require.NoError(t, store.Insert(failed))
	_, err = manager.GetResult("failed-job")
	assert.True(t, errors.Is(err, ErrNotReady))

	done := newTestJob("done-job")
	done.Status = StatusCompleted
	done.ResultPath = "/tmp/out.mp4"
	require.NoError(t, store.Insert(done))
	path, err := manager.GetResult("done-job")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out.mp4", path)
}

func TestManager_StatusTransitionsAreForwardOnly(t *testing.T) {
	manager, _ := newTestManager()

	jobID, err := manager.Submit(SubmitRequest{
		Source:     Source{UploadPath: writeTempVideo(t)},
		SourceLang: "en",
		TargetLang: "es",
	})
	require.NoError(t, err)

	seen := map[Status]int{}
	order := []Status{}
	require.Eventually(t, func() bool {
		snapshot, err := manager.GetStatus(jobID)
		if err != nil {
			return false
		}
		if seen[snapshot.Status] == 0 {
			order = append(order, snapshot.Status)
		}
		seen[snapshot.Status]++
		return snapshot.Status.Terminal()
	}, time.Second, time.Millisecond)

	// observed statuses appear in pipeline order and end terminal
	valid := map[Status]int{StatusQueued: 0, StatusRunning: 1, StatusCompleted: 2, StatusError: 2}
	for i := 1; i < len(order); i++ {
		assert.Greater(t, valid[order[i]], valid[order[i-1]],
			"status went backwards: %v", order)
	}
	assert.Equal(t, StatusCompleted, order[len(order)-1])
}
