package jobs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/pkg/log"
)

// AutoLanguage is the sentinel source language for detection.
const AutoLanguage = "auto"

// SubmitRequest carries the inputs of one processing request.
type SubmitRequest struct {
	Source     Source
	SourceLang string
	TargetLang string
}

// Manager is the public entry point of the pipeline: it creates job
// records, dispatches executor runs, and answers status and result
// queries. Submit never waits for pipeline completion.
type Manager struct {
	store    *Store
	executor *Executor
}

func NewManager(store *Store, executor *Executor) *Manager {
	return &Manager{
		store:    store,
		executor: executor,
	}
}

// Submit validates the request, creates a queued job record, and starts
// an executor goroutine for it. Returns the new job identity immediately.
func (m *Manager) Submit(req SubmitRequest) (string, error) {
	if err := validateSubmit(req); err != nil {
		return "", err
	}

	now := time.Now()
	job := Job{
		ID:         uuid.NewString(),
		Source:     req.Source,
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		Status:     StatusQueued,
		Progress:   0,
		Message:    "Waiting to start...",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := m.store.Insert(job); err != nil {
		return "", err
	}

	log.Info("Job %s submitted (%s -> %s)", job.ID, job.SourceLang, job.TargetLang)

	// The run outlives the submitting request, so it gets its own context.
	go m.executor.Run(context.Background(), job.ID)

	return job.ID, nil
}

// GetStatus returns the polling snapshot of a job.
func (m *Manager) GetStatus(jobID string) (Snapshot, error) {
	job, ok := m.store.Get(jobID)
	if !ok {
		return Snapshot{}, fmt.Errorf("status %s: %w", jobID, ErrNotFound)
	}
	return job.Snapshot(), nil
}

// GetResult returns the path of the final artifact. The result exists
// only once the job reached the completed state.
func (m *Manager) GetResult(jobID string) (string, error) {
	job, ok := m.store.Get(jobID)
	if !ok {
		return "", fmt.Errorf("result %s: %w", jobID, ErrNotFound)
	}
	if job.Status != StatusCompleted {
		return "", fmt.Errorf("result %s: %w", jobID, ErrNotReady)
	}
	return job.ResultPath, nil
}

func validateSubmit(req SubmitRequest) error {
	hasUpload := req.Source.UploadPath != ""
	hasURL := req.Source.RemoteURL != ""
	if hasUpload == hasURL {
		return fmt.Errorf("%w: exactly one of upload path or video URL is required", ErrInvalidInput)
	}

	if hasUpload {
		if _, err := os.Stat(req.Source.UploadPath); err != nil {
			return fmt.Errorf("%w: upload not readable: %v", ErrInvalidInput, err)
		}
	} else {
		parsed, err := url.ParseRequestURI(req.Source.RemoteURL)
		if err != nil {
			return fmt.Errorf("%w: invalid video URL: %v", ErrInvalidInput, err)
		}
		if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("%w: video URL must be http or https", ErrInvalidInput)
		}
	}

	if req.TargetLang == "" || req.TargetLang == AutoLanguage {
		return fmt.Errorf("%w: target language is required", ErrInvalidInput)
	}
	if _, err := language.Parse(req.TargetLang); err != nil {
		return fmt.Errorf("%w: invalid target language %q", ErrInvalidInput, req.TargetLang)
	}
	if req.SourceLang == "" {
		return fmt.Errorf("%w: source language is required", ErrInvalidInput)
	}
	if req.SourceLang != AutoLanguage {
		if _, err := language.Parse(req.SourceLang); err != nil {
			return fmt.Errorf("%w: invalid source language %q", ErrInvalidInput, req.SourceLang)
		}
		if req.SourceLang == req.TargetLang {
			return fmt.Errorf("%w: source and target language are identical", ErrInvalidInput)
		}
	}

	return nil
}
