package jobs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput rejects a malformed submission; no job is created.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound signals an unknown job identity.
	ErrNotFound = errors.New("job not found")
	// ErrNotReady signals a result request before the job completed.
	ErrNotReady = errors.New("job not ready")
)

// Stage names one ordered step of the pipeline.
type Stage string

const (
	StageAcquire    Stage = "acquire"
	StageExtract    Stage = "extract_audio"
	StageTranscribe Stage = "transcribe"
	StageTranslate  Stage = "translate"
	StageRender     Stage = "render"
)

// failureTags maps each stage to the tag recorded in error_detail.
var failureTags = map[Stage]string{
	StageAcquire:    "FetchFailed",
	StageExtract:    "ExtractFailed",
	StageTranscribe: "TranscribeFailed",
	StageTranslate:  "TranslateFailed",
	StageRender:     "RenderFailed",
}

// StageError wraps a collaborator failure with the stage it occurred in.
type StageError struct {
	Stage Stage
	Cause error
}

func newStageError(stage Stage, cause error) *StageError {
	return &StageError{Stage: stage, Cause: cause}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", failureTags[e.Stage], e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

// FailedStage extracts the stage from an error chain, if any.
func FailedStage(err error) (Stage, bool) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage, true
	}
	return "", false
}
