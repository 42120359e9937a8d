package jobs

import (
	"context"
	"fmt"

	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/pkg/log"
)

// Progress checkpoints per stage. Each stage moves the job from its lower
// bound (set before the collaborator call) to its upper bound (set on
// success), so progress is monotonic within a run.
var stageProgress = map[Stage]struct{ begin, end int }{
	StageAcquire:    {0, 20},
	StageExtract:    {20, 35},
	StageTranscribe: {35, 60},
	StageTranslate:  {60, 85},
	StageRender:     {85, 100},
}

var stageMessages = map[Stage]string{
	StageAcquire:    "Downloading video...",
	StageExtract:    "Extracting audio...",
	StageTranscribe: "Extracting speech segments...",
	StageTranslate:  "Translating text...",
	StageRender:     "Generating subtitles...",
}

// Executor advances one job at a time through the fixed stage sequence.
// A single Executor is shared by all jobs; every Run call owns exactly
// one job record for its whole lifetime and is the only writer of it.
type Executor struct {
	store    *Store
	pipeline Pipeline
}

func NewExecutor(store *Store, pipeline Pipeline) *Executor {
	return &Executor{
		store:    store,
		pipeline: pipeline,
	}
}

// Run drives a queued job to a terminal state. Collaborator failures are
// recorded on the job record and never propagate to the caller.
func (e *Executor) Run(ctx context.Context, jobID string) {
	job, ok := e.store.Get(jobID)
	if !ok {
		log.Error("Executor dispatched for unknown job %s", jobID)
		return
	}

	if _, err := e.store.Update(jobID, func(j *Job) {
		j.Status = StatusRunning
	}); err != nil {
		log.Error("Failed to mark job %s running: %v", jobID, err)
		return
	}

	resultPath, err := e.process(ctx, job)
	if err != nil {
		log.Error("Job %s failed: %v", jobID, err)
		_, _ = e.store.Update(jobID, func(j *Job) {
			j.Status = StatusError
			j.ErrorDetail = err.Error()
			j.Message = fmt.Sprintf("Processing failed: %v", err)
		})
		return
	}

	_, _ = e.store.Update(jobID, func(j *Job) {
		j.Status = StatusCompleted
		j.Progress = 100
		j.Message = "Video processed successfully!"
		j.ResultPath = resultPath
	})
	log.Info("Job %s completed: %s", jobID, resultPath)
}

func (e *Executor) process(ctx context.Context, job Job) (string, error) {
	// Stage 1: acquire the local video file.
	if job.Source.IsUpload() {
		e.beginStageWithMessage(job.ID, StageAcquire, "Validating video...")
	} else {
		e.beginStage(job.ID, StageAcquire)
	}
	videoPath := job.Source.UploadPath
	if !job.Source.IsUpload() {
		fetched, err := e.pipeline.Downloader.Fetch(ctx, job.Source.RemoteURL, job.ID)
		if err != nil {
			return "", newStageError(StageAcquire, err)
		}
		videoPath = fetched
	}
	e.endStage(job.ID, StageAcquire)

	// Stage 2: extract the audio track.
	e.beginStage(job.ID, StageExtract)
	audioPath, err := e.pipeline.Extractor.Extract(ctx, videoPath, job.ID)
	if err != nil {
		return "", newStageError(StageExtract, err)
	}
	e.endStage(job.ID, StageExtract)

	// Stage 3: transcribe.
	e.beginStage(job.ID, StageTranscribe)
	segments, err := e.pipeline.Transcriber.Transcribe(ctx, audioPath, job.SourceLang)
	if err != nil {
		return "", newStageError(StageTranscribe, err)
	}
	if len(segments) == 0 {
		return "", newStageError(StageTranscribe, fmt.Errorf("no speech detected"))
	}
	e.endStage(job.ID, StageTranscribe)

	// Stage 4: translate, timing passed through 1:1.
	e.beginStage(job.ID, StageTranslate)
	translated, err := e.pipeline.Translator.Translate(ctx, segments, job.SourceLang, job.TargetLang)
	if err != nil {
		return "", newStageError(StageTranslate, err)
	}
	if len(translated) != len(segments) {
		return "", newStageError(StageTranslate, fmt.Errorf("segment count changed: got %d, want %d", len(translated), len(segments)))
	}
	e.endStage(job.ID, StageTranslate)

	// Stage 5: render the subtitle track.
	e.beginStage(job.ID, StageRender)
	rendered, err := e.pipeline.Renderer.Render(ctx, videoPath, translated, job.ID)
	if err != nil {
		return "", newStageError(StageRender, err)
	}
	resultPath := rendered.VideoPath
	if resultPath == "" {
		resultPath = rendered.SRTPath
	}
	if resultPath == "" {
		return "", newStageError(StageRender, fmt.Errorf("renderer returned no artifact"))
	}

	return resultPath, nil
}

func (e *Executor) beginStage(jobID string, stage Stage) {
	e.beginStageWithMessage(jobID, stage, stageMessages[stage])
}

func (e *Executor) beginStageWithMessage(jobID string, stage Stage, message string) {
	_, _ = e.store.Update(jobID, func(j *Job) {
		j.Progress = stageProgress[stage].begin
		j.Message = message
	})
}

func (e *Executor) endStage(jobID string, stage Stage) {
	_, _ = e.store.Update(jobID, func(j *Job) {
		j.Progress = stageProgress[stage].end
	})
}
