package jobs

import (
	"context"

	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/internal/subtitle"
)

// Downloader fetches a remote video to local disk and returns its path.
type Downloader interface {
	Fetch(ctx context.Context, url string, jobID string) (string, error)
}

// AudioExtractor derives an audio track from a local video file.
type AudioExtractor interface {
	Extract(ctx context.Context, videoPath string, jobID string) (string, error)
}

// Transcriber converts an audio file into ordered, timed text segments.
// sourceLang may be the sentinel "auto".
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, sourceLang string) ([]subtitle.Segment, error)
}

// Translator translates segments into the target language. The returned
// slice has the same length as the input and each segment keeps the timing
// of its counterpart.
type Translator interface {
	Translate(ctx context.Context, segments []subtitle.Segment, sourceLang, targetLang string) ([]subtitle.Segment, error)
}

// RenderResult is the output of the final stage. VideoPath is empty when
// burn-in rendering is disabled and the SRT file is the final artifact.
type RenderResult struct {
	SRTPath   string
	VideoPath string
}

// SubtitleRenderer writes the subtitle track and, optionally, burns it
// into a copy of the video.
type SubtitleRenderer interface {
	Render(ctx context.Context, videoPath string, segments []subtitle.Segment, jobID string) (RenderResult, error)
}

// Pipeline bundles the collaborators one executor run depends on.
type Pipeline struct {
	Downloader  Downloader
	Extractor   AudioExtractor
	Transcriber Transcriber
	Translator  Translator
	Renderer    SubtitleRenderer
}
