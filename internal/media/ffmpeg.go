package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/internal/jobs"
	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/internal/subtitle"
	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/pkg/file"
	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/pkg/log"
)

// ProcessorConfig contains the directories and limits for media processing
type ProcessorConfig struct {
	AudioDir        string
	SRTDir          string
	ProcessedDir    string
	MaxVideoSeconds int
	BurnIn          bool
}

// Processor wraps ffmpeg and ffprobe for audio extraction and subtitle
// rendering. It implements both pipeline stages that touch the video file.
type Processor struct {
	ffmpegCmd  string
	ffprobeCmd string
	config     ProcessorConfig

	srtWriter        subtitle.Writer
	transcriptWriter subtitle.Writer
}

func NewProcessor(config ProcessorConfig) *Processor {
	return &Processor{
		ffmpegCmd:        "ffmpeg",
		ffprobeCmd:       "ffprobe",
		config:           config,
		srtWriter:        subtitle.NewSRTWriter(),
		transcriptWriter: subtitle.NewTranscriptWriter(),
	}
}

// Duration probes the container duration in seconds.
func (p *Processor) Duration(ctx context.Context, videoPath string) (float64, error) {
	cmdPath, err := exec.LookPath(p.ffprobeCmd)
	if err != nil {
		return 0, fmt.Errorf("ffprobe not found: %w", err)
	}

	cmd := exec.CommandContext(ctx, cmdPath, p.durationArgs(videoPath)...)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe duration %q: %w", strings.TrimSpace(string(output)), err)
	}
	return seconds, nil
}

// Extract converts the video's audio track into mono 16 kHz WAV, the input
// format speech recognition engines expect. Videos longer than the
// configured limit are rejected before any work is done.
func (p *Processor) Extract(ctx context.Context, videoPath string, jobID string) (string, error) {
	if p.config.MaxVideoSeconds > 0 {
		seconds, err := p.Duration(ctx, videoPath)
		if err != nil {
			return "", err
		}
		if seconds > float64(p.config.MaxVideoSeconds) {
			return "", fmt.Errorf("video too long: %.0fs exceeds %ds limit", seconds, p.config.MaxVideoSeconds)
		}
	}

	cmdPath, err := exec.LookPath(p.ffmpegCmd)
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found: %w", err)
	}

	audioPath := filepath.Join(p.config.AudioDir, jobID+"_audio.wav")
	cmd := exec.CommandContext(ctx, cmdPath, p.extractAudioArgs(videoPath, audioPath)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg audio extraction failed: %w: %s", err, tailOf(stderr.String()))
	}

	log.Info("Extracted audio for job %s to %s", jobID, audioPath)
	return audioPath, nil
}

// Render writes the SRT and plain transcript files, then optionally burns
// the subtitles into a copy of the video with drawtext filters.
func (p *Processor) Render(ctx context.Context, videoPath string, segments []subtitle.Segment, jobID string) (jobs.RenderResult, error) {
	srtPath := filepath.Join(p.config.SRTDir, jobID+".srt")
	if err := p.srtWriter.Write(srtPath, segments); err != nil {
		return jobs.RenderResult{}, fmt.Errorf("failed to write subtitle file: %w", err)
	}
	transcriptPath := file.ReplaceExt(srtPath, ".txt")
	if err := p.transcriptWriter.Write(transcriptPath, segments); err != nil {
		return jobs.RenderResult{}, fmt.Errorf("failed to write transcript file: %w", err)
	}

	result := jobs.RenderResult{SRTPath: srtPath}
	if !p.config.BurnIn {
		return result, nil
	}

	cmdPath, err := exec.LookPath(p.ffmpegCmd)
	if err != nil {
		return jobs.RenderResult{}, fmt.Errorf("ffmpeg not found: %w", err)
	}

	outputPath := filepath.Join(p.config.ProcessedDir, jobID+"_processed.mp4")
	filter := buildSubtitleFilter(segments)
	cmd := exec.CommandContext(ctx, cmdPath, p.renderArgs(videoPath, filter, outputPath)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return jobs.RenderResult{}, fmt.Errorf("ffmpeg subtitle rendering failed: %w: %s", err, tailOf(stderr.String()))
	}

	log.Info("Rendered subtitled video for job %s to %s", jobID, outputPath)
	result.VideoPath = outputPath
	return result, nil
}

func (p *Processor) durationArgs(videoPath string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		videoPath,
	}
}

func (p *Processor) extractAudioArgs(videoPath, audioPath string) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-ac", "1", // mono
		"-ar", "16000", // 16 kHz sample rate
		"-f", "wav",
		audioPath,
	}
}

func (p *Processor) renderArgs(videoPath, filter, outputPath string) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-vf", filter,
		"-c:a", "copy",
		outputPath,
	}
}

// buildSubtitleFilter chains one drawtext filter per segment, each gated on
// the segment's time window.
func buildSubtitleFilter(segments []subtitle.Segment) string {
	filters := make([]string, 0, len(segments))
	for _, seg := range segments {
		text := seg.TranslatedText
		if text == "" {
			text = seg.Text
		}
		filters = append(filters, fmt.Sprintf(
			"drawtext=text='%s':enable='between(t,%.3f,%.3f)':x=(w-text_w)/2:y=h-100:fontsize=24:fontcolor=white:box=1:boxcolor=black@0.5:boxborderw=5",
			escapeDrawtext(text),
			seg.StartTime.Seconds(),
			seg.EndTime.Seconds(),
		))
	}
	return strings.Join(filters, ",")
}

// escapeDrawtext escapes the characters drawtext treats as syntax.
func escapeDrawtext(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, "'", `\\'`)
	text = strings.ReplaceAll(text, ":", `\:`)
	return text
}

// tailOf keeps error messages readable when ffmpeg dumps its full log.
func tailOf(s string) string {
	s = strings.TrimSpace(s)
	const max = 512
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}
