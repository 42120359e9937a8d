package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/internal/subtitle"
)

func testProcessor(t *testing.T, burnIn bool) *Processor {
	t.Helper()
	dir := t.TempDir()
	return NewProcessor(ProcessorConfig{
		AudioDir:        dir,
		SRTDir:          dir,
		ProcessedDir:    dir,
		MaxVideoSeconds: 600,
		BurnIn:          burnIn,
	})
}

func TestDurationArgs(t *testing.T) {
	p := testProcessor(t, false)
	args := p.durationArgs("/videos/in.mp4")
	assert.Equal(t, []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		"/videos/in.mp4",
	}, args)
}

func TestExtractAudioArgs(t *testing.T) {
	p := testProcessor(t, false)
	args := p.extractAudioArgs("/videos/in.mp4", "/audio/out.wav")

	assert.Equal(t, "-y", args[0])
	assert.Contains(t, args, "-ac")
	assert.Contains(t, args, "16000")
	assert.Equal(t, "/audio/out.wav", args[len(args)-1])

	// mono wav output
	for i, arg := range args {
		if arg == "-ac" {
			assert.Equal(t, "1", args[i+1])
		}
		if arg == "-f" {
			assert.Equal(t, "wav", args[i+1])
		}
	}
}

func TestRenderArgs(t *testing.T) {
	p := testProcessor(t, true)
	args := p.renderArgs("/videos/in.mp4", "drawtext=text='hi'", "/out/final.mp4")

	assert.Equal(t, []string{
		"-y",
		"-i", "/videos/in.mp4",
		"-vf", "drawtext=text='hi'",
		"-c:a", "copy",
		"/out/final.mp4",
	}, args)
}

func TestBuildSubtitleFilter(t *testing.T) {
	segments := []subtitle.Segment{
		{Index: 1, StartTime: 0, EndTime: 1500 * time.Millisecond, Text: "hello", TranslatedText: "hola"},
		{Index: 2, StartTime: 2 * time.Second, EndTime: 4 * time.Second, Text: "untranslated"},
	}

	filter := buildSubtitleFilter(segments)
	parts := strings.Split(filter, ",drawtext=")
	require.Len(t, parts, 2)

	assert.Contains(t, parts[0], "text='hola'")
	assert.Contains(t, parts[0], "enable='between(t,0.000,1.500)'")
	assert.Contains(t, parts[1], "text='untranslated'")
	assert.Contains(t, parts[1], "between(t,2.000,4.000)")
	assert.Contains(t, filter, "fontcolor=white")
	assert.Contains(t, filter, "boxcolor=black@0.5")
}

func TestEscapeDrawtext(t *testing.T) {
	assert.Equal(t, `it\\'s fine`, escapeDrawtext("it's fine"))
	assert.Equal(t, `ratio 1\:2`, escapeDrawtext("ratio 1:2"))
	assert.Equal(t, `back\\slash`, escapeDrawtext(`back\slash`))
	assert.Equal(t, "plain text", escapeDrawtext("plain text"))
}

func TestRender_SubtitleOnly(t *testing.T) {
	p := testProcessor(t, false)
	segments := []subtitle.Segment{
		{Index: 1, StartTime: 0, EndTime: 2 * time.Second, Text: "hello", TranslatedText: "hola"},
		{Index: 2, StartTime: 2 * time.Second, EndTime: 4 * time.Second, Text: "world", TranslatedText: "mundo"},
	}

	result, err := p.Render(context.Background(), "/videos/in.mp4", segments, "job-1")
	require.NoError(t, err)

	assert.Empty(t, result.VideoPath)
	require.FileExists(t, result.SRTPath)
	assert.Equal(t, "job-1.srt", filepath.Base(result.SRTPath))

	content, err := os.ReadFile(result.SRTPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "00:00:00,000 --> 00:00:02,000")
	assert.Contains(t, string(content), "hola")

	transcript, err := os.ReadFile(filepath.Join(filepath.Dir(result.SRTPath), "job-1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1. hola\n2. mundo\n", string(transcript))
}

func TestTailOf(t *testing.T) {
	assert.Equal(t, "short", tailOf("  short \n"))

	long := strings.Repeat("x", 2000) + "END"
	tail := tailOf(long)
	assert.True(t, strings.HasPrefix(tail, "..."))
	assert.True(t, strings.HasSuffix(tail, "END"))
	assert.LessOrEqual(t, len(tail), 515)
}

func TestDownloadArgs(t *testing.T) {
	d := NewDownloader("/tmp/videos")
	args := d.downloadArgs("https://example.com/v", "/tmp/videos/job-1_download.%(ext)s")

	assert.Equal(t, []string{
		"-f", "best[ext=mp4]/best",
		"--no-playlist",
		"-o", "/tmp/videos/job-1_download.%(ext)s",
		"https://example.com/v",
	}, args)
}
