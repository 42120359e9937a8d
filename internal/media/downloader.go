package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"golang.org/x/sync/singleflight"

	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/pkg/log"
)

// Downloader fetches remote videos with yt-dlp. Concurrent fetches of the
// same URL are collapsed into a single process via singleflight, so two
// jobs submitted with the same link share one download.
type Downloader struct {
	ytdlpCmd  string
	outputDir string
	group     singleflight.Group
}

func NewDownloader(outputDir string) *Downloader {
	return &Downloader{
		ytdlpCmd:  "yt-dlp",
		outputDir: outputDir,
	}
}

// Fetch downloads the video at url and returns the local file path.
func (d *Downloader) Fetch(ctx context.Context, url string, jobID string) (string, error) {
	path, err, shared := d.group.Do(url, func() (interface{}, error) {
		return d.download(ctx, url, jobID)
	})
	if err != nil {
		return "", err
	}
	if shared {
		log.Info("Reusing in-flight download of %s for job %s", url, jobID)
	}
	return path.(string), nil
}

func (d *Downloader) download(ctx context.Context, url string, jobID string) (string, error) {
	cmdPath, err := exec.LookPath(d.ytdlpCmd)
	if err != nil {
		return "", fmt.Errorf("yt-dlp not found: %w", err)
	}

	template := filepath.Join(d.outputDir, jobID+"_download.%(ext)s")
	cmd := exec.CommandContext(ctx, cmdPath, d.downloadArgs(url, template)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("yt-dlp failed: %w: %s", err, stderr.String())
	}

	// The extension is chosen by yt-dlp, so glob for the result.
	matches, err := filepath.Glob(filepath.Join(d.outputDir, jobID+"_download.*"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("yt-dlp produced no output file for %s", url)
	}

	log.Info("Downloaded %s to %s", url, matches[0])
	return matches[0], nil
}

func (d *Downloader) downloadArgs(url string, outputTemplate string) []string {
	return []string{
		"-f", "best[ext=mp4]/best",
		"--no-playlist",
		"-o", outputTemplate,
		url,
	}
}
