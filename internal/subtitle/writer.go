package subtitle

import (
	"bufio"
	"fmt"
	"os"
	"time"
)

// SRTWriter writes segments in SubRip format.
type SRTWriter struct{}

// NewSRTWriter creates a new SRT subtitle writer
func NewSRTWriter() Writer {
	return &SRTWriter{}
}

// Write writes the segments as an SRT file at the given path
func (w *SRTWriter) Write(path string, segments []Segment) error {
	if len(segments) == 0 {
		return fmt.Errorf("no segments to write")
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	for i, seg := range segments {
		// write index
		index := seg.Index
		if index == 0 {
			index = i + 1
		}
		fmt.Fprintf(writer, "%d\n", index)

		// write time
		startTime := FormatTimestamp(seg.StartTime)
		endTime := FormatTimestamp(seg.EndTime)
		fmt.Fprintf(writer, "%s --> %s\n", startTime, endTime)

		// write text (use translated text, fallback to original if empty)
		text := seg.TranslatedText
		if text == "" {
			text = seg.Text
		}
		fmt.Fprintf(writer, "%s\n\n", text)
	}

	return nil
}

// TranscriptWriter writes segments as a plain numbered text file.
type TranscriptWriter struct{}

// NewTranscriptWriter creates a plain-text transcript writer
func NewTranscriptWriter() Writer {
	return &TranscriptWriter{}
}

func (w *TranscriptWriter) Write(path string, segments []Segment) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	for i, seg := range segments {
		text := seg.TranslatedText
		if text == "" {
			text = seg.Text
		}
		fmt.Fprintf(writer, "%d. %s\n", i+1, text)
	}

	return nil
}

// FormatTimestamp formats a duration as an SRT timestamp (HH:MM:SS,mmm)
func FormatTimestamp(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	milliseconds := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, milliseconds)
}
