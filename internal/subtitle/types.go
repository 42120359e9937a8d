package subtitle

import "time"

// Segment is a timed unit of transcribed or translated text.
type Segment struct {
	Index          int           `json:"index"`
	StartTime      time.Duration `json:"start_time"`
	EndTime        time.Duration `json:"end_time"`
	Text           string        `json:"text"`
	TranslatedText string        `json:"translated_text,omitempty"`
}

// Writer is the interface for writing subtitle files
type Writer interface {
	Write(path string, segments []Segment) error
}
