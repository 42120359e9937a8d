package jobs

import "time"

type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Source identifies the video to process. Exactly one field is populated:
// UploadPath for a file already on local disk, RemoteURL for a video that
// still has to be fetched.
type Source struct {
	UploadPath string `json:"upload_path,omitempty"`
	RemoteURL  string `json:"remote_url,omitempty"`
}

// IsUpload reports whether the source is a local upload.
func (s Source) IsUpload() bool {
	return s.UploadPath != ""
}

// Job is the record of one end-to-end subtitle translation request.
// It is created once by the Manager and afterwards mutated only by the
// Executor goroutine that owns it; everyone else reads copies.
type Job struct {
	ID          string    `json:"id"`
	Source      Source    `json:"source"`
	SourceLang  string    `json:"source_lang"`
	TargetLang  string    `json:"target_lang"`
	Status      Status    `json:"status"`
	Progress    int       `json:"progress"`
	Message     string    `json:"message"`
	ResultPath  string    `json:"result_path,omitempty"`
	ErrorDetail string    `json:"error_detail,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot is the read-only view served to polling clients.
type Snapshot struct {
	Status      Status `json:"status"`
	Progress    int    `json:"progress"`
	Message     string `json:"message"`
	ResultPath  string `json:"result_path,omitempty"`
	ErrorDetail string `json:"error_detail,omitempty"`
}

// Snapshot extracts the polling view from a job copy.
func (j Job) Snapshot() Snapshot {
	return Snapshot{
		Status:      j.Status,
		Progress:    j.Progress,
		Message:     j.Message,
		ResultPath:  j.ResultPath,
		ErrorDetail: j.ErrorDetail,
	}
}
