package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/internal/jobs"
	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/pkg/file"
)

var allowedVideoExts = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
}

type submitURLRequest struct {
	VideoURL   string `json:"video_url"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type submitResponse struct {
	JobID string `json:"job_id"`
}

// jobView is the job representation served over the API.
type jobView struct {
	JobID       string      `json:"job_id"`
	Status      jobs.Status `json:"status"`
	Progress    int         `json:"progress"`
	Message     string      `json:"message"`
	ResultPath  string      `json:"result_path,omitempty"`
	ErrorDetail string      `json:"error_detail,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func viewOf(job jobs.Job) jobView {
	return jobView{
		JobID:       job.ID,
		Status:      job.Status,
		Progress:    job.Progress,
		Message:     job.Message,
		ResultPath:  job.ResultPath,
		ErrorDetail: job.ErrorDetail,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
}

func (s *Server) jobList() []jobView {
	all := s.store.List()
	views := make([]jobView, 0, len(all))
	for _, job := range all {
		views = append(views, viewOf(job))
	}
	return views
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.jobList())
	case http.MethodPost:
		s.handleSubmit(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		s.handleUploadSubmit(w, r)
		return
	}

	var req submitURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	jobID, err := s.manager.Submit(jobs.SubmitRequest{
		Source:     jobs.Source{RemoteURL: req.VideoURL},
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
	})
	if err != nil {
		writeError(w, statusOf(err), err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, submitResponse{JobID: jobID})
}

func (s *Server) handleUploadSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d byte limit", s.maxUploadBytes))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	upload, header, err := r.FormFile("video")
	if err != nil {
		writeError(w, http.StatusBadRequest, "video file is required")
		return
	}
	defer upload.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedVideoExts[ext] {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported video format %q", ext))
		return
	}

	uploadPath, err := s.saveUpload(upload, header.Filename)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	jobID, err := s.manager.Submit(jobs.SubmitRequest{
		Source:     jobs.Source{UploadPath: uploadPath},
		SourceLang: r.FormValue("source_lang"),
		TargetLang: r.FormValue("target_lang"),
	})
	if err != nil {
		os.Remove(uploadPath)
		writeError(w, statusOf(err), err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, submitResponse{JobID: jobID})
}

func (s *Server) saveUpload(upload io.Reader, filename string) (string, error) {
	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), file.SafeBaseName(filename))
	path := filepath.Join(s.uploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, upload); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return path, nil
}

func (s *Server) handleJobByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// /api/jobs/{id} or /api/jobs/{id}/download
	rest := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	jobID, action, _ := strings.Cut(strings.TrimSuffix(rest, "/"), "/")
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "missing job id")
		return
	}

	switch action {
	case "":
		snapshot, err := s.manager.GetStatus(jobID)
		if err != nil {
			writeError(w, statusOf(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, snapshot)
	case "download":
		resultPath, err := s.manager.GetResult(jobID)
		if err != nil {
			writeError(w, statusOf(err), err.Error())
			return
		}
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", filepath.Base(resultPath)))
		http.ServeFile(w, r, resultPath)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

// supportedLanguages lists the languages offered for translation.
var supportedLanguages = []string{
	"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh",
	"ar", "hi", "nl", "pl", "tr", "sv",
}

type languageEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	entries := make([]languageEntry, 0, len(supportedLanguages)+1)
	entries = append(entries, languageEntry{Code: jobs.AutoLanguage, Name: "Auto Detect"})
	for _, code := range supportedLanguages {
		tag := language.MustParse(code)
		entries = append(entries, languageEntry{
			Code: code,
			Name: display.English.Languages().Name(tag),
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

// statusOf maps pipeline errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, jobs.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, jobs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, jobs.ErrNotReady):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}
