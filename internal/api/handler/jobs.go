package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/iconidentify/clipgrab/internal/classifier"
	"github.com/iconidentify/clipgrab/internal/domain"
	"github.com/iconidentify/clipgrab/internal/repository"
)

// JobHandler queues downloads for the worker pool.
type JobHandler struct {
	jobRepo    repository.JobRepository
	maxRetries int
	logger     *slog.Logger
}

// NewJobHandler creates a job handler. maxRetries is copied onto every
// job it queues.
func NewJobHandler(jobRepo repository.JobRepository, maxRetries int, logger *slog.Logger) *JobHandler {
	return &JobHandler{
		jobRepo:    jobRepo,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// SubmitRequest is the JSON request body for queueing a download.
type SubmitRequest struct {
	URL     string `json:"url"`
	Quality string `json:"quality,omitempty"`
}

// SubmitResponse is returned once a download is queued.
type SubmitResponse struct {
	JobID    string          `json:"job_id"`
	Status   string          `json:"status"`
	Platform domain.Platform `json:"platform"`
}

// JobResponse describes a queued download.
type JobResponse struct {
	JobID     string                    `json:"job_id"`
	URL       string                    `json:"url"`
	Quality   string                    `json:"quality,omitempty"`
	Status    string                    `json:"status"`
	Attempts  int                       `json:"attempts"`
	Error     string                    `json:"error,omitempty"`
	Result    *domain.AcquisitionResult `json:"result,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// JobListResponse contains the most recent jobs.
type JobListResponse struct {
	Jobs  []JobResponse `json:"jobs"`
	Limit int           `json:"limit"`
}

// Submit handles POST /api/v1/downloads
func (h *JobHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		writeError(w, http.StatusBadRequest, domain.ErrEmptyURL.Error())
		return
	}

	// Reject what the worker would fail permanently anyway.
	info := classifier.Classify(url)
	if !info.IsValid {
		writeError(w, http.StatusBadRequest, (&domain.UnsupportedURLError{URL: url}).Error())
		return
	}

	job := domain.NewJob(newJobID(), url, h.maxRetries)
	job.Quality = req.Quality

	if err := h.jobRepo.Enqueue(r.Context(), job); err != nil {
		h.logger.Error("enqueue failed", "url", url, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to queue download")
		return
	}

	h.logger.Info("download queued",
		"job_id", job.ID,
		"platform", info.Platform,
		"content_id", info.ContentID,
	)

	writeJSON(w, http.StatusAccepted, SubmitResponse{
		JobID:    job.ID.String(),
		Status:   string(job.Status),
		Platform: info.Platform,
	})
}

// Get handles GET /api/v1/downloads/{jobID}
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "jobID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing job ID")
		return
	}

	job, err := h.jobRepo.Get(r.Context(), domain.JobID(id))
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		h.logger.Error("get job failed", "job_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get job")
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(job))
}

// List handles GET /api/v1/downloads?limit=
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	jobs, err := h.jobRepo.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("list jobs failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}

	resp := JobListResponse{
		Jobs:  make([]JobResponse, 0, len(jobs)),
		Limit: limit,
	}
	for _, job := range jobs {
		resp.Jobs = append(resp.Jobs, toJobResponse(job))
	}

	writeJSON(w, http.StatusOK, resp)
}

func toJobResponse(job *domain.Job) JobResponse {
	return JobResponse{
		JobID:     job.ID.String(),
		URL:       job.URL,
		Quality:   job.Quality,
		Status:    string(job.Status),
		Attempts:  job.Attempts,
		Error:     job.LastError,
		Result:    job.Result,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
}

func newJobID() domain.JobID {
	return domain.JobID("job_" + uuid.New().String()[:8])
}
