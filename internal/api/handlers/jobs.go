package handlers

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/luiza-sangalli/financial-hub/internal/api/middleware"
	"github.com/luiza-sangalli/financial-hub/internal/jobs"
)

// JobsHandler exposes ingestion job status.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// List handles GET /api/jobs with optional fileId and status filters.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := jobs.JobFilter{
		FileID: q.Get("fileId"),
		Status: jobs.JobStatus(q.Get("status")),
	}

	list, err := h.store.ListJobs(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  list,
		"count": len(list),
	})
}

// Get handles GET /api/jobs/{id}.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, job)
}

// ServeHTTP routes job endpoints by method and path.
func (h *JobsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if r.URL.Path == "/api/jobs" {
		h.List(w, r)
		return
	}
	if jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/"); jobID != "" && !strings.Contains(jobID, "/") {
		h.Get(w, r, jobID)
		return
	}
	middleware.WriteError(w, http.StatusNotFound, "Not found")
}
