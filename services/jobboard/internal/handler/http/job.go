package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/JobPortal/pkg/httputil"
	"github.com/utafrali/JobPortal/pkg/middleware"
	"github.com/utafrali/JobPortal/services/jobboard/internal/domain"
	"github.com/utafrali/JobPortal/services/jobboard/internal/service"
)

const jobNotFound = "Job not found"

// JobHandler handles the public job listing and job applications.
type JobHandler struct {
	jobs   *service.JobService
	apps   *service.ApplicationService
	logger *slog.Logger
}

// NewJobHandler creates a new job HTTP handler.
func NewJobHandler(jobs *service.JobService, apps *service.ApplicationService, logger *slog.Logger) *JobHandler {
	return &JobHandler{jobs: jobs, apps: apps, logger: logger}
}

// ApplyRequest is the JSON request body for applying to a job.
type ApplyRequest struct {
	CoverLetter string `json:"coverLetter" validate:"max=500"`
}

// List handles GET /api/jobs?title=&company=&location=
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	jobs, err := h.jobs.List(r.Context(), domain.JobFilter{
		Title:    q.Get("title"),
		Company:  q.Get("company"),
		Location: q.Get("location"),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}

	httputil.WriteJSON(w, http.StatusOK, jobs)
}

// Get handles GET /api/jobs/{id}
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"), jobNotFound)
	if !ok {
		return
	}

	job, err := h.jobs.Get(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, job)
}

// Apply handles POST /api/jobs/{id}/apply. The body may be omitted.
func (h *JobHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"), jobNotFound)
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if _, err := h.apps.Apply(r.Context(), id.String(), userID, req.CoverLetter); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, "Applied successfully")
}
