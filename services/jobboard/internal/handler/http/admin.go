package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/JobPortal/pkg/httputil"
	"github.com/utafrali/JobPortal/services/jobboard/internal/domain"
	"github.com/utafrali/JobPortal/services/jobboard/internal/service"
)

// AdminHandler handles job management and the applicant view. Every route
// sits behind middleware.RequireRole(domain.RoleAdmin).
type AdminHandler struct {
	jobs   *service.JobService
	apps   *service.ApplicationService
	logger *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(jobs *service.JobService, apps *service.ApplicationService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{jobs: jobs, apps: apps, logger: logger}
}

// JobRequest is the JSON request body for creating or replacing a job.
type JobRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Company     string `json:"company" validate:"required,min=2"`
	Location    string `json:"location" validate:"required,min=2"`
	Description string `json:"description" validate:"required,min=10"`
}

func (req JobRequest) input() service.JobInput {
	return service.JobInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Description: req.Description,
	}
}

// CreateJob handles POST /api/admin/jobs
func (h *AdminHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req JobRequest
	if !decode(w, r, &req) {
		return
	}

	if _, err := h.jobs.Create(r.Context(), req.input()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, "Job created successfully")
}

// UpdateJob handles PUT /api/admin/jobs/{id}
func (h *AdminHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	var req JobRequest
	if !decode(w, r, &req) {
		return
	}
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"), jobNotFound)
	if !ok {
		return
	}

	if err := h.jobs.Update(r.Context(), id.String(), req.input()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, "Job updated successfully")
}

// DeleteJob handles DELETE /api/admin/jobs/{id}
func (h *AdminHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"), jobNotFound)
	if !ok {
		return
	}

	if err := h.jobs.Delete(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, "Job and related applications deleted")
}

// Applicants handles GET /api/admin/jobs/{id}/applicants
func (h *AdminHandler) Applicants(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"), jobNotFound)
	if !ok {
		return
	}

	applicants, err := h.apps.Applicants(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if applicants == nil {
		applicants = []domain.Applicant{}
	}

	httputil.WriteJSON(w, http.StatusOK, applicants)
}
