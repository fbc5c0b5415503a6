package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/utafrali/JobPortal/pkg/errors"
	"github.com/utafrali/JobPortal/pkg/logger"
	"github.com/utafrali/JobPortal/services/jobboard/internal/domain"
	"github.com/utafrali/JobPortal/services/jobboard/internal/repository"
)

// ApplicationService implements job applications and the admin applicant
// view.
type ApplicationService struct {
	jobs   repository.JobRepository
	apps   repository.ApplicationRepository
	events EventPublisher
	logger *slog.Logger
}

// NewApplicationService creates an application service.
func NewApplicationService(
	jobs repository.JobRepository,
	apps repository.ApplicationRepository,
	events EventPublisher,
	logger *slog.Logger,
) *ApplicationService {
	return &ApplicationService{jobs: jobs, apps: apps, events: events, logger: logger}
}

// Apply records userID's application to jobID. Each user applies to a job
// at most once.
func (s *ApplicationService) Apply(ctx context.Context, jobID, userID, coverLetter string) (*domain.Application, error) {
	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		return nil, jobError(err, "get job")
	}

	exists, err := s.apps.Exists(ctx, jobID, userID)
	if err != nil {
		return nil, fmt.Errorf("check application: %w", err)
	}
	if exists {
		return nil, apperrors.Conflict("You already applied to this job")
	}

	app := &domain.Application{
		ID:          uuid.NewString(),
		JobID:       jobID,
		UserID:      userID,
		CoverLetter: coverLetter,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, jobError(err, "create application")
	}

	log := logger.WithContext(ctx, s.logger)
	if err := s.events.PublishApplicationSubmitted(ctx, app); err != nil {
		log.Warn("failed to publish application.submitted event",
			slog.String("application_id", app.ID),
			slog.String("error", err.Error()),
		)
	}
	log.Info("application submitted", slog.String("job_id", jobID), slog.String("application_id", app.ID))
	return app, nil
}

// Applicants lists the applications to jobID with applicant emails.
func (s *ApplicationService) Applicants(ctx context.Context, jobID string) ([]domain.Applicant, error) {
	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		return nil, jobError(err, "get job")
	}

	applicants, err := s.apps.ListApplicants(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	return applicants, nil
}
