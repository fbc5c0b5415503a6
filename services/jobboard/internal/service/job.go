package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/utafrali/JobPortal/pkg/errors"
	"github.com/utafrali/JobPortal/pkg/logger"
	"github.com/utafrali/JobPortal/services/jobboard/internal/domain"
	"github.com/utafrali/JobPortal/services/jobboard/internal/repository"
)

const jobNotFoundMessage = "Job not found"

// JobInput holds the editable fields of a job.
type JobInput struct {
	Title       string
	Company     string
	Location    string
	Description string
}

// JobService implements job listing and admin job management.
type JobService struct {
	jobs   repository.JobRepository
	events EventPublisher
	logger *slog.Logger
}

// NewJobService creates a job service.
func NewJobService(jobs repository.JobRepository, events EventPublisher, logger *slog.Logger) *JobService {
	return &JobService{jobs: jobs, events: events, logger: logger}
}

// List returns jobs matching filter, newest first.
func (s *JobService) List(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	jobs, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// Get returns a single job.
func (s *JobService) Get(ctx context.Context, id string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, jobError(err, "get job")
	}
	return job, nil
}

// Create adds a job.
func (s *JobService) Create(ctx context.Context, input JobInput) (*domain.Job, error) {
	job := &domain.Job{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Company:     input.Company,
		Location:    input.Location,
		Description: input.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	log := logger.WithContext(ctx, s.logger)
	if err := s.events.PublishJobCreated(ctx, job); err != nil {
		log.Warn("failed to publish job.created event", slog.String("job_id", job.ID), slog.String("error", err.Error()))
	}
	log.Info("job created", slog.String("job_id", job.ID))
	return job, nil
}

// Update replaces the editable fields of job id.
func (s *JobService) Update(ctx context.Context, id string, input JobInput) error {
	job := &domain.Job{
		ID:          id,
		Title:       input.Title,
		Company:     input.Company,
		Location:    input.Location,
		Description: input.Description,
	}
	if err := s.jobs.Update(ctx, job); err != nil {
		return jobError(err, "update job")
	}

	log := logger.WithContext(ctx, s.logger)
	if err := s.events.PublishJobUpdated(ctx, job); err != nil {
		log.Warn("failed to publish job.updated event", slog.String("job_id", id), slog.String("error", err.Error()))
	}
	log.Info("job updated", slog.String("job_id", id))
	return nil
}

// Delete removes job id together with its applications.
func (s *JobService) Delete(ctx context.Context, id string) error {
	if err := s.jobs.Delete(ctx, id); err != nil {
		return jobError(err, "delete job")
	}

	log := logger.WithContext(ctx, s.logger)
	if err := s.events.PublishJobDeleted(ctx, id); err != nil {
		log.Warn("failed to publish job.deleted event", slog.String("job_id", id), slog.String("error", err.Error()))
	}
	log.Info("job deleted", slog.String("job_id", id))
	return nil
}

// jobError turns a missing job into the client-facing 404.
func jobError(err error, op string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NotFound(jobNotFoundMessage)
	}
	return fmt.Errorf("%s: %w", op, err)
}
