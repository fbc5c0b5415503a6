package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/JobPortal/services/jobboard/internal/domain"
	"github.com/utafrali/JobPortal/services/jobboard/internal/repository"
	"github.com/utafrali/JobPortal/services/jobboard/internal/service"
)

// AdminAccount is the administrator created by Seed.
type AdminAccount struct {
	Email    string
	Password string
}

// sampleJobs are inserted into an empty job table.
var sampleJobs = []domain.Job{
	{
		Title:       "Backend Engineer",
		Company:     "Acme Corp",
		Location:    "Remote",
		Description: "Design and operate HTTP services backed by PostgreSQL.",
	},
	{
		Title:       "Frontend Developer",
		Company:     "Globex",
		Location:    "Berlin",
		Description: "Build the job portal web client in React.",
	},
	{
		Title:       "Site Reliability Engineer",
		Company:     "Initech",
		Location:    "Austin",
		Description: "Own monitoring, alerting and incident response.",
	},
}

// Seed creates the admin account if its email is free and inserts sample
// jobs if there are none. It is safe to run repeatedly.
func Seed(
	ctx context.Context,
	users repository.UserRepository,
	jobs repository.JobRepository,
	hasher service.PasswordHasher,
	admin AdminAccount,
	logger *slog.Logger,
) error {
	exists, err := users.EmailExists(ctx, admin.Email)
	if err != nil {
		return fmt.Errorf("check admin email: %w", err)
	}
	if exists {
		logger.Info("admin account already present", slog.String("email", admin.Email))
	} else {
		digest, err := hasher.Hash(admin.Password)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		user := &domain.User{
			ID:           uuid.NewString(),
			Email:        admin.Email,
			PasswordHash: digest,
			Role:         domain.RoleAdmin,
			CreatedAt:    time.Now().UTC(),
		}
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		logger.Info("admin account created", slog.String("user_id", user.ID), slog.String("email", admin.Email))
	}

	existing, err := jobs.List(ctx, domain.JobFilter{})
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("jobs already present, skipping samples")
		return nil
	}

	now := time.Now().UTC()
	for i, sample := range sampleJobs {
		job := sample
		job.ID = uuid.NewString()
		job.CreatedAt = now.Add(time.Duration(i) * time.Second)
		if err := jobs.Create(ctx, &job); err != nil {
			return fmt.Errorf("create sample job %q: %w", job.Title, err)
		}
	}
	logger.Info("sample jobs created", slog.Int("count", len(sampleJobs)))
	return nil
}
