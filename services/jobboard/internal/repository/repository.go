package repository

import (
	"context"

	"github.com/utafrali/JobPortal/services/jobboard/internal/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	// Create inserts a user. A duplicate email yields apperrors.ErrConflict.
	Create(ctx context.Context, user *domain.User) error

	// GetByEmail returns the user with the exact email, or
	// apperrors.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// EmailExists reports whether a user with the email is registered.
	EmailExists(ctx context.Context, email string) (bool, error)

	// StoreRefreshToken overwrites the user's current refresh token.
	StoreRefreshToken(ctx context.Context, userID, token string) error

	// ClearRefreshToken sets the user's refresh token to NULL. Clearing an
	// already empty token, or an unknown user, is not an error.
	ClearRefreshToken(ctx context.Context, userID string) error

	// RefreshTokenMatches reports whether token equals the refresh token
	// stored for userID.
	RefreshTokenMatches(ctx context.Context, userID, token string) (bool, error)
}

// JobRepository persists job listings.
type JobRepository interface {
	// List returns jobs matching filter, newest first.
	List(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error)

	// GetByID returns a job or apperrors.ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Job, error)

	// Create inserts a job.
	Create(ctx context.Context, job *domain.Job) error

	// Update replaces a job's editable fields. Unknown ids yield
	// apperrors.ErrNotFound.
	Update(ctx context.Context, job *domain.Job) error

	// Delete removes a job and its applications atomically. Unknown ids
	// yield apperrors.ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// ApplicationRepository persists job applications.
type ApplicationRepository interface {
	// Create inserts an application. A second application by the same user
	// to the same job yields apperrors.ErrConflict.
	Create(ctx context.Context, app *domain.Application) error

	// Exists reports whether userID already applied to jobID.
	Exists(ctx context.Context, jobID, userID string) (bool, error)

	// ListApplicants returns the applications to jobID with applicant
	// emails, oldest first.
	ListApplicants(ctx context.Context, jobID string) ([]domain.Applicant, error)
}
