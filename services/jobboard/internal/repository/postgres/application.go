package postgres

import (
	"context"
	"fmt"

	"github.com/utafrali/JobPortal/pkg/database"
	apperrors "github.com/utafrali/JobPortal/pkg/errors"
	"github.com/utafrali/JobPortal/services/jobboard/internal/domain"
)

// ApplicationRepository implements repository.ApplicationRepository using
// PostgreSQL.
type ApplicationRepository struct {
	db     database.DBTX
	tracer *database.QueryTracer
}

// NewApplicationRepository creates a PostgreSQL-backed application repository.
func NewApplicationRepository(db database.DBTX, tracer *database.QueryTracer) *ApplicationRepository {
	return &ApplicationRepository{db: db, tracer: tracer}
}

// Create inserts an application. The (job_id, user_id) unique constraint
// catches concurrent duplicates that slip past Exists, and the job foreign
// key catches a job deleted after it was looked up.
func (r *ApplicationRepository) Create(ctx context.Context, a *domain.Application) (err error) {
	const query = `
		INSERT INTO applications (id, job_id, user_id, cover_letter, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	ctx, end := r.tracer.Trace(ctx, "CreateApplication", query)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, query, a.ID, a.JobID, a.UserID, a.CoverLetter, a.CreatedAt); err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.Conflict("You already applied to this job")
		}
		if database.IsForeignKeyViolation(err) {
			return apperrors.NotFound("Job not found")
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

// Exists reports whether userID applied to jobID.
func (r *ApplicationRepository) Exists(ctx context.Context, jobID, userID string) (_ bool, err error) {
	const query = `SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND user_id = $2)`

	ctx, end := r.tracer.Trace(ctx, "ApplicationExists", query)
	defer func() { end(err) }()

	var exists bool
	if err = r.db.QueryRow(ctx, query, jobID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check application: %w", err)
	}
	return exists, nil
}

// ListApplicants returns the applications to jobID joined with the
// applicant's email.
func (r *ApplicationRepository) ListApplicants(ctx context.Context, jobID string) (_ []domain.Applicant, err error) {
	const query = `
		SELECT a.id, a.cover_letter, a.created_at, u.email
		FROM applications a
		JOIN users u ON a.user_id = u.id
		WHERE a.job_id = $1
		ORDER BY a.created_at`

	ctx, end := r.tracer.Trace(ctx, "ListApplicants", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	defer rows.Close()

	applicants := make([]domain.Applicant, 0)
	for rows.Next() {
		var a domain.Applicant
		if err = rows.Scan(&a.ID, &a.CoverLetter, &a.CreatedAt, &a.Email); err != nil {
			return nil, fmt.Errorf("scan applicant: %w", err)
		}
		applicants = append(applicants, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applicants: %w", err)
	}
	return applicants, nil
}
