package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/JobPortal/pkg/database"
	apperrors "github.com/utafrali/JobPortal/pkg/errors"
	"github.com/utafrali/JobPortal/services/jobboard/internal/domain"
)

const jobColumns = `id, title, company, location, description, created_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// JobRepository implements repository.JobRepository using PostgreSQL.
type JobRepository struct {
	db     database.DBTX
	tracer *database.QueryTracer
}

// NewJobRepository creates a PostgreSQL-backed job repository.
func NewJobRepository(db database.DBTX, tracer *database.QueryTracer) *JobRepository {
	return &JobRepository{db: db, tracer: tracer}
}

// List returns jobs whose title, company and location contain the filter
// values, ignoring case. Wildcards in filter values match literally.
func (r *JobRepository) List(ctx context.Context, filter domain.JobFilter) (_ []domain.Job, err error) {
	var (
		where []string
		args  []any
	)
	for _, f := range []struct{ column, value string }{
		{"title", filter.Title},
		{"company", filter.Company},
		{"location", filter.Location},
	} {
		if f.value == "" {
			continue
		}
		args = append(args, "%"+likeEscaper.Replace(f.value)+"%")
		where = append(where, f.column+" ILIKE $"+strconv.Itoa(len(args)))
	}

	query := "SELECT " + jobColumns + " FROM jobs"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	ctx, end := r.tracer.Trace(ctx, "ListJobs", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]domain.Job, 0)
	for rows.Next() {
		var j domain.Job
		if err = rows.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Description, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

// GetByID retrieves a job by id.
func (r *JobRepository) GetByID(ctx context.Context, id string) (_ *domain.Job, err error) {
	const query = `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	ctx, end := r.tracer.Trace(ctx, "GetJob", query)
	defer func() { end(err) }()

	var j domain.Job
	err = r.db.QueryRow(ctx, query, id).Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Description, &j.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &j, nil
}

// Create inserts a job.
func (r *JobRepository) Create(ctx context.Context, j *domain.Job) (err error) {
	const query = `
		INSERT INTO jobs (id, title, company, location, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	ctx, end := r.tracer.Trace(ctx, "CreateJob", query)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, query, j.ID, j.Title, j.Company, j.Location, j.Description, j.CreatedAt); err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// Update replaces title, company, location and description.
func (r *JobRepository) Update(ctx context.Context, j *domain.Job) (err error) {
	const query = `
		UPDATE jobs
		SET title = $1, company = $2, location = $3, description = $4
		WHERE id = $5`

	ctx, end := r.tracer.Trace(ctx, "UpdateJob", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query, j.Title, j.Company, j.Location, j.Description, j.ID)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes a job and its applications in one transaction.
func (r *JobRepository) Delete(ctx context.Context, id string) (err error) {
	const (
		deleteApplications = `DELETE FROM applications WHERE job_id = $1`
		deleteJob          = `DELETE FROM jobs WHERE id = $1`
	)

	ctx, end := r.tracer.Trace(ctx, "DeleteJob", deleteJob)
	defer func() { end(err) }()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete job: %w", err)
	}

	if _, err = tx.Exec(ctx, deleteApplications, id); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("delete job applications: %w", err)
	}
	ct, err := tx.Exec(ctx, deleteJob, id)
	if err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("delete job: %w", err)
	}
	if ct.RowsAffected() == 0 {
		_ = tx.Rollback(ctx)
		return apperrors.ErrNotFound
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete job: %w", err)
	}
	return nil
}
