package postgres

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/JobPortal/pkg/errors"
	"github.com/utafrali/JobPortal/services/jobboard/internal/domain"
)

func newApplicationTestFixture(t *testing.T) (*ApplicationRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewApplicationRepository(mock, nil), mock
}

func sampleApplication() *domain.Application {
	return &domain.Application{
		ID:          "9e1d2c3b-4a5f-4e6d-8c7b-6a5f4e3d2c1b",
		JobID:       sampleJob().ID,
		UserID:      sampleUser().ID,
		CoverLetter: "I would love to work on this.",
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestApplicationRepository_Create(t *testing.T) {
	repo, mock := newApplicationTestFixture(t)
	a := sampleApplication()

	mock.ExpectExec("INSERT INTO applications").
		WithArgs(a.ID, a.JobID, a.UserID, a.CoverLetter, a.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_Create_Duplicate(t *testing.T) {
	repo, mock := newApplicationTestFixture(t)
	a := sampleApplication()

	mock.ExpectExec("INSERT INTO applications").
		WithArgs(a.ID, a.JobID, a.UserID, a.CoverLetter, a.CreatedAt).
		WillReturnError(uniqueViolation)

	err := repo.Create(context.Background(), a)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "You already applied to this job", appErr.Message)
}

func TestApplicationRepository_Create_JobDeleted(t *testing.T) {
	repo, mock := newApplicationTestFixture(t)
	a := sampleApplication()

	mock.ExpectExec("INSERT INTO applications").
		WithArgs(a.ID, a.JobID, a.UserID, a.CoverLetter, a.CreatedAt).
		WillReturnError(foreignKeyViolation)

	err := repo.Create(context.Background(), a)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Job not found", appErr.Message)
	assert.Equal(t, 404, appErr.Status)
}

func TestApplicationRepository_Exists(t *testing.T) {
	repo, mock := newApplicationTestFixture(t)
	a := sampleApplication()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(a.JobID, a.UserID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.Exists(context.Background(), a.JobID, a.UserID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestApplicationRepository_ListApplicants(t *testing.T) {
	repo, mock := newApplicationTestFixture(t)
	a := sampleApplication()

	mock.ExpectQuery("JOIN users u ON a.user_id = u.id").
		WithArgs(a.JobID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "cover_letter", "created_at", "email"}).
			AddRow(a.ID, a.CoverLetter, a.CreatedAt, "alice@example.com"))

	applicants, err := repo.ListApplicants(context.Background(), a.JobID)
	require.NoError(t, err)
	require.Len(t, applicants, 1)
	assert.Equal(t, domain.Applicant{
		ID:          a.ID,
		CoverLetter: a.CoverLetter,
		CreatedAt:   a.CreatedAt,
		Email:       "alice@example.com",
	}, applicants[0])
}

func TestApplicationRepository_ListApplicants_Empty(t *testing.T) {
	repo, mock := newApplicationTestFixture(t)

	mock.ExpectQuery("FROM applications a").
		WithArgs("job-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "cover_letter", "created_at", "email"}))

	applicants, err := repo.ListApplicants(context.Background(), "job-1")
	require.NoError(t, err)
	assert.NotNil(t, applicants)
	assert.Empty(t, applicants)
}
