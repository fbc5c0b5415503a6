package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/JobPortal/pkg/errors"
	"github.com/utafrali/JobPortal/services/jobboard/internal/domain"
)

var jobCols = []string{"id", "title", "company", "location", "description", "created_at"}

func newJobTestFixture(t *testing.T) (*JobRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewJobRepository(mock, nil), mock
}

func sampleJob() *domain.Job {
	return &domain.Job{
		ID:          "4b5f7e3a-9c2d-4e11-8a6b-1f2e3d4c5b6a",
		Title:       "Backend Engineer",
		Company:     "Acme",
		Location:    "Berlin",
		Description: "Build and run Go services.",
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

func jobRows(jobs ...*domain.Job) *pgxmock.Rows {
	rows := pgxmock.NewRows(jobCols)
	for _, j := range jobs {
		rows.AddRow(j.ID, j.Title, j.Company, j.Location, j.Description, j.CreatedAt)
	}
	return rows
}

func TestJobRepository_List_NoFilter(t *testing.T) {
	repo, mock := newJobTestFixture(t)
	j := sampleJob()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, company, location, description, created_at FROM jobs ORDER BY created_at DESC")).
		WillReturnRows(jobRows(j))

	jobs, err := repo.List(context.Background(), domain.JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, []domain.Job{*j}, jobs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_List_Filters(t *testing.T) {
	repo, mock := newJobTestFixture(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM jobs WHERE title ILIKE $1 AND location ILIKE $2 ORDER BY created_at DESC")).
		WithArgs("%engineer%", "%100\\%\\_remote%").
		WillReturnRows(jobRows())

	jobs, err := repo.List(context.Background(), domain.JobFilter{Title: "engineer", Location: "100%_remote"})
	require.NoError(t, err)
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_List_QueryError(t *testing.T) {
	repo, mock := newJobTestFixture(t)

	mock.ExpectQuery("FROM jobs").WillReturnError(errors.New("boom"))

	_, err := repo.List(context.Background(), domain.JobFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list jobs")
}

func TestJobRepository_GetByID(t *testing.T) {
	repo, mock := newJobTestFixture(t)
	j := sampleJob()

	mock.ExpectQuery("FROM jobs WHERE id").WithArgs(j.ID).WillReturnRows(jobRows(j))

	got, err := repo.GetByID(context.Background(), j.ID)
	require.NoError(t, err)
	assert.Equal(t, j, got)
}

func TestJobRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newJobTestFixture(t)

	mock.ExpectQuery("FROM jobs WHERE id").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestJobRepository_Create(t *testing.T) {
	repo, mock := newJobTestFixture(t)
	j := sampleJob()

	mock.ExpectExec("INSERT INTO jobs").
		WithArgs(j.ID, j.Title, j.Company, j.Location, j.Description, j.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), j))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_Update(t *testing.T) {
	repo, mock := newJobTestFixture(t)
	j := sampleJob()

	mock.ExpectExec("UPDATE jobs").
		WithArgs(j.Title, j.Company, j.Location, j.Description, j.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Update(context.Background(), j))
}

func TestJobRepository_Update_NotFound(t *testing.T) {
	repo, mock := newJobTestFixture(t)
	j := sampleJob()

	mock.ExpectExec("UPDATE jobs").
		WithArgs(j.Title, j.Company, j.Location, j.Description, j.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(t, repo.Update(context.Background(), j), apperrors.ErrNotFound)
}

func TestJobRepository_Delete(t *testing.T) {
	repo, mock := newJobTestFixture(t)
	id := sampleJob().ID

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM applications").WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec("DELETE FROM jobs").WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_Delete_NotFoundRollsBack(t *testing.T) {
	repo, mock := newJobTestFixture(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM applications").WithArgs("missing").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM jobs").WithArgs("missing").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_Delete_ApplicationsErrorRollsBack(t *testing.T) {
	repo, mock := newJobTestFixture(t)
	id := sampleJob().ID

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM applications").WithArgs(id).WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete job applications")
	assert.NoError(t, mock.ExpectationsWereMet())
}
