package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/utafrali/JobPortal/services/jobboard/internal/auth"
	"github.com/utafrali/JobPortal/services/jobboard/internal/domain"
)

type mockUserRepository struct{ mock.Mock }

func (m *mockUserRepository) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) StoreRefreshToken(ctx context.Context, userID, token string) error {
	return m.Called(ctx, userID, token).Error(0)
}

func (m *mockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockUserRepository) RefreshTokenMatches(ctx context.Context, userID, token string) (bool, error) {
	args := m.Called(ctx, userID, token)
	return args.Bool(0), args.Error(1)
}

type mockJobRepository struct{ mock.Mock }

func (m *mockJobRepository) List(ctx context.Context, f domain.JobFilter) ([]domain.Job, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *mockJobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *mockJobRepository) Create(ctx context.Context, j *domain.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *mockJobRepository) Update(ctx context.Context, j *domain.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *mockJobRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockApplicationRepository struct{ mock.Mock }

func (m *mockApplicationRepository) Create(ctx context.Context, a *domain.Application) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockApplicationRepository) Exists(ctx context.Context, jobID, userID string) (bool, error) {
	args := m.Called(ctx, jobID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockApplicationRepository) ListApplicants(ctx context.Context, jobID string) ([]domain.Applicant, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Applicant), args.Error(1)
}

type mockLimiter struct{ mock.Mock }

func (m *mockLimiter) Allow(ctx context.Context, email, ip string) error {
	return m.Called(ctx, email, ip).Error(0)
}

func (m *mockLimiter) Reset(ctx context.Context, email, ip string) error {
	return m.Called(ctx, email, ip).Error(0)
}

type mockEvents struct{ mock.Mock }

func (m *mockEvents) PublishUserRegistered(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockEvents) PublishJobCreated(ctx context.Context, j *domain.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *mockEvents) PublishJobUpdated(ctx context.Context, j *domain.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *mockEvents) PublishJobDeleted(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockEvents) PublishApplicationSubmitted(ctx context.Context, a *domain.Application) error {
	return m.Called(ctx, a).Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const (
	testAccessSecret  = "service-test-access-secret-0123456789"
	testRefreshSecret = "service-test-refresh-secret-0123456789"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newTestHasher(t *testing.T) *auth.Hasher {
	t.Helper()
	h, err := auth.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func newTestTokens(t *testing.T, clock *testClock) *auth.JWTManager {
	t.Helper()
	m, err := auth.NewJWTManager(testAccessSecret, testRefreshSecret, auth.WithClock(clock.Now))
	require.NoError(t, err)
	return m
}
