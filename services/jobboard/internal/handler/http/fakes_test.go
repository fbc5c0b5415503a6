package http

import (
	"context"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/utafrali/JobPortal/pkg/errors"
	"github.com/utafrali/JobPortal/services/jobboard/internal/domain"
)

// memStore is an in-memory implementation of the three repositories,
// sharing one lock so that job deletion can remove applications atomically.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	refresh  map[string]string
	jobs     map[string]domain.Job
	apps     []domain.Application
	failNext error
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[string]*domain.User),
		refresh: make(map[string]string),
		jobs:    make(map[string]domain.Job),
	}
}

// fail makes the next repository call return err.
func (s *memStore) fail(err error) {
	s.mu.Lock()
	s.failNext = err
	s.mu.Unlock()
}

func (s *memStore) takeFailure() error {
	err := s.failNext
	s.failNext = nil
	return err
}

type memUsers struct{ *memStore }

func (s memUsers) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return apperrors.Conflict("Email already registered")
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s memUsers) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return false, err
	}
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s memUsers) StoreRefreshToken(_ context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	if _, ok := s.users[userID]; !ok {
		return apperrors.ErrNotFound
	}
	s.refresh[userID] = token
	return nil
}

func (s memUsers) ClearRefreshToken(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	delete(s.refresh, userID)
	return nil
}

func (s memUsers) RefreshTokenMatches(_ context.Context, userID, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return false, err
	}
	stored, ok := s.refresh[userID]
	return ok && stored == token, nil
}

type memJobs struct{ *memStore }

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (s memJobs) List(_ context.Context, f domain.JobFilter) ([]domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	var out []domain.Job
	for _, j := range s.jobs {
		if containsFold(j.Title, f.Title) && containsFold(j.Company, f.Company) && containsFold(j.Location, f.Location) {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, nil
}

func (s memJobs) GetByID(_ context.Context, id string) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	j, ok := s.jobs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &j, nil
}

func (s memJobs) Create(_ context.Context, j *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	s.jobs[j.ID] = *j
	return nil
}

func (s memJobs) Update(_ context.Context, j *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	existing, ok := s.jobs[j.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	existing.Title, existing.Company, existing.Location, existing.Description = j.Title, j.Company, j.Location, j.Description
	s.jobs[j.ID] = existing
	return nil
}

func (s memJobs) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	if _, ok := s.jobs[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.jobs, id)
	kept := s.apps[:0]
	for _, a := range s.apps {
		if a.JobID != id {
			kept = append(kept, a)
		}
	}
	s.apps = kept
	return nil
}

type memApps struct{ *memStore }

func (s memApps) Create(_ context.Context, a *domain.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	for _, existing := range s.apps {
		if existing.JobID == a.JobID && existing.UserID == a.UserID {
			return apperrors.Conflict("You already applied to this job")
		}
	}
	s.apps = append(s.apps, *a)
	return nil
}

func (s memApps) Exists(_ context.Context, jobID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return false, err
	}
	for _, a := range s.apps {
		if a.JobID == jobID && a.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s memApps) ListApplicants(_ context.Context, jobID string) ([]domain.Applicant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	var out []domain.Applicant
	for _, a := range s.apps {
		if a.JobID != jobID {
			continue
		}
		applicant := domain.Applicant{ID: a.ID, CoverLetter: a.CoverLetter, CreatedAt: a.CreatedAt}
		if u, ok := s.users[a.UserID]; ok {
			applicant.Email = u.Email
		}
		out = append(out, applicant)
	}
	return out, nil
}
