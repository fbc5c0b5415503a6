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
	"github.com/utafrali/JobPortal/services/jobboard/internal/auth"
	"github.com/utafrali/JobPortal/services/jobboard/internal/domain"
	"github.com/utafrali/JobPortal/services/jobboard/internal/ratelimit"
	"github.com/utafrali/JobPortal/services/jobboard/internal/repository"
)

// PasswordHasher hashes and verifies passwords. *auth.Hasher implements it.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
	VerifyDummy(plaintext string) bool
}

// TokenManager issues and verifies tokens. *auth.JWTManager implements it.
type TokenManager interface {
	IssueAccess(claim domain.Claim) (string, error)
	IssueRefresh(claim domain.Claim) (string, error)
	VerifyRefresh(token string) (domain.Claim, error)
}

// LoginLimiter throttles login attempts. *ratelimit.LoginLimiter implements it.
type LoginLimiter interface {
	Allow(ctx context.Context, email, ip string) error
	Reset(ctx context.Context, email, ip string) error
}

// EventPublisher publishes domain events. *event.Producer implements it.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, u *domain.User) error
	PublishJobCreated(ctx context.Context, j *domain.Job) error
	PublishJobUpdated(ctx context.Context, j *domain.Job) error
	PublishJobDeleted(ctx context.Context, jobID string) error
	PublishApplicationSubmitted(ctx context.Context, a *domain.Application) error
}

// RegisterInput holds the parameters for registering a user.
type RegisterInput struct {
	Email    string
	Password string
}

// LoginInput holds the parameters for a login. ClientIP keys the limiter.
type LoginInput struct {
	Email    string
	Password string
	ClientIP string
}

// AuthService implements registration, login, token refresh and logout.
type AuthService struct {
	users   repository.UserRepository
	hasher  PasswordHasher
	tokens  TokenManager
	limiter LoginLimiter
	events  EventPublisher
	metrics *AuthMetrics
	logger  *slog.Logger
}

// NewAuthService creates an auth service. limiter and metrics may be nil.
func NewAuthService(
	users repository.UserRepository,
	hasher PasswordHasher,
	tokens TokenManager,
	limiter LoginLimiter,
	events EventPublisher,
	metrics *AuthMetrics,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		limiter: limiter,
		events:  events,
		metrics: metrics,
		logger:  logger,
	}
}

// Register creates a user with role "user". No tokens are issued.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	log := logger.WithContext(ctx, s.logger)

	exists, err := s.users.EmailExists(ctx, input.Email)
	if err != nil {
		s.metrics.record(eventRegister, outcomeError)
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		s.metrics.record(eventRegister, outcomeRejected)
		return nil, apperrors.Conflict("Email already registered")
	}

	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			s.metrics.record(eventRegister, outcomeRejected)
			return nil, apperrors.InvalidInput("password must be at most 72 bytes")
		}
		s.metrics.record(eventRegister, outcomeError)
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: digest,
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			s.metrics.record(eventRegister, outcomeRejected)
		} else {
			s.metrics.record(eventRegister, outcomeError)
		}
		return nil, err
	}

	if err := s.events.PublishUserRegistered(ctx, user); err != nil {
		log.Warn("failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.metrics.record(eventRegister, outcomeSuccess)
	log.Info("user registered", slog.String("user_id", user.ID))
	return user, nil
}

// Login verifies credentials, issues an access and refresh token, and stores
// the refresh token as the user's only valid one. Unknown emails and wrong
// passwords fail identically.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.TokenPair, error) {
	log := logger.WithContext(ctx, s.logger)

	if s.limiter != nil {
		if err := s.limiter.Allow(ctx, input.Email, input.ClientIP); err != nil {
			if errors.Is(err, ratelimit.ErrLimited) {
				s.metrics.record(eventLogin, outcomeRateLimited)
				log.Warn("login rate limited", slog.String("client_ip", input.ClientIP))
				return nil, apperrors.RateLimited("Too many login attempts, try again later")
			}
			log.Warn("login limiter unavailable, allowing attempt", slog.String("error", err.Error()))
		}
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.hasher.VerifyDummy(input.Password)
			s.metrics.record(eventLogin, outcomeRejected)
			return nil, apperrors.InvalidCredentials()
		}
		s.metrics.record(eventLogin, outcomeError)
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		s.metrics.record(eventLogin, outcomeRejected)
		return nil, apperrors.InvalidCredentials()
	}

	claim := user.Claim()
	access, err := s.tokens.IssueAccess(claim)
	if err != nil {
		s.metrics.record(eventLogin, outcomeError)
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(claim)
	if err != nil {
		s.metrics.record(eventLogin, outcomeError)
		return nil, err
	}
	if err := s.users.StoreRefreshToken(ctx, user.ID, refresh); err != nil {
		// The account was removed after the credentials checked out.
		if errors.Is(err, apperrors.ErrNotFound) {
			s.metrics.record(eventLogin, outcomeRejected)
			return nil, apperrors.InvalidCredentials()
		}
		s.metrics.record(eventLogin, outcomeError)
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, input.Email, input.ClientIP); err != nil {
			log.Warn("failed to reset login limiter", slog.String("error", err.Error()))
		}
	}

	s.metrics.record(eventLogin, outcomeSuccess)
	log.Info("user logged in", slog.String("user_id", user.ID))
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user.Public(),
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The token must
// verify with the refresh secret and equal the one stored for its user. The
// refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, token string) (string, error) {
	log := logger.WithContext(ctx, s.logger)

	if token == "" {
		s.metrics.record(eventRefresh, outcomeRejected)
		return "", apperrors.Unauthorized("Token required")
	}

	claim, err := s.tokens.VerifyRefresh(token)
	if err != nil {
		s.metrics.record(eventRefresh, outcomeRejected)
		return "", apperrors.InvalidRefreshToken()
	}

	match, err := s.users.RefreshTokenMatches(ctx, claim.ID, token)
	if err != nil {
		s.metrics.record(eventRefresh, outcomeError)
		log.Error("refresh token lookup failed", slog.String("user_id", claim.ID), slog.String("error", err.Error()))
		return "", apperrors.InvalidRefreshToken()
	}
	if !match {
		s.metrics.record(eventRefresh, outcomeRejected)
		return "", apperrors.InvalidRefreshToken()
	}

	access, err := s.tokens.IssueAccess(claim)
	if err != nil {
		s.metrics.record(eventRefresh, outcomeError)
		return "", err
	}

	s.metrics.record(eventRefresh, outcomeSuccess)
	log.Info("access token refreshed", slog.String("user_id", claim.ID))
	return access, nil
}

// Logout clears the stored refresh token of userID. Repeated calls succeed.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		s.metrics.record(eventLogout, outcomeError)
		return fmt.Errorf("clear refresh token: %w", err)
	}

	s.metrics.record(eventLogout, outcomeSuccess)
	logger.WithContext(ctx, s.logger).Info("user logged out", slog.String("user_id", userID))
	return nil
}
