package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/JobPortal/pkg/database"
	apperrors "github.com/utafrali/JobPortal/pkg/errors"
	"github.com/utafrali/JobPortal/services/jobboard/internal/domain"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db     database.DBTX
	tracer *database.QueryTracer
}

// NewUserRepository creates a PostgreSQL-backed user repository. tracer may
// be nil.
func NewUserRepository(db database.DBTX, tracer *database.QueryTracer) *UserRepository {
	return &UserRepository{db: db, tracer: tracer}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (err error) {
	const query = `
		INSERT INTO users (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	ctx, end := r.tracer.Trace(ctx, "CreateUser", query)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, query, u.ID, u.Email, u.PasswordHash, u.Role, u.CreatedAt); err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.Conflict("Email already registered")
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by email. Emails are compared exactly.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (_ *domain.User, err error) {
	const query = `
		SELECT id, email, password_hash, role, created_at
		FROM users
		WHERE email = $1`

	ctx, end := r.tracer.Trace(ctx, "GetUserByEmail", query)
	defer func() { end(err) }()

	var u domain.User
	err = r.db.QueryRow(ctx, query, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// EmailExists reports whether the email is registered.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (_ bool, err error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	ctx, end := r.tracer.Trace(ctx, "UserEmailExists", query)
	defer func() { end(err) }()

	var exists bool
	if err = r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user email: %w", err)
	}
	return exists, nil
}

// StoreRefreshToken overwrites the stored refresh token. The last writer
// wins when logins race.
func (r *UserRepository) StoreRefreshToken(ctx context.Context, userID, token string) (err error) {
	const query = `UPDATE users SET refresh_token = $1 WHERE id = $2`

	ctx, end := r.tracer.Trace(ctx, "StoreRefreshToken", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query, token, userID)
	if err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ClearRefreshToken sets the stored refresh token to NULL.
func (r *UserRepository) ClearRefreshToken(ctx context.Context, userID string) (err error) {
	const query = `UPDATE users SET refresh_token = NULL WHERE id = $1`

	ctx, end := r.tracer.Trace(ctx, "ClearRefreshToken", query)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// RefreshTokenMatches compares token with the stored value. A NULL stored
// token never matches.
func (r *UserRepository) RefreshTokenMatches(ctx context.Context, userID, token string) (_ bool, err error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND refresh_token = $2)`

	ctx, end := r.tracer.Trace(ctx, "RefreshTokenMatches", query)
	defer func() { end(err) }()

	var match bool
	if err = r.db.QueryRow(ctx, query, userID, token).Scan(&match); err != nil {
		return false, fmt.Errorf("match refresh token: %w", err)
	}
	return match, nil
}
