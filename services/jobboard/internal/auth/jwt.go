package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/utafrali/JobPortal/services/jobboard/internal/domain"
)

// Token lifetimes.
const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

const issuer = "jobboard"

// ErrInvalidToken is returned for any token that fails verification:
// malformed, wrongly signed, signed with another algorithm, or expired.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims of both token classes.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies access and refresh tokens. The two token
// classes are signed with different secrets, so neither verifies as the
// other.
type JWTManager struct {
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

// Option configures a JWTManager.
type Option func(*JWTManager)

// WithClock replaces time.Now as the source of issue and verification times.
func WithClock(now func() time.Time) Option {
	return func(m *JWTManager) { m.now = now }
}

// NewJWTManager creates a manager for the given secrets.
func NewJWTManager(accessSecret, refreshSecret string, opts ...Option) (*JWTManager, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("token secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	m := &JWTManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// IssueAccess signs a 15 minute access token for claim.
func (m *JWTManager) IssueAccess(claim domain.Claim) (string, error) {
	token, err := m.sign(claim, m.accessSecret, AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return token, nil
}

// IssueRefresh signs a 7 day refresh token for claim.
func (m *JWTManager) IssueRefresh(claim domain.Claim) (string, error) {
	token, err := m.sign(claim, m.refreshSecret, RefreshTokenTTL)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return token, nil
}

// VerifyAccess returns the claim of a valid access token.
func (m *JWTManager) VerifyAccess(token string) (domain.Claim, error) {
	return m.verify(token, m.accessSecret)
}

// VerifyRefresh returns the claim of a valid refresh token. It does not
// check whether the token is the one currently stored for the user.
func (m *JWTManager) VerifyRefresh(token string) (domain.Claim, error) {
	return m.verify(token, m.refreshSecret)
}

func (m *JWTManager) sign(claim domain.Claim, secret []byte, ttl time.Duration) (string, error) {
	now := m.now().UTC()
	claims := &Claims{
		ID:    claim.ID,
		Email: claim.Email,
		Role:  claim.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   claim.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (m *JWTManager) verify(tokenString string, secret []byte) (domain.Claim, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return domain.Claim{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.ID == "" {
		return domain.Claim{}, ErrInvalidToken
	}
	return domain.Claim{ID: claims.ID, Email: claims.Email, Role: claims.Role}, nil
}
