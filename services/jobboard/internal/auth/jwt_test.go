package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/JobPortal/services/jobboard/internal/domain"
)

const (
	testAccessSecret  = "test-access-secret-0123456789abcdef"
	testRefreshSecret = "test-refresh-secret-0123456789abcdef"
)

var testClaim = domain.Claim{ID: "7d7f4c1e-52f5-4a52-9a7e-0c0f5d0b1a11", Email: "jane@example.com", Role: domain.RoleUser}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestManager(t *testing.T, clock *fakeClock) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testAccessSecret, testRefreshSecret, WithClock(clock.Now))
	require.NoError(t, err)
	return m
}

func TestJWTManager_AccessRoundTrip(t *testing.T) {
	m := newTestManager(t, &fakeClock{t: time.Now()})

	token, err := m.IssueAccess(testClaim)
	require.NoError(t, err)

	got, err := m.VerifyAccess(token)
	require.NoError(t, err)
	assert.Equal(t, testClaim, got)
}

func TestJWTManager_RefreshRoundTrip(t *testing.T) {
	m := newTestManager(t, &fakeClock{t: time.Now()})

	token, err := m.IssueRefresh(testClaim)
	require.NoError(t, err)

	got, err := m.VerifyRefresh(token)
	require.NoError(t, err)
	assert.Equal(t, testClaim, got)
}

func TestJWTManager_SecretsAreIsolated(t *testing.T) {
	m := newTestManager(t, &fakeClock{t: time.Now()})

	access, err := m.IssueAccess(testClaim)
	require.NoError(t, err)
	refresh, err := m.IssueRefresh(testClaim)
	require.NoError(t, err)

	_, err = m.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.VerifyAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_Expiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(t, clock)

	access, err := m.IssueAccess(testClaim)
	require.NoError(t, err)
	refresh, err := m.IssueRefresh(testClaim)
	require.NoError(t, err)

	clock.t = clock.t.Add(AccessTokenTTL - time.Second)
	_, err = m.VerifyAccess(access)
	require.NoError(t, err)

	clock.t = clock.t.Add(2 * time.Second)
	_, err = m.VerifyAccess(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.VerifyRefresh(refresh)
	assert.NoError(t, err, "refresh token outlives the access token")

	clock.t = time.Date(2026, 1, 8, 12, 0, 1, 0, time.UTC)
	_, err = m.VerifyRefresh(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_TokensAreUnique(t *testing.T) {
	m := newTestManager(t, &fakeClock{t: time.Now()})

	a, err := m.IssueRefresh(testClaim)
	require.NoError(t, err)
	b, err := m.IssueRefresh(testClaim)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestJWTManager_RejectsOtherAlgorithms(t *testing.T) {
	m := newTestManager(t, &fakeClock{t: time.Now()})
	claims := &Claims{
		ID: testClaim.ID, Email: testClaim.Email, Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testAccessSecret))
	require.NoError(t, err)
	_, err = m.VerifyAccess(hs512)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.VerifyAccess(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsTamperedAndGarbage(t *testing.T) {
	m := newTestManager(t, &fakeClock{t: time.Now()})

	token, err := m.IssueAccess(testClaim)
	require.NoError(t, err)
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{ID: testClaim.ID, Role: domain.RoleAdmin}).
		SignedString([]byte(testAccessSecret))
	require.NoError(t, err)
	tampered := strings.Join([]string{strings.Split(forged, ".")[0], strings.Split(forged, ".")[1], parts[2]}, ".")

	for _, bad := range []string{"", "garbage", "a.b.c", tampered} {
		_, err := m.VerifyAccess(bad)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", bad)
	}
}

func TestJWTManager_RequiresExpiry(t *testing.T) {
	m := newTestManager(t, &fakeClock{t: time.Now()})

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		ID: testClaim.ID, RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer},
	}).SignedString([]byte(testAccessSecret))
	require.NoError(t, err)

	_, err = m.VerifyAccess(noExp)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTManager_RejectsBadSecrets(t *testing.T) {
	_, err := NewJWTManager("", testRefreshSecret)
	assert.Error(t, err)
	_, err = NewJWTManager(testAccessSecret, testAccessSecret)
	assert.Error(t, err)
}
