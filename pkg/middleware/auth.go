package middleware

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/utafrali/JobPortal/pkg/errors"
	"github.com/utafrali/JobPortal/pkg/httputil"
	"github.com/utafrali/JobPortal/pkg/logger"
)

type contextKeyType string

const claimsKey contextKeyType = "claims"

// Claims is the authenticated identity attached to a request.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// TokenValidator validates an access token and returns its claims.
type TokenValidator func(token string) (*Claims, error)

// Auth rejects requests without a bearer token with 401 and requests whose
// token fails validation with 403. On success the claims are stored in the
// request context.
func Auth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, present := bearerToken(r.Header.Get("Authorization"))
			if !present {
				httputil.WriteError(w, r, apperrors.Unauthorized("Access token required"), nil)
				return
			}

			claims, err := validate(token)
			if err != nil || claims == nil {
				httputil.WriteError(w, r, apperrors.Forbidden("Invalid or expired token"), nil)
				return
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = logger.WithUserID(ctx, claims.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the credential from an Authorization header. present
// is false when no credential was sent at all; a malformed header still
// counts as presented so that it is rejected as invalid.
func bearerToken(header string) (token string, present bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	scheme, rest, found := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "bearer") {
		return header, true
	}
	rest = strings.TrimSpace(rest)
	if !found || rest == "" {
		return "", false
	}
	return rest, true
}

// RequireRole allows the request only when the authenticated role equals one
// of roles exactly. It must be mounted after Auth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				httputil.WriteError(w, r, apperrors.Unauthorized("Access token required"), nil)
				return
			}
			if _, ok := roleSet[claims.Role]; !ok {
				httputil.WriteError(w, r, apperrors.Forbidden("Insufficient permissions"), nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithClaims returns a context carrying claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the authenticated claims, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey).(*Claims)
	return c
}

// UserIDFromContext extracts the user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	if c := ClaimsFromContext(ctx); c != nil {
		return c.ID
	}
	return ""
}

// RoleFromContext extracts the user role from the request context.
func RoleFromContext(ctx context.Context) string {
	if c := ClaimsFromContext(ctx); c != nil {
		return c.Role
	}
	return ""
}
