package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/JobPortal/pkg/httputil"
	"github.com/utafrali/JobPortal/pkg/middleware"
	"github.com/utafrali/JobPortal/services/jobboard/internal/service"
)

// AuthHandler handles HTTP requests for auth endpoints.
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// RegisterRequest is the JSON request body for user registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the JSON request body for user login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenRequest is the JSON request body for exchanging a refresh token.
// A missing token is reported by the service as 401, not as a validation
// failure.
type TokenRequest struct {
	Token string `json:"token"`
}

// TokenResponse is the body returned by the token endpoint.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// --- Handlers ---

// Register handles POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	_, err := h.service.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, "User registered successfully")
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}

	pair, err := h.service.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: ClientIP(r),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pair)
}

// Token handles POST /api/token
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	access, err := h.service.Refresh(r.Context(), req.Token)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, TokenResponse{AccessToken: access})
}

// Logout handles POST /api/logout. It must be mounted behind middleware.Auth.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), middleware.UserIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, "Logged out successfully")
}
