package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	apperrors "github.com/utafrali/JobPortal/pkg/errors"
	"github.com/utafrali/JobPortal/pkg/logger"
	"github.com/utafrali/JobPortal/pkg/validator"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// MessageResponse is the body of endpoints that only acknowledge an action.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes a 200 response carrying only a message.
func WriteMessage(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, MessageResponse{Message: message})
}

// WriteError writes the error body for err. AppErrors keep their status and
// message; anything else becomes a 500 whose detail is logged, not returned.
// It prefers the request-scoped logger from context over the fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}
	requestID := logger.CorrelationIDFromContext(r.Context())

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeValidation(w, valErr, requestID)
		return
	}

	appErr := apperrors.FromError(err)

	if appErr.Status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, appErr.Status, ErrorResponse{
		Error:     appErr.Message,
		Code:      appErr.Code,
		RequestID: requestID,
	})
}

// WriteValidationError writes a 400 for a request that failed decoding or
// validation. Field-level detail is included for validator errors.
func WriteValidationError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := logger.CorrelationIDFromContext(r.Context())

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeValidation(w, valErr, requestID)
		return
	}

	WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:     "Invalid request body",
		Code:      "INVALID_INPUT",
		RequestID: requestID,
	})
}

func writeValidation(w http.ResponseWriter, valErr *validator.ValidationError, requestID string) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:     valErr.Error(),
		Code:      "VALIDATION_ERROR",
		Fields:    valErr.Fields(),
		RequestID: requestID,
	})
}

// ParseUUID validates that the given string is a valid UUID and returns it.
// If invalid, it writes the not-found response for the resource and returns
// false, signaling the caller to return early. A malformed id can never name
// an existing row.
func ParseUUID(w http.ResponseWriter, r *http.Request, param, notFoundMessage string) (uuid.UUID, bool) {
	id, err := uuid.Parse(param)
	if err != nil {
		WriteJSON(w, http.StatusNotFound, ErrorResponse{
			Error:     notFoundMessage,
			Code:      "NOT_FOUND",
			RequestID: logger.CorrelationIDFromContext(r.Context()),
		})
		return uuid.Nil, false
	}
	return id, true
}
