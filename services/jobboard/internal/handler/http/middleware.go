package http

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/utafrali/JobPortal/pkg/httputil"
	"github.com/utafrali/JobPortal/pkg/validator"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// ContentTypeJSON rejects request bodies declared as anything other than
// JSON. Requests without a Content-Type pass through.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(strings.ToLower(ct), "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.ErrorResponse{
					Error: "Content-Type must be application/json",
					Code:  "UNSUPPORTED_MEDIA_TYPE",
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the host part of r.RemoteAddr. Forwarding headers are not
// trusted; deployments behind a proxy should rewrite RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// decode reads and validates a JSON body into dst. On failure it writes the
// 400 response and returns false.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := validator.DecodeAndValidate(r, dst); err != nil {
		httputil.WriteValidationError(w, r, err)
		return false
	}
	return true
}

// decodeOptional is decode for endpoints whose body may be omitted.
func decodeOptional(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := validator.DecodeAndValidate(r, dst)
	if errors.Is(err, validator.ErrEmptyBody) {
		err = validator.Validate(dst)
	}
	if err != nil {
		httputil.WriteValidationError(w, r, err)
		return false
	}
	return true
}
