package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- ContentTypeJSON Middleware Tests ---

func TestContentTypeJSON(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
		wantCalled  bool
	}{
		{"post without content type", http.MethodPost, "", true},
		{"put without content type", http.MethodPut, "", true},
		{"post with json", http.MethodPost, "application/json", true},
		{"post with json charset", http.MethodPost, "application/json; charset=utf-8", true},
		{"post with upper-case json", http.MethodPost, "Application/JSON", true},
		{"post with form", http.MethodPost, "application/x-www-form-urlencoded", false},
		{"patch with text", http.MethodPatch, "text/plain", false},
		{"get with text", http.MethodGet, "text/plain", true},
		{"delete without content type", http.MethodDelete, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := ContentTypeJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, "/api/test", strings.NewReader(`{"key":"value"}`))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCalled, called)
			if !tt.wantCalled {
				assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
				assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
				assert.JSONEq(t,
					`{"error":"Content-Type must be application/json","code":"UNSUPPORTED_MEDIA_TYPE"}`,
					rr.Body.String())
			}
		})
	}
}

// --- ClientIP Tests ---

func TestClientIP(t *testing.T) {
	tests := []struct {
		remoteAddr string
		want       string
	}{
		{"203.0.113.7:52100", "203.0.113.7"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"203.0.113.7", "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.remoteAddr, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
			req.RemoteAddr = tt.remoteAddr
			req.Header.Set("X-Forwarded-For", "198.51.100.1")

			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}
