package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/JobPortal/pkg/logger"
)

// RequestLogger stores a request-scoped logger, enriched with correlation_id,
// user_id, trace_id and span_id, in the context. Handlers retrieve it with
// logger.FromContext.
//
// Mount it after RequestLogging and Tracing. Routes behind Auth should mount
// it again inside the group so the user_id is included.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if id := UserIDFromContext(ctx); id != "" && logger.UserIDFromContext(ctx) == "" {
				ctx = logger.WithUserID(ctx, id)
			}
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
