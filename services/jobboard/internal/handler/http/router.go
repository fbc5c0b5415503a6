package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/JobPortal/pkg/health"
	"github.com/utafrali/JobPortal/pkg/httputil"
	"github.com/utafrali/JobPortal/pkg/middleware"
	"github.com/utafrali/JobPortal/services/jobboard/internal/domain"
	"github.com/utafrali/JobPortal/services/jobboard/internal/service"
)

// ServiceName labels metrics and spans.
const ServiceName = "jobboard"

// AccessVerifier verifies access tokens. *auth.JWTManager implements it.
type AccessVerifier interface {
	VerifyAccess(token string) (domain.Claim, error)
}

// RouterDeps collects everything NewRouter mounts. Metrics, Gatherer and
// Health are optional.
type RouterDeps struct {
	Auth         *service.AuthService
	Jobs         *service.JobService
	Applications *service.ApplicationService
	Tokens       AccessVerifier

	Health   *health.Handler
	Metrics  *middleware.HTTPMetrics
	Gatherer prometheus.Gatherer

	CORS       middleware.CORSConfig
	PprofCIDRs []string
	Logger     *slog.Logger
}

// NewRouter creates a chi router with all job board routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.CORS(deps.CORS))
	r.Use(middleware.Tracing(ServiceName))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(middleware.RequestLogger(logger))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteMessage(w, "Job Portal API is running")
	})

	if deps.Health != nil {
		r.Get("/health/live", deps.Health.LivenessHandler())
		r.Get("/health/ready", deps.Health.ReadinessHandler())
	}
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
	middleware.RegisterPprof(r, deps.PprofCIDRs, logger)

	authenticate := middleware.Auth(TokenValidator(deps.Tokens))
	authHandler := NewAuthHandler(deps.Auth, logger)
	jobHandler := NewJobHandler(deps.Jobs, deps.Applications, logger)
	adminHandler := NewAdminHandler(deps.Jobs, deps.Applications, logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/register", authHandler.Register)
		r.With(middleware.NoStore).Post("/login", authHandler.Login)
		r.With(middleware.NoStore).Post("/token", authHandler.Token)

		r.Get("/jobs", jobHandler.List)
		r.Get("/jobs/{id}", jobHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequestLogger(logger))

			r.Post("/logout", authHandler.Logout)
			r.Post("/jobs/{id}/apply", jobHandler.Apply)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole(domain.RoleAdmin))
			r.Use(middleware.RequestLogger(logger))

			r.Post("/jobs", adminHandler.CreateJob)
			r.Put("/jobs/{id}", adminHandler.UpdateJob)
			r.Delete("/jobs/{id}", adminHandler.DeleteJob)
			r.Get("/jobs/{id}/applicants", adminHandler.Applicants)
		})
	})

	return r
}

// TokenValidator adapts an AccessVerifier to middleware.Auth.
func TokenValidator(v AccessVerifier) middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		claim, err := v.VerifyAccess(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			ID:    claim.ID,
			Email: claim.Email,
			Role:  claim.Role,
		}, nil
	}
}
