package service

import "github.com/prometheus/client_golang/prometheus"

// Auth event and outcome label values.
const (
	eventRegister = "register"
	eventLogin    = "login"
	eventRefresh  = "refresh"
	eventLogout   = "logout"

	outcomeSuccess     = "success"
	outcomeRejected    = "rejected"
	outcomeRateLimited = "rate_limited"
	outcomeError       = "error"
)

// AuthMetrics counts authentication events by outcome.
type AuthMetrics struct {
	events *prometheus.CounterVec
}

// NewAuthMetrics creates auth_events_total and registers it with reg.
func NewAuthMetrics(reg prometheus.Registerer) (*AuthMetrics, error) {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_events_total",
		Help: "Authentication events by event and outcome",
	}, []string{"event", "outcome"})
	if err := reg.Register(events); err != nil {
		return nil, err
	}
	return &AuthMetrics{events: events}, nil
}

func (m *AuthMetrics) record(event, outcome string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(event, outcome).Inc()
}
