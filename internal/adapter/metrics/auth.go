package metrics

import "github.com/prometheus/client_golang/prometheus"

// Auth outcome labels.
const (
	OutcomeSuccess     = "success"
	OutcomeRejected    = "rejected"
	OutcomeRateLimited = "rate_limited"
)

// AuthMetrics holds Prometheus metrics for the auth flows.
type AuthMetrics struct {
	Logins  *prometheus.CounterVec
	Signups *prometheus.CounterVec
}

// NewAuthMetrics creates and registers auth metrics on the given registry.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	m := &AuthMetrics{
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Total number of login attempts, by outcome.",
		}, []string{"outcome"}),
		Signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "signups_total",
			Help:      "Total number of signup attempts, by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.Logins, m.Signups)
	return m
}
