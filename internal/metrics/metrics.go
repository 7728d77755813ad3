// Package metrics exposes Prometheus counters for the login flow and the
// document utilities.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "backoffice",
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "Credential checks by result.",
	}, []string{"result"})

	TwoFactorChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "backoffice",
		Subsystem: "auth",
		Name:      "two_factor_checks_total",
		Help:      "One-time code verifications by result.",
	}, []string{"result"})

	TokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "backoffice",
		Subsystem: "auth",
		Name:      "token_refreshes_total",
		Help:      "Access token refreshes by result.",
	}, []string{"result"})

	SessionsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "backoffice",
		Subsystem: "auth",
		Name:      "sessions_issued_total",
		Help:      "Completed logins that produced a token pair.",
	})

	ReportsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "backoffice",
		Subsystem: "report",
		Name:      "emails_total",
		Help:      "Report emails by result.",
	}, []string{"result"})

	DocumentsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "backoffice",
		Subsystem: "documents",
		Name:      "generated_total",
		Help:      "Generated documents by kind and result.",
	}, []string{"kind", "result"})
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
