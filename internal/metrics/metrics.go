// Package metrics exposes Prometheus counters for the security gate.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsBlocked counts requests rejected by the security gate,
	// labeled by why (blacklisted, threat).
	RequestsBlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sitegate",
			Subsystem: "security",
			Name:      "requests_blocked_total",
			Help:      "Total number of requests blocked by the security gate",
		},
		[]string{"reason"},
	)

	// ThreatsDetected counts requests matching a malicious pattern.
	ThreatsDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sitegate",
			Subsystem: "security",
			Name:      "threats_detected_total",
			Help:      "Total number of requests flagged as malicious",
		},
	)

	// LoginAttempts counts login attempts by outcome (success, failure,
	// locked_out).
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sitegate",
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Total number of admin login attempts by outcome",
		},
		[]string{"outcome"},
	)

	// VisitorsRecorded counts page views written to the visitor log.
	VisitorsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sitegate",
			Subsystem: "analytics",
			Name:      "visitors_recorded_total",
			Help:      "Total number of visitor records appended",
		},
	)
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
