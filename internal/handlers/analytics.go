package handlers

import (
	"net/http"

	"github.com/pdia/sitegate/internal/services"
	pkghttp "github.com/pdia/sitegate/pkg/http"
)

// AnalyticsHandler serves the admin-only traffic and security reports.
type AnalyticsHandler struct {
	analytics *services.AnalyticsService
	threats   *services.ThreatService
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(analytics *services.AnalyticsService, threats *services.ThreatService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		threats:   threats,
	}
}

// Stats returns the computed traffic report.
func (h *AnalyticsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteJSON(w, http.StatusOK, h.analytics.Stats())
}

// Security returns the blacklist and suspicious-activity report.
func (h *AnalyticsHandler) Security(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteJSON(w, http.StatusOK, h.threats.Report())
}
