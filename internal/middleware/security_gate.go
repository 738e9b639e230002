package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/pdia/sitegate/internal/metrics"
	"github.com/pdia/sitegate/internal/services"
	pkghttp "github.com/pdia/sitegate/pkg/http"
)

// bypassPrefixes are path prefixes the gate never blocks. Auth
// endpoints and the emergency unlock stay reachable so a blacklisted or
// locked-out admin can always attempt recovery; assets and uploads stay
// reachable so the public site keeps rendering.
var bypassPrefixes = []string{
	"/assets/",
	"/uploads/",
	"/api/auth/",
}

var bypassExact = map[string]struct{}{
	"/":                     {},
	"/index.html":           {},
	"/api/emergency-unlock": {},
	"/api/health":           {},
}

var bypassExtensions = []string{
	".js", ".css", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico",
	".woff", ".woff2", ".webp", ".ttf", ".eot", ".otf", ".map", ".json",
}

// SecurityGate is the per-request pipeline that runs before routing:
// bypass check, blacklist check (403), threat classification (404,
// disguised as a missing resource so scanners learn nothing), then
// pass-through. Surviving requests are recorded in the visitor log.
type SecurityGate struct {
	threats   *services.ThreatService
	analytics *services.AnalyticsService
	ipConfig  *pkghttp.IPConfig
	logger    *slog.Logger
}

// NewSecurityGate creates a SecurityGate.
func NewSecurityGate(
	threats *services.ThreatService,
	analytics *services.AnalyticsService,
	ipConfig *pkghttp.IPConfig,
	logger *slog.Logger,
) *SecurityGate {
	return &SecurityGate{
		threats:   threats,
		analytics: analytics,
		ipConfig:  ipConfig,
		logger:    logger,
	}
}

// bypassesGate reports whether a path skips all security checks.
func bypassesGate(path string) bool {
	if _, ok := bypassExact[path]; ok {
		return true
	}
	for _, prefix := range bypassPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	lower := strings.ToLower(path)
	for _, ext := range bypassExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Handler wraps next with the security pipeline.
func (g *SecurityGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		ip := pkghttp.ExtractClientIP(r, g.ipConfig)
		userAgent := r.Header.Get("User-Agent")

		if bypassesGate(path) {
			g.record(r, ip, false, false)
			next.ServeHTTP(w, r)
			return
		}

		if g.threats.IsBlacklisted(ip) {
			g.logger.Warn("blocked blacklisted ip",
				slog.String("ip", ip), slog.String("path", path))
			metrics.RequestsBlocked.WithLabelValues("blacklisted").Inc()
			g.record(r, ip, false, true)
			pkghttp.WriteForbidden(w, "Forbidden")
			return
		}

		if result := g.threats.Classify(path, userAgent); result.Malicious {
			g.logger.Warn("malicious request detected",
				slog.String("ip", ip),
				slog.String("path", path),
				slog.String("reason", result.Reason))
			if err := g.threats.RecordAndBlock(ip, path, userAgent, result.Reason); err != nil {
				g.logger.Error("failed to record threat", slog.Any("error", err))
			}
			metrics.ThreatsDetected.Inc()
			metrics.RequestsBlocked.WithLabelValues("threat").Inc()
			g.record(r, ip, true, false)
			// 404, not 403: scanners must not learn they were fingerprinted.
			pkghttp.WriteNotFound(w, "Not Found")
			return
		}

		g.record(r, ip, false, false)
		next.ServeHTTP(w, r)
	})
}

// record appends the request to the visitor log. Logging failures never
// fail the request itself.
func (g *SecurityGate) record(r *http.Request, ip string, malicious, blacklisted bool) {
	err := g.analytics.Record(services.PageView{
		IP:            ip,
		UserAgent:     r.Header.Get("User-Agent"),
		Path:          r.URL.Path,
		Referrer:      r.Header.Get("Referer"),
		Method:        r.Method,
		IsMalicious:   malicious,
		IsBlacklisted: blacklisted,
	})
	if err != nil {
		g.logger.Error("failed to record visitor", slog.Any("error", err))
	}
}
