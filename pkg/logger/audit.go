// Package logger provides the security audit logger and log
// sanitization helpers.
package logger

import (
	"context"
	"log/slog"
	"time"
)

// SecurityEvent is one auditable security occurrence: a login attempt,
// a detected threat, a blacklist hit, or an emergency unlock.
type SecurityEvent struct {
	EventType string
	IPAddress string
	Path      string
	UserAgent string
	Success   bool
	Reason    string
}

// AuditLogger emits structured audit records to the process log. The
// durable suspicious-activity store is separate; this trail is for
// operational review of everything security-relevant.
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates an audit logger on top of the process logger.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// Log records a security event. Failures log at Warn so they stand out
// in aggregated output.
func (al *AuditLogger) Log(event SecurityEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "security"),
		slog.String("event_type", event.EventType),
		slog.Bool("success", event.Success),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.Path != "" {
		attrs = append(attrs, slog.String("path", event.Path))
	}
	if event.UserAgent != "" {
		attrs = append(attrs, slog.String("user_agent", event.UserAgent))
	}
	if event.Reason != "" {
		attrs = append(attrs, slog.String("reason", event.Reason))
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(context.Background(), level, "audit", attrs...)
}
