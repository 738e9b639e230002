package services

import (
	"log/slog"

	"github.com/pdia/sitegate/internal/auth"
	"github.com/pdia/sitegate/internal/config"
	"github.com/pdia/sitegate/internal/metrics"
	"github.com/pdia/sitegate/internal/models"
	pkgauth "github.com/pdia/sitegate/pkg/auth"
	"github.com/pdia/sitegate/pkg/logger"
)

// AuthService orchestrates admin login: lockout check, password
// verification, attempt bookkeeping, and token issuance. Every outcome
// is audit-logged.
type AuthService struct {
	lockout *LockoutService
	tokens  *auth.TokenManager
	timing  *auth.TimingDelay
	cfg     config.AuthConfig
	logger  *slog.Logger
	audit   *logger.AuditLogger
}

// NewAuthService creates an AuthService.
func NewAuthService(
	lockout *LockoutService,
	tokens *auth.TokenManager,
	timing *auth.TimingDelay,
	cfg config.AuthConfig,
	log *slog.Logger,
	audit *logger.AuditLogger,
) *AuthService {
	return &AuthService{
		lockout: lockout,
		tokens:  tokens,
		timing:  timing,
		cfg:     cfg,
		logger:  log,
		audit:   audit,
	}
}

// Login verifies the admin password for a request from ip. It returns a
// session token on success, models.ErrLockedOut when the IP is inside a
// lockout window, and models.ErrInvalidCredentials on a wrong password.
func (s *AuthService) Login(ip, userAgent, password string) (string, error) {
	if s.lockout.IsLockedOut(ip) {
		metrics.LoginAttempts.WithLabelValues("locked_out").Inc()
		s.audit.Log(logger.SecurityEvent{
			EventType: "login",
			IPAddress: ip,
			UserAgent: userAgent,
			Success:   false,
			Reason:    "locked out",
		})
		return "", models.ErrLockedOut
	}

	ok := s.verifyPassword(password)
	s.timing.Wait(ok)

	if !ok {
		if err := s.lockout.RecordFailure(ip); err != nil {
			s.logger.Error("failed to record login failure",
				slog.String("ip", ip), slog.Any("error", err))
		}
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		s.audit.Log(logger.SecurityEvent{
			EventType: "login",
			IPAddress: ip,
			UserAgent: userAgent,
			Success:   false,
			Reason:    "invalid password",
		})
		return "", models.ErrInvalidCredentials
	}

	if err := s.lockout.Clear(ip); err != nil {
		s.logger.Error("failed to clear login attempts",
			slog.String("ip", ip), slog.Any("error", err))
	}

	token, err := s.tokens.Issue()
	if err != nil {
		s.logger.Error("failed to issue session token", slog.Any("error", err))
		return "", models.ErrInternalServer
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.audit.Log(logger.SecurityEvent{
		EventType: "login",
		IPAddress: ip,
		UserAgent: userAgent,
		Success:   true,
	})
	return token, nil
}

// verifyPassword checks the submitted password against the configured
// admin credential. A bcrypt hash is preferred; the plain comparison
// exists for local development and runs in constant time.
func (s *AuthService) verifyPassword(password string) bool {
	if s.cfg.AdminPasswordHash != "" {
		return pkgauth.VerifyHash(s.cfg.AdminPasswordHash, password)
	}
	return pkgauth.VerifyPlain(s.cfg.AdminPassword, password)
}
