package services

import (
	"errors"
	"log/slog"

	"github.com/pdia/sitegate/internal/store"
	"github.com/pdia/sitegate/pkg/logger"
)

// UnlockService implements the emergency escape hatch: it wipes the
// attempt counters, the blacklist, and the suspicious-activity log so a
// locked-out or blacklisted admin can get back in.
type UnlockService struct {
	attempts   *store.AttemptStore
	blacklist  *store.BlacklistStore
	suspicious *store.SuspiciousStore
	logger     *slog.Logger
	audit      *logger.AuditLogger
}

// UnlockResult reports which stores were cleared.
type UnlockResult struct {
	AttemptsCleared   bool `json:"attempts_cleared"`
	BlacklistCleared  bool `json:"blacklist_cleared"`
	SuspiciousCleared bool `json:"suspicious_cleared"`
}

// NewUnlockService creates an UnlockService.
func NewUnlockService(
	attempts *store.AttemptStore,
	blacklist *store.BlacklistStore,
	suspicious *store.SuspiciousStore,
	log *slog.Logger,
	audit *logger.AuditLogger,
) *UnlockService {
	return &UnlockService{
		attempts:   attempts,
		blacklist:  blacklist,
		suspicious: suspicious,
		logger:     log,
		audit:      audit,
	}
}

// Unlock clears all three security stores. A failure on one store does
// not stop the others; the combined error is returned alongside the
// per-store results.
func (s *UnlockService) Unlock(ip string) (UnlockResult, error) {
	var result UnlockResult
	var errs []error

	if err := s.attempts.Clear(); err != nil {
		errs = append(errs, err)
	} else {
		result.AttemptsCleared = true
	}
	if err := s.blacklist.Clear(); err != nil {
		errs = append(errs, err)
	} else {
		result.BlacklistCleared = true
	}
	if err := s.suspicious.Clear(); err != nil {
		errs = append(errs, err)
	} else {
		result.SuspiciousCleared = true
	}

	s.audit.Log(logger.SecurityEvent{
		EventType: "emergency_unlock",
		IPAddress: ip,
		Success:   len(errs) == 0,
	})
	s.logger.Info("emergency unlock executed",
		slog.Bool("attempts_cleared", result.AttemptsCleared),
		slog.Bool("blacklist_cleared", result.BlacklistCleared),
		slog.Bool("suspicious_cleared", result.SuspiciousCleared))

	return result, errors.Join(errs...)
}
