package services

import (
	"log/slog"
	"time"

	"github.com/pdia/sitegate/internal/models"
	"github.com/pdia/sitegate/internal/store"
)

// LockoutService tracks failed login attempts per IP and enforces the
// brute-force lockout policy. Counting uses a fixed window anchored at
// the first failure: once more than the lockout duration has passed
// since the first failure, the next failure starts a fresh window. A
// slow trickle of failures spread further apart than the window never
// locks.
type LockoutService struct {
	store           *store.AttemptStore
	maxAttempts     int
	lockoutDuration time.Duration
	logger          *slog.Logger
	now             func() time.Time
}

// NewLockoutService creates a LockoutService.
func NewLockoutService(s *store.AttemptStore, maxAttempts int, lockoutDuration time.Duration, logger *slog.Logger) *LockoutService {
	return &LockoutService{
		store:           s,
		maxAttempts:     maxAttempts,
		lockoutDuration: lockoutDuration,
		logger:          logger,
		now:             time.Now,
	}
}

// SetClock overrides the wall clock. Tests only.
func (s *LockoutService) SetClock(now func() time.Time) {
	s.now = now
}

// IsLockedOut reports whether ip is currently locked out. An expired
// lockout is deleted lazily on lookup, so a record with an elapsed
// lockout behaves exactly like no record at all.
func (s *LockoutService) IsLockedOut(ip string) bool {
	rec, ok := s.store.Get(ip)
	if !ok {
		return false
	}

	now := s.now()
	if rec.LockedOut(now) {
		return true
	}

	if rec.LockoutUntil != nil {
		// Lockout window elapsed; drop the stale record.
		if err := s.store.Delete(ip); err != nil {
			s.logger.Error("failed to clear expired lockout",
				slog.String("ip", ip), slog.Any("error", err))
		}
	}
	return false
}

// RecordFailure counts a failed login. The read-modify-write runs under
// the store lock so concurrent failures from one IP never under-count.
func (s *LockoutService) RecordFailure(ip string) error {
	now := s.now()
	return s.store.Update(ip, func(rec models.AttemptRecord, found bool) (models.AttemptRecord, bool) {
		if !found || now.Sub(rec.FirstAttempt) > s.lockoutDuration {
			rec = models.AttemptRecord{Count: 1, FirstAttempt: now}
		} else {
			rec.Count++
		}
		rec.LastAttempt = now

		if rec.Count >= s.maxAttempts {
			until := now.Add(s.lockoutDuration)
			rec.LockoutUntil = &until
		}
		return rec, true
	})
}

// Clear removes the attempt record for ip after a successful login, so
// a later failure starts a fresh count.
func (s *LockoutService) Clear(ip string) error {
	return s.store.Delete(ip)
}
