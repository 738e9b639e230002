package services_test

import (
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdia/sitegate/internal/services"
	"github.com/pdia/sitegate/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLockoutService(t *testing.T) (*services.LockoutService, *store.AttemptStore) {
	t.Helper()
	s, err := store.NewAttemptStore(filepath.Join(t.TempDir(), "login-attempts.json"))
	require.NoError(t, err)
	return services.NewLockoutService(s, 5, 15*time.Minute, testLogger()), s
}

func TestLockoutService_LocksAfterMaxAttempts(t *testing.T) {
	svc, _ := newLockoutService(t)
	base := time.Now()
	svc.SetClock(func() time.Time { return base })

	for i := 0; i < 4; i++ {
		require.NoError(t, svc.RecordFailure("10.0.0.1"))
		assert.False(t, svc.IsLockedOut("10.0.0.1"), "attempt %d should not lock", i+1)
	}

	require.NoError(t, svc.RecordFailure("10.0.0.1"))
	assert.True(t, svc.IsLockedOut("10.0.0.1"), "fifth failure must lock")
}

func TestLockoutService_LockoutExpires(t *testing.T) {
	svc, s := newLockoutService(t)
	base := time.Now()
	svc.SetClock(func() time.Time { return base })

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.RecordFailure("10.0.0.2"))
	}
	assert.True(t, svc.IsLockedOut("10.0.0.2"))

	// Just past the lockout window: treated as absent and lazily deleted.
	svc.SetClock(func() time.Time { return base.Add(15*time.Minute + time.Second) })
	assert.False(t, svc.IsLockedOut("10.0.0.2"))

	_, found := s.Get("10.0.0.2")
	assert.False(t, found, "expired lockout record should be deleted")
}

func TestLockoutService_FixedWindowResets(t *testing.T) {
	svc, s := newLockoutService(t)
	base := time.Now()

	// Failures spread further apart than the window never accumulate.
	svc.SetClock(func() time.Time { return base })
	require.NoError(t, svc.RecordFailure("10.0.0.3"))

	svc.SetClock(func() time.Time { return base.Add(20 * time.Minute) })
	require.NoError(t, svc.RecordFailure("10.0.0.3"))

	rec, found := s.Get("10.0.0.3")
	require.True(t, found)
	assert.Equal(t, 1, rec.Count, "window reset should restart the count")
	assert.Nil(t, rec.LockoutUntil)
}

func TestLockoutService_ClearResetsCount(t *testing.T) {
	svc, s := newLockoutService(t)
	base := time.Now()
	svc.SetClock(func() time.Time { return base })

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.RecordFailure("10.0.0.4"))
	}
	require.NoError(t, svc.Clear("10.0.0.4"))

	_, found := s.Get("10.0.0.4")
	assert.False(t, found)

	// A later failure starts fresh at 1.
	require.NoError(t, svc.RecordFailure("10.0.0.4"))
	rec, found := s.Get("10.0.0.4")
	require.True(t, found)
	assert.Equal(t, 1, rec.Count)
}

func TestLockoutService_UnknownIPNotLocked(t *testing.T) {
	svc, _ := newLockoutService(t)
	assert.False(t, svc.IsLockedOut("172.16.0.1"))
}

func TestLockoutService_ConcurrentFailuresCount(t *testing.T) {
	svc, s := newLockoutService(t)
	base := time.Now()
	svc.SetClock(func() time.Time { return base })

	var wg sync.WaitGroup
	wg.Add(5)
	for i := 0; i < 5; i++ {
		go func() {
			defer wg.Done()
			_ = svc.RecordFailure("10.0.0.5")
		}()
	}
	wg.Wait()

	rec, found := s.Get("10.0.0.5")
	require.True(t, found)
	assert.Equal(t, 5, rec.Count)
	assert.True(t, svc.IsLockedOut("10.0.0.5"))
}
