package store_test

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdia/sitegate/internal/models"
	"github.com/pdia/sitegate/internal/store"
)

func TestAttemptStore_PutGetDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login-attempts.json")
	s, err := store.NewAttemptStore(path)
	require.NoError(t, err)

	_, found := s.Get("10.0.0.1")
	assert.False(t, found)

	now := time.Now()
	err = s.Update("10.0.0.1", func(rec models.AttemptRecord, found bool) (models.AttemptRecord, bool) {
		assert.False(t, found)
		return models.AttemptRecord{Count: 1, FirstAttempt: now, LastAttempt: now}, true
	})
	require.NoError(t, err)

	rec, found := s.Get("10.0.0.1")
	assert.True(t, found)
	assert.Equal(t, 1, rec.Count)

	require.NoError(t, s.Delete("10.0.0.1"))
	_, found = s.Get("10.0.0.1")
	assert.False(t, found)
}

func TestAttemptStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login-attempts.json")
	s, err := store.NewAttemptStore(path)
	require.NoError(t, err)

	now := time.Now().UTC()
	err = s.Update("192.168.1.5", func(_ models.AttemptRecord, _ bool) (models.AttemptRecord, bool) {
		return models.AttemptRecord{Count: 3, FirstAttempt: now, LastAttempt: now}, true
	})
	require.NoError(t, err)

	reopened, err := store.NewAttemptStore(path)
	require.NoError(t, err)

	rec, found := reopened.Get("192.168.1.5")
	require.True(t, found)
	assert.Equal(t, 3, rec.Count)
	assert.True(t, rec.FirstAttempt.Equal(now))
}

func TestAttemptStore_UpdateDeletesWhenKeepFalse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login-attempts.json")
	s, err := store.NewAttemptStore(path)
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, s.Update("1.2.3.4", func(_ models.AttemptRecord, _ bool) (models.AttemptRecord, bool) {
		return models.AttemptRecord{Count: 1, FirstAttempt: now, LastAttempt: now}, true
	}))
	require.NoError(t, s.Update("1.2.3.4", func(_ models.AttemptRecord, _ bool) (models.AttemptRecord, bool) {
		return models.AttemptRecord{}, false
	}))

	_, found := s.Get("1.2.3.4")
	assert.False(t, found)
}

func TestAttemptStore_ConcurrentUpdatesDoNotLoseIncrements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login-attempts.json")
	s, err := store.NewAttemptStore(path)
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_ = s.Update("10.9.8.7", func(rec models.AttemptRecord, found bool) (models.AttemptRecord, bool) {
				rec.Count++
				return rec, true
			})
		}()
	}
	wg.Wait()

	rec, found := s.Get("10.9.8.7")
	require.True(t, found)
	assert.Equal(t, workers, rec.Count)
}

func TestAttemptStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login-attempts.json")
	s, err := store.NewAttemptStore(path)
	require.NoError(t, err)

	now := time.Now()
	for _, ip := range []string{"1.1.1.1", "2.2.2.2"} {
		require.NoError(t, s.Update(ip, func(_ models.AttemptRecord, _ bool) (models.AttemptRecord, bool) {
			return models.AttemptRecord{Count: 1, FirstAttempt: now, LastAttempt: now}, true
		}))
	}

	require.NoError(t, s.Clear())
	_, found := s.Get("1.1.1.1")
	assert.False(t, found)
	_, found = s.Get("2.2.2.2")
	assert.False(t, found)
}
