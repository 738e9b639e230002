package store_test

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdia/sitegate/internal/models"
	"github.com/pdia/sitegate/internal/store"
)

func TestSuspiciousStore_EvictsOldestBeyondLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suspicious-activity.json")
	s, err := store.NewSuspiciousStore(path, 5)
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		require.NoError(t, s.Append(models.SuspiciousRequest{
			Timestamp: time.Now(),
			IP:        "203.0.113.5",
			Path:      fmt.Sprintf("/probe-%d", i),
			Reason:    "test",
		}))
	}

	all := s.All()
	require.Len(t, all, 5)
	assert.Equal(t, "/probe-3", all[0].Path)
	assert.Equal(t, "/probe-7", all[4].Path)
}

func TestSuspiciousStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suspicious-activity.json")
	s, err := store.NewSuspiciousStore(path, 0)
	require.NoError(t, err)

	require.NoError(t, s.Append(models.SuspiciousRequest{
		Timestamp: time.Now(),
		IP:        "203.0.113.5",
		Path:      "/wp-login.php",
		Reason:    "wordpress probe",
	}))

	reopened, err := store.NewSuspiciousStore(path, 0)
	require.NoError(t, err)
	all := reopened.All()
	require.Len(t, all, 1)
	assert.Equal(t, "/wp-login.php", all[0].Path)
}

func TestSuspiciousStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suspicious-activity.json")
	s, err := store.NewSuspiciousStore(path, 0)
	require.NoError(t, err)

	require.NoError(t, s.Append(models.SuspiciousRequest{Path: "/x.php"}))
	require.NoError(t, s.Clear())
	assert.Empty(t, s.All())
}

func TestVisitorStore_EvictsOldestBeyondLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.json")
	s, err := store.NewVisitorStore(path, 3)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(models.VisitorRecord{
			Timestamp: time.Now(),
			Path:      fmt.Sprintf("/page-%d", i),
		}))
	}

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, "/page-2", all[0].Path)
	assert.Equal(t, "/page-4", all[2].Path)
}

func TestVisitorStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.json")
	s, err := store.NewVisitorStore(path, 0)
	require.NoError(t, err)

	require.NoError(t, s.Append(models.VisitorRecord{
		Timestamp: time.Now(),
		IPHash:    "abcd1234",
		Path:      "/",
	}))

	reopened, err := store.NewVisitorStore(path, 0)
	require.NoError(t, err)
	all := reopened.All()
	require.Len(t, all, 1)
	assert.Equal(t, "abcd1234", all[0].IPHash)
}
