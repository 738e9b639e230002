package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdia/sitegate/internal/store"
)

func TestBlacklistStore_AddAndContains(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ip-blacklist.json")
	s, err := store.NewBlacklistStore(path)
	require.NoError(t, err)

	assert.False(t, s.Contains("203.0.113.9"))

	added, err := s.Add("203.0.113.9", store.AutoBlockReason, time.Now())
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, s.Contains("203.0.113.9"))

	ips, events := s.Snapshot()
	assert.Equal(t, []string{"203.0.113.9"}, ips)
	require.Len(t, events, 1)
	assert.Equal(t, "203.0.113.9", events[0].IP)
}

func TestBlacklistStore_AddIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ip-blacklist.json")
	s, err := store.NewBlacklistStore(path)
	require.NoError(t, err)

	added, err := s.Add("198.51.100.40", store.AutoBlockReason, time.Now())
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.Add("198.51.100.40", store.AutoBlockReason, time.Now())
	require.NoError(t, err)
	assert.False(t, added)

	ips, events := s.Snapshot()
	assert.Len(t, ips, 1)
	assert.Len(t, events, 1)
}

func TestBlacklistStore_ManualAddSkipsAutoEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ip-blacklist.json")
	s, err := store.NewBlacklistStore(path)
	require.NoError(t, err)

	added, err := s.Add("198.51.100.41", "manual", time.Now())
	require.NoError(t, err)
	assert.True(t, added)

	ips, events := s.Snapshot()
	assert.Len(t, ips, 1)
	assert.Empty(t, events)
}

func TestBlacklistStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ip-blacklist.json")
	s, err := store.NewBlacklistStore(path)
	require.NoError(t, err)

	_, err = s.Add("203.0.113.77", store.AutoBlockReason, time.Now())
	require.NoError(t, err)

	reopened, err := store.NewBlacklistStore(path)
	require.NoError(t, err)
	assert.True(t, reopened.Contains("203.0.113.77"))
}

func TestBlacklistStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ip-blacklist.json")
	s, err := store.NewBlacklistStore(path)
	require.NoError(t, err)

	_, err = s.Add("203.0.113.1", store.AutoBlockReason, time.Now())
	require.NoError(t, err)

	require.NoError(t, s.Clear())
	assert.False(t, s.Contains("203.0.113.1"))

	ips, events := s.Snapshot()
	assert.Empty(t, ips)
	assert.Empty(t, events)
}
