package store

import (
	"sync"
	"time"

	"github.com/pdia/sitegate/internal/models"
)

// AutoBlockReason marks blacklist entries added by the threat detector
// rather than by an administrator.
const AutoBlockReason = "auto"

type blacklistDocument struct {
	IPs         []string                `json:"ips"`
	AutoBlocked []models.AutoBlockEvent `json:"auto_blocked"`
}

// BlacklistStore is the durable set of permanently blocked IPs plus the
// audit trail of automatic blocks. Membership is sticky; only Clear
// (emergency unlock) removes entries.
type BlacklistStore struct {
	mu    sync.Mutex
	path  string
	doc   blacklistDocument
	index map[string]struct{}
}

// NewBlacklistStore loads (or initializes) the blacklist document at path.
func NewBlacklistStore(path string) (*BlacklistStore, error) {
	s := &BlacklistStore{path: path}
	if err := readDocument(path, &s.doc); err != nil {
		return nil, err
	}
	s.rebuildIndex()
	return s, nil
}

func (s *BlacklistStore) rebuildIndex() {
	s.index = make(map[string]struct{}, len(s.doc.IPs))
	for _, ip := range s.doc.IPs {
		s.index[ip] = struct{}{}
	}
}

// Add blacklists ip. Adding an already-blacklisted IP is a no-op.
// Automatic blocks also append an AutoBlockEvent with the detection
// reason for the audit trail.
func (s *BlacklistStore) Add(ip, reason string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[ip]; exists {
		return false, nil
	}
	s.doc.IPs = append(s.doc.IPs, ip)
	s.index[ip] = struct{}{}
	if reason == AutoBlockReason {
		s.doc.AutoBlocked = append(s.doc.AutoBlocked, models.AutoBlockEvent{
			IP:        ip,
			Timestamp: now,
			Reason:    "malicious request pattern detected",
		})
	}
	if err := writeDocument(s.path, &s.doc); err != nil {
		return false, err
	}
	return true, nil
}

// Contains reports whether ip is blacklisted.
func (s *BlacklistStore) Contains(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[ip]
	return ok
}

// Snapshot returns copies of the blocked IPs and the auto-block trail.
func (s *BlacklistStore) Snapshot() ([]string, []models.AutoBlockEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ips := make([]string, len(s.doc.IPs))
	copy(ips, s.doc.IPs)
	events := make([]models.AutoBlockEvent, len(s.doc.AutoBlocked))
	copy(events, s.doc.AutoBlocked)
	return ips, events
}

// Clear empties the blacklist and its audit trail.
func (s *BlacklistStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = blacklistDocument{}
	s.rebuildIndex()
	return writeDocument(s.path, &s.doc)
}
