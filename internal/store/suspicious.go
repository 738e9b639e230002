package store

import (
	"sync"

	"github.com/pdia/sitegate/internal/models"
)

// DefaultSuspiciousLimit bounds the suspicious-activity log.
const DefaultSuspiciousLimit = 1000

type suspiciousDocument struct {
	Requests []models.SuspiciousRequest `json:"requests"`
}

// SuspiciousStore is the bounded durable log of requests flagged as
// malicious. Oldest entries are evicted first once the limit is hit.
type SuspiciousStore struct {
	mu    sync.Mutex
	path  string
	limit int
	doc   suspiciousDocument
}

// NewSuspiciousStore loads (or initializes) the suspicious-activity
// document at path. A limit of zero or less falls back to the default.
func NewSuspiciousStore(path string, limit int) (*SuspiciousStore, error) {
	if limit <= 0 {
		limit = DefaultSuspiciousLimit
	}
	s := &SuspiciousStore{path: path, limit: limit}
	if err := readDocument(path, &s.doc); err != nil {
		return nil, err
	}
	return s, nil
}

// Append records a flagged request, evicting the oldest entries beyond
// the store's limit.
func (s *SuspiciousStore) Append(rec models.SuspiciousRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Requests = append(s.doc.Requests, rec)
	if n := len(s.doc.Requests); n > s.limit {
		s.doc.Requests = s.doc.Requests[n-s.limit:]
	}
	return writeDocument(s.path, &s.doc)
}

// All returns a copy of the logged requests, oldest first.
func (s *SuspiciousStore) All() []models.SuspiciousRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SuspiciousRequest, len(s.doc.Requests))
	copy(out, s.doc.Requests)
	return out
}

// Clear empties the log.
func (s *SuspiciousStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Requests = nil
	return writeDocument(s.path, &s.doc)
}
