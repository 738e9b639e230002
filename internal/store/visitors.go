package store

import (
	"sync"

	"github.com/pdia/sitegate/internal/models"
)

// DefaultVisitorLimit bounds the visitor log. Sized for a brochure
// site's traffic while keeping enough history for security review.
const DefaultVisitorLimit = 10000

type visitorsDocument struct {
	Visitors []models.VisitorRecord `json:"visitors"`
}

// VisitorStore is the bounded durable log of page views that feeds the
// analytics aggregator. Oldest entries are evicted first.
type VisitorStore struct {
	mu    sync.Mutex
	path  string
	limit int
	doc   visitorsDocument
}

// NewVisitorStore loads (or initializes) the visitor document at path.
// A limit of zero or less falls back to the default.
func NewVisitorStore(path string, limit int) (*VisitorStore, error) {
	if limit <= 0 {
		limit = DefaultVisitorLimit
	}
	s := &VisitorStore{path: path, limit: limit}
	if err := readDocument(path, &s.doc); err != nil {
		return nil, err
	}
	return s, nil
}

// Append logs a page view, evicting the oldest entries beyond the
// store's limit.
func (s *VisitorStore) Append(rec models.VisitorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Visitors = append(s.doc.Visitors, rec)
	if n := len(s.doc.Visitors); n > s.limit {
		s.doc.Visitors = s.doc.Visitors[n-s.limit:]
	}
	return writeDocument(s.path, &s.doc)
}

// All returns a copy of the logged visits, oldest first.
func (s *VisitorStore) All() []models.VisitorRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.VisitorRecord, len(s.doc.Visitors))
	copy(out, s.doc.Visitors)
	return out
}

// Clear empties the visitor log.
func (s *VisitorStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Visitors = nil
	return writeDocument(s.path, &s.doc)
}
