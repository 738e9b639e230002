package store

import (
	"sync"

	"github.com/pdia/sitegate/internal/models"
)

type attemptsDocument struct {
	Attempts map[string]models.AttemptRecord `json:"attempts"`
}

// AttemptStore is the durable per-IP login-attempt counter store.
type AttemptStore struct {
	mu   sync.Mutex
	path string
	doc  attemptsDocument
}

// NewAttemptStore loads (or initializes) the attempt document at path.
func NewAttemptStore(path string) (*AttemptStore, error) {
	s := &AttemptStore{
		path: path,
		doc:  attemptsDocument{Attempts: make(map[string]models.AttemptRecord)},
	}
	if err := readDocument(path, &s.doc); err != nil {
		return nil, err
	}
	if s.doc.Attempts == nil {
		s.doc.Attempts = make(map[string]models.AttemptRecord)
	}
	return s, nil
}

// Get returns the attempt record for ip, if one exists.
func (s *AttemptStore) Get(ip string) (models.AttemptRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.doc.Attempts[ip]
	return rec, ok
}

// Update applies fn to the record for ip under the store lock, so
// concurrent failures from one IP never lose increments. fn receives
// the current record (zero-valued if absent) and returns the new record
// plus whether to keep it; returning keep=false deletes the record.
func (s *AttemptStore) Update(ip string, fn func(rec models.AttemptRecord, found bool) (models.AttemptRecord, bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, found := s.doc.Attempts[ip]
	next, keep := fn(rec, found)
	if keep {
		s.doc.Attempts[ip] = next
	} else {
		if !found {
			return nil
		}
		delete(s.doc.Attempts, ip)
	}
	return writeDocument(s.path, &s.doc)
}

// Delete removes the attempt record for ip.
func (s *AttemptStore) Delete(ip string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doc.Attempts[ip]; !ok {
		return nil
	}
	delete(s.doc.Attempts, ip)
	return writeDocument(s.path, &s.doc)
}

// Clear removes every attempt record. Used by emergency unlock.
func (s *AttemptStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Attempts = make(map[string]models.AttemptRecord)
	return writeDocument(s.path, &s.doc)
}
