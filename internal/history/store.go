package history

import "sync"

// Store receives this core's record mutations. Persistent backends are
// external; the in-memory store below serves the service process and
// tests.
type Store interface {
	// Append adds a new record
	Append(rec *Record)

	// Get returns the record with the given id, or nil
	Get(id string) *Record

	// All returns every record in insertion order
	All() []*Record

	// Update applies fn to the record with the given id, if present
	Update(id string, fn func(*Record))
}

// MemoryStore is a thread-safe in-memory Store
type MemoryStore struct {
	mu      sync.RWMutex
	order   []string
	records map[string]*Record
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

// Append adds a new record
func (s *MemoryStore) Append(rec *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ID]; !ok {
		s.order = append(s.order, rec.ID)
	}
	s.records[rec.ID] = rec
}

// Get returns a copy-free pointer to the record with the given id
func (s *MemoryStore) Get(id string) *Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[id]
}

// All returns every record in insertion order
func (s *MemoryStore) All() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out
}

// Update applies fn to the record with the given id while holding the
// store lock
func (s *MemoryStore) Update(id string, fn func(*Record)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[id]; ok {
		fn(rec)
	}
}
