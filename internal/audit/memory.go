package audit

import (
	"context"
	"sync"

	"github.com/couchcryptid/google-geocoding/internal/domain"
)

// DefaultCapacity bounds a MemoryStore built with a non-positive capacity.
const DefaultCapacity = 1000

// MemoryStore keeps the most recent audit records in process. Once full,
// each insert drops the oldest record.
type MemoryStore struct {
	mu       sync.Mutex
	capacity int
	records  []domain.AuditRecord
}

// NewMemoryStore creates an empty store holding at most capacity records.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{capacity: capacity}
}

// Insert appends record, evicting the oldest one when the store is full.
func (s *MemoryStore) Insert(_ context.Context, record domain.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) == s.capacity {
		copy(s.records, s.records[1:])
		s.records[len(s.records)-1] = record
		return nil
	}
	s.records = append(s.records, record)
	return nil
}

// IncrementCacheUses updates the most recently inserted record for url.
func (s *MemoryStore) IncrementCacheUses(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.latest(url)
	if i < 0 {
		return domain.ErrAuditRecordNotFound
	}
	s.records[i].CacheUses++
	s.records[i].LoadedFromCache = true
	s.records[i].UpdatedAt = domain.Now()
	return nil
}

// Latest returns the most recent record for url.
func (s *MemoryStore) Latest(_ context.Context, url string) (domain.AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.latest(url)
	if i < 0 {
		return domain.AuditRecord{}, domain.ErrAuditRecordNotFound
	}
	return s.records[i], nil
}

func (s *MemoryStore) latest(url string) int {
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].URL == url {
			return i
		}
	}
	return -1
}
