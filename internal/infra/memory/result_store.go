package memory

import (
	"context"
	"strings"
	"sync"

	"quiz-intake-service/internal/domain"
)

// ResultStore is an in-memory append-only result log.
type ResultStore struct {
	mu      sync.RWMutex
	records []domain.ResultRecord
}

func NewResultStore() *ResultStore {
	return &ResultStore{}
}

func (s *ResultStore) EnsureReady(_ context.Context) error { return nil }

// FindByEmail scans existing records for a case-insensitive trimmed email
// match and returns the first (only) one.
func (s *ResultStore) FindByEmail(_ context.Context, email string) (*domain.ResultRecord, error) {
	needle := strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.records {
		if strings.ToLower(strings.TrimSpace(s.records[i].Email)) == needle {
			rec := s.records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

func (s *ResultStore) Append(_ context.Context, rec domain.ResultRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Records returns a snapshot of all stored records, oldest first.
func (s *ResultStore) Records() []domain.ResultRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ResultRecord, len(s.records))
	copy(out, s.records)
	return out
}
