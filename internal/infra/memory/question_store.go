package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quiz-intake-service/internal/domain"
)

// QuestionLoader fetches the question dataset from a backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.QuestionRow, error)
}

// QuestionStore is a static in-memory dataset (useful for tests/demos).
type QuestionStore struct {
	rows []domain.QuestionRow
}

func NewQuestionStore(rows []domain.QuestionRow) *QuestionStore {
	return &QuestionStore{rows: rows}
}

func (s *QuestionStore) LoadQuestions(_ context.Context) ([]domain.QuestionRow, error) {
	out := make([]domain.QuestionRow, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

// CachedQuestionStore caches the dataset with a TTL so each submission
// does not hit the backing store. The TTL bounds staleness after a
// dataset change.
type CachedQuestionStore struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	rows      []domain.QuestionRow
	expiresAt time.Time
}

func NewCachedQuestionStore(loader QuestionLoader, ttl time.Duration) *CachedQuestionStore {
	return &CachedQuestionStore{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *CachedQuestionStore) LoadQuestions(ctx context.Context) ([]domain.QuestionRow, error) {
	now := s.clock()

	s.mu.RLock()
	if s.rows != nil && s.expiresAt.After(now) {
		rows := s.rows
		s.mu.RUnlock()
		return rows, nil
	}
	s.mu.RUnlock()

	result, err, _ := s.sf.Do("questions", func() (interface{}, error) {
		now := s.clock()
		s.mu.RLock()
		if s.rows != nil && s.expiresAt.After(now) {
			rows := s.rows
			s.mu.RUnlock()
			return rows, nil
		}
		s.mu.RUnlock()

		rows, err := s.loader.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.rows = rows
		s.expiresAt = now.Add(s.ttlWithJitter())
		s.mu.Unlock()
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.QuestionRow), nil
}

func (s *CachedQuestionStore) ttlWithJitter() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(s.ttl) / 10
	return s.ttl + time.Duration(s.rnd.Int63n(jitterMax+1))
}
