package memory

import (
	"context"
	"sync"
	"time"

	"quiz-intake-service/internal/domain"
)

// Lock is an in-process exclusive lock with a bounded acquire wait. It
// serializes the duplicate-check-then-append critical section when no
// Redis is configured (single-instance deployments).
type Lock struct {
	slot chan struct{}
}

func NewLock() *Lock {
	return &Lock{slot: make(chan struct{}, 1)}
}

// Acquire blocks until the lock is free, the timeout elapses, or ctx is
// canceled. The returned release func may be called more than once.
func (l *Lock) Acquire(ctx context.Context, timeout time.Duration) (func(), error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case l.slot <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() { <-l.slot })
		}, nil
	case <-timer.C:
		return nil, domain.ErrLockTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
