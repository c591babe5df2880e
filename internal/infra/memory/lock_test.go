package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-intake-service/internal/domain"
)

func TestLockMutualExclusion(t *testing.T) {
	lock := NewLock()

	release, err := lock.Acquire(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if _, err := lock.Acquire(context.Background(), 50*time.Millisecond); !errors.Is(err, domain.ErrLockTimeout) {
		t.Fatalf("expected lock timeout while held, got %v", err)
	}

	release()

	release2, err := lock.Acquire(context.Background(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	release2()
}

func TestLockReleaseIdempotent(t *testing.T) {
	lock := NewLock()

	release, err := lock.Acquire(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	release()
	release() // second call must be a no-op

	release2, err := lock.Acquire(context.Background(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("acquire after double release: %v", err)
	}
	release2()
}

func TestLockHonorsContextCancel(t *testing.T) {
	lock := NewLock()

	release, err := lock.Acquire(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := lock.Acquire(ctx, time.Second); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
