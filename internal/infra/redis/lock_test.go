package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"quiz-intake-service/internal/domain"
)

func newTestLock(t *testing.T) (*Lock, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewLock(client, "quiz:submit:lock"), mr
}

func TestLockAcquireAndRelease(t *testing.T) {
	lock, mr := newTestLock(t)

	release, err := lock.Acquire(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if !mr.Exists("quiz:submit:lock") {
		t.Fatalf("expected lock key to be set")
	}

	release()
	if mr.Exists("quiz:submit:lock") {
		t.Fatalf("expected lock key removed after release")
	}
}

func TestLockTimesOutWhileHeld(t *testing.T) {
	lock, _ := newTestLock(t)

	release, err := lock.Acquire(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	if _, err := lock.Acquire(context.Background(), 150*time.Millisecond); !errors.Is(err, domain.ErrLockTimeout) {
		t.Fatalf("expected lock timeout, got %v", err)
	}
}

func TestLockReleaseIdempotent(t *testing.T) {
	lock, mr := newTestLock(t)

	release, err := lock.Acquire(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	release()
	release() // must be a no-op

	if mr.Exists("quiz:submit:lock") {
		t.Fatalf("expected key absent after releases")
	}

	release2, err := lock.Acquire(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("acquire after releases: %v", err)
	}
	release2()
}

func TestLockReleaseIgnoresStolenKey(t *testing.T) {
	lock, mr := newTestLock(t)

	release, err := lock.Acquire(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	// Simulate the safety TTL expiring and another holder taking over.
	mr.FastForward(time.Minute)
	release2, err := lock.Acquire(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("acquire after expiry: %v", err)
	}

	// The stale holder's release must not delete the new holder's key.
	release()
	if !mr.Exists("quiz:submit:lock") {
		t.Fatalf("stale release deleted another holder's lock")
	}
	release2()
}
