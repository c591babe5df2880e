package redis

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"quiz-intake-service/internal/domain"
)

// releaseScript deletes the lock key only while it still holds our token,
// so a lock that expired and was re-acquired elsewhere is never released
// from here. That also makes release safe to call repeatedly.
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`

// Lock is a named exclusive lock backed by Redis SET NX. One named key
// serializes the duplicate-check-then-append sequence across all
// instances of the service.
type Lock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	retry  time.Duration
}

func NewLock(client *redis.Client, key string) *Lock {
	return &Lock{
		client: client,
		key:    key,
		// safety expiry so a crashed holder cannot wedge submissions
		ttl:   30 * time.Second,
		retry: 50 * time.Millisecond,
	}
}

// Acquire polls SET NX until it wins the key, the timeout elapses, or ctx
// is canceled. Timeout is surfaced as domain.ErrLockTimeout and is fatal
// for the current submission; there is no queueing.
func (l *Lock) Acquire(ctx context.Context, timeout time.Duration) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(timeout)

	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() { l.release(token) }, nil
		}
		if time.Now().After(deadline) {
			return nil, domain.ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}
}

func (l *Lock) release(token string) {
	// Release runs on every exit path; use a fresh context so a canceled
	// request cannot leave the lock held until TTL expiry.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.client.Eval(ctx, releaseScript, []string{l.key}, token).Err(); err != nil && err != redis.Nil {
		log.Printf("release lock %s: %v", l.key, err)
	}
}
