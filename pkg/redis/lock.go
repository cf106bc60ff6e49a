package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock implements a single-holder run lock backed by Redis SET NX.
// It serializes ranking recomputation passes across processes. When Redis
// is disabled it degrades to an in-process mutex, which is sufficient for
// a single-instance deployment.
type Lock struct {
	client *Client
	prefix string

	mu    sync.Mutex
	held  bool
	token string
}

// NewLock creates a new run lock helper
func NewLock(client *Client, prefix string) *Lock {
	return &Lock{
		client: client,
		prefix: prefix,
	}
}

// releaseScript deletes the lock key only if the caller still owns it.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// Acquire attempts to take the lock. Returns false without error when the
// lock is already held by another pass. The TTL bounds how long a crashed
// holder can block subsequent passes.
func (l *Lock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.client.Enabled() {
		if l.held {
			return false, nil
		}
		l.held = true
		return true, nil
	}

	token := fmt.Sprintf("%d", time.Now().UnixNano())
	key := fmt.Sprintf("%s:lock:%s", l.prefix, name)

	ok, err := l.client.Redis().SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	if ok {
		l.token = token
	}

	return ok, nil
}

// Release gives the lock back. Releasing a lock that expired and was taken
// over by another holder is a no-op.
func (l *Lock) Release(ctx context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.client.Enabled() {
		l.held = false
		return nil
	}

	key := fmt.Sprintf("%s:lock:%s", l.prefix, name)
	if err := releaseScript.Run(ctx, l.client.Redis(), []string{key}, l.token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("release lock %s: %w", name, err)
	}
	l.token = ""

	return nil
}
