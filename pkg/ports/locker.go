package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates per-user session access across multiple
// instances (replicas). In a single process the session manager's in-memory
// locks are sufficient and no locker is configured.
type DistributedLocker interface {
	// Lock acquires a lock for the given key (user id). It blocks until the
	// lock is acquired or the context is canceled. The returned UnlockFunc
	// MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
