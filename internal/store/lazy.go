package store

import (
	"context"
	"sync"
	"sync/atomic"
)

// Lazy defers database construction until first use and shares the opened
// handle among concurrent callers. The first caller runs the opener while
// waiters block; once it succeeds, an atomic fast path skips the lock. A
// failed open leaves the gate unset so a later call retries cleanly.
type Lazy struct {
	opener func() (*DB, error)

	ready atomic.Pointer[DB]
	mu    sync.Mutex
}

// NewLazy wraps an opener for deferred one-time initialization.
func NewLazy(opener func() (*DB, error)) *Lazy {
	return &Lazy{opener: opener}
}

// Get returns the shared handle, opening it on first use.
func (l *Lazy) Get(ctx context.Context) (*DB, error) {
	if db := l.ready.Load(); db != nil {
		return db, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if db := l.ready.Load(); db != nil {
		return db, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := l.opener()
	if err != nil {
		return nil, err
	}
	l.ready.Store(db)
	return db, nil
}

// Close releases the handle if it was ever opened.
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	db := l.ready.Swap(nil)
	if db == nil {
		return nil
	}
	return db.Close()
}
