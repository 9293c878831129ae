package lock

import (
	"context"
	"sync"
)

// MemoryLocker serializes per key within a single process using keyed
// mutexes. Mutexes are kept for the lifetime of the process; the key space is
// bounded by the active user population.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewMemoryLocker creates an in-process locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*sync.Mutex)}
}

// Acquire blocks until the keyed mutex is held. The context is only checked
// before blocking; in-process critical sections are short.
func (l *MemoryLocker) Acquire(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	keyLock, ok := l.locks[key]
	if !ok {
		keyLock = &sync.Mutex{}
		l.locks[key] = keyLock
	}
	l.mu.Unlock()

	keyLock.Lock()
	return keyLock.Unlock, nil
}
