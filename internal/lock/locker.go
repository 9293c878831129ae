// Package lock provides the per-user serialization the create workflow needs:
// the active-loan count check and the durable save must not interleave for the
// same user.
package lock

import "context"

// Locker grants an exclusive section for a key. Acquire blocks until the lock
// is held or ctx is done; the returned function releases it.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
