package pool

import (
	"github.com/ajitpratap0/leasepool/pkg/poolerrors"
)

// Lease is the handle issued by Pool.Get. It represents an exclusive lease
// on one pooled instance: the holder uses the instance through Instance and
// gives it back with Return. A lease that is simply dropped is picked up by
// the pool's reclamation sweep once the garbage collector has proven it
// unreachable.
//
// A Lease carries an identity back-reference to the pool that issued it,
// which the pool uses to reject Release calls with foreign handles.
type Lease[T comparable] struct {
	pool     *Pool[T]
	instance T

	// returned and generation are guarded by pool.mu. generation records
	// the pool generation the lease was minted in; a snapshot reload bumps
	// the pool's generation and invalidates earlier leases.
	returned   bool
	generation uint64
}

// LeaseFactory mints the handle for a freshly borrowed instance. The default
// is NewLease. A custom factory may observe or decorate the borrow (for
// example to count leases per call site) but must hand the instance to
// NewLease and must not keep its own strong reference to the returned
// handle, or abandonment detection for that lease breaks.
type LeaseFactory[T comparable] func(p *Pool[T], instance T) *Lease[T]

// NewLease wires a handle to its owning pool. It is the standard
// LeaseFactory and the required final step of any custom factory.
func NewLease[T comparable](p *Pool[T], instance T) *Lease[T] {
	return &Lease[T]{pool: p, instance: instance}
}

// Instance returns the wrapped pooled instance. The instance must not be
// used after the lease has been returned.
func (l *Lease[T]) Instance() T {
	return l.instance
}

// Return gives the instance back to the owning pool. The pool runs its
// Resetter: if the instance is accepted it is appended to the tail of the
// available set, otherwise it is dropped and the pool shrinks. Waiters on
// Ready are notified either way.
//
// Returning the same lease twice fails with a conflict error, as does
// returning a lease that outlived a snapshot reload of its pool: the reload
// already restored the instance as available.
func (l *Lease[T]) Return() error {
	p := l.pool
	p.mu.Lock()
	defer p.mu.Unlock()

	if l.returned {
		return poolerrors.New(poolerrors.ErrorTypeConflict, "lease already returned")
	}
	if l.generation != p.generation {
		return poolerrors.New(poolerrors.ErrorTypeConflict, "lease invalidated by pool reload")
	}
	l.returned = true
	p.returnToPoolLocked(l.instance)
	return nil
}
