package pool

// Resetter is the reset/eviction policy of a pool. It is invoked for every
// instance about to re-enter the available set, whether the instance was
// returned explicitly or reclaimed from an abandoned lease.
//
// Reset prepares the instance for reuse and reports whether it is still
// poolable. Returning false drops the instance from the pool permanently,
// reducing the pool's size.
//
// Reset runs with the pool's lock held. A Resetter must not call back into
// the same pool synchronously; doing so deadlocks.
type Resetter[T comparable] interface {
	Reset(instance T) bool
}

// ResetterFunc adapts a plain function to the Resetter interface.
type ResetterFunc[T comparable] func(instance T) bool

// Reset calls f(instance).
func (f ResetterFunc[T]) Reset(instance T) bool {
	return f(instance)
}

// NoOpResetter accepts every instance unchanged. It is the default policy.
type NoOpResetter[T comparable] struct{}

// Reset always returns true.
func (NoOpResetter[T]) Reset(T) bool {
	return true
}
