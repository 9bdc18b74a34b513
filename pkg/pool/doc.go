// Package pool provides a leasing object pool for a fixed collection of
// reusable instances. Unlike a free-list pool, this pool only manages
// instances that were explicitly added to it: Get hands out an exclusive
// lease on one instance, and the instance is not available again until the
// lease is returned or abandoned.
//
// # Overview
//
// The package provides:
//   - Generic type-safe pooling with Pool[T]
//   - Lease handles that return their instance explicitly or on abandonment
//   - Automatic reclamation of abandoned leases via weak references
//   - A pluggable reset/eviction policy (Resetter)
//   - Snapshot persistence with Standard, None, and Force modes
//   - A Prometheus collector over pool statistics
//
// # Basic Usage
//
//	p, err := pool.New(pool.Options[*Conn]{})
//	if err != nil {
//	    return err
//	}
//	if err := p.Add(connA, connB); err != nil {
//	    return err
//	}
//
//	lease, ok := p.Get()
//	if !ok {
//	    // pool exhausted: not an error, wait on p.Ready() and retry
//	}
//	defer lease.Return()
//
//	use(lease.Instance())
//
// # Abandonment
//
// Every lease is observed through a weak pointer. A lease that loses all
// external references is detected by the next reclamation sweep and its
// instance is routed through the Resetter back into the available set (or
// dropped). Sweeps run when Get finds nothing available, on Available, and
// before a snapshot is taken. Reclamation depends on the garbage collector;
// calling runtime.GC() before Available makes it observable deterministically
// in tests.
//
// # Waiting
//
// Get never blocks: on an exhausted pool it returns ok == false immediately.
// Callers that want to block should select on Ready, which yields a channel
// closed whenever instances (re)enter the available set. Capture the channel
// before calling Get: a return that lands between a failed Get and a later
// Ready call would replace the channel and the wakeup would be lost.
//
//	for {
//	    ready := p.Ready()
//	    if lease, ok := p.Get(); ok {
//	        return lease, nil
//	    }
//	    select {
//	    case <-ready:
//	    case <-ctx.Done():
//	        return nil, ctx.Err()
//	    }
//	}
package pool
