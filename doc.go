// Package leasepool provides a generic leasing object pool with weak
// observation of outstanding leases, pluggable reset policies, and
// snapshot persistence.
//
// A pool holds a fixed collection of instances and hands them out one at a
// time wrapped in leases. Returning a lease makes its instance available
// again; dropping a lease without returning it is recovered automatically
// once the garbage collector proves the lease unreachable. A Resetter
// decides on every return and every recovery whether the instance may
// re-enter circulation.
//
// # Packages
//
//   - pool: the pool itself (Pool, Lease, Resetter, SerializationMode)
//   - snapshot: persistence of pool contents to files or memory
//   - compression: codecs for snapshot files (gzip, snappy, lz4, zstd, s2)
//   - poolerrors: structured errors with types and details
//   - logger: zap-based structured logging
//   - config: YAML configuration for applications and the CLI
//
// # Quick Start
//
// Create a pool of connections and lease one:
//
//	import "github.com/ajitpratap0/leasepool/pkg/pool"
//
//	p, err := pool.New(pool.Options[*Conn]{
//	    Resetter: pool.ResetterFunc[*Conn](func(c *Conn) bool {
//	        return c.Reset() == nil
//	    }),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := p.Add(newConn(), newConn()); err != nil {
//	    log.Fatal(err)
//	}
//
//	lease, ok := p.Get()
//	if ok {
//	    defer lease.Return()
//	    use(lease.Instance())
//	}
//
// See the pool package documentation for serialization modes, waiting on
// availability, and abandonment recovery details.
package leasepool
