package pool

import (
	"fmt"
	"sync"
	"weak"

	"go.uber.org/zap"

	"github.com/ajitpratap0/leasepool/pkg/logger"
	"github.com/ajitpratap0/leasepool/pkg/poolerrors"
)

// Pool is a leasing object pool over a fixed collection of instances of
// type T. Instances must be explicitly added; the pool never creates any.
// All methods are safe for concurrent use and run under a single mutex per
// pool, so at most one operation executes at a time on a given pool.
//
// T must be comparable because the pool keys its busy set by the raw
// instance. Pointer types are the usual choice.
type Pool[T comparable] struct {
	mu sync.Mutex

	// available holds idle instances in issuance order. Get pops the head,
	// returns and reclaims append to the tail.
	available []T

	// busy maps each borrowed raw instance to a weak observation of the
	// lease issued for it. The weak pointer detects abandonment without
	// keeping the handle alive.
	busy map[T]weak.Pointer[Lease[T]]

	resetter Resetter[T]
	factory  LeaseFactory[T]
	mode     SerializationMode
	logger   *zap.Logger

	// ready is closed and replaced on every availability change.
	ready chan struct{}

	// generation is bumped by a snapshot reload. Leases minted before the
	// bump are invalid: their instances were already restored as available.
	generation uint64

	stats counters
}

// counters accumulates lifetime statistics. Guarded by Pool.mu.
type counters struct {
	borrows   int64
	returns   int64
	reclaimed int64
	dropped   int64
	exhausted int64
}

// Options configures a Pool. The zero value is valid: no-op reset policy,
// standard lease factory, Standard serialization mode, global logger.
type Options[T comparable] struct {
	// Resetter is the reset/eviction policy consulted whenever an instance
	// is about to re-enter the available set. Defaults to NoOpResetter.
	Resetter Resetter[T]

	// Factory mints lease handles for borrowed instances. Defaults to
	// NewLease.
	Factory LeaseFactory[T]

	// Mode selects what a snapshot of the pool persists. Defaults to
	// Standard.
	Mode SerializationMode

	// Logger receives structured sweep and snapshot events. Defaults to the
	// global logger.
	Logger *zap.Logger
}

// Validate checks the options for consistency.
func (o *Options[T]) Validate() error {
	if !o.Mode.valid() {
		return poolerrors.New(poolerrors.ErrorTypeConfig, "unknown serialization mode").
			WithDetail("mode", int(o.Mode))
	}
	return nil
}

// New creates an empty pool from the given options, applying defaults for
// unset fields. Populate it with Add.
func New[T comparable](opts Options[T]) (*Pool[T], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Resetter == nil {
		opts.Resetter = NoOpResetter[T]{}
	}
	if opts.Factory == nil {
		opts.Factory = NewLease[T]
	}
	if opts.Logger == nil {
		opts.Logger = logger.Get().Named("pool")
	}

	return &Pool[T]{
		busy:     make(map[T]weak.Pointer[Lease[T]]),
		resetter: opts.Resetter,
		factory:  opts.Factory,
		mode:     opts.Mode,
		logger:   opts.Logger,
		ready:    make(chan struct{}),
	}, nil
}

// Add appends instances to the available set in the order given and
// notifies waiters. The zero value of T (nil for pointer types) is rejected
// with a validation error and no instance of the batch is added. An empty
// call is a no-op without notification.
func (p *Pool[T]) Add(instances ...T) error {
	if len(instances) == 0 {
		return nil
	}

	var zero T
	for i, instance := range instances {
		if instance == zero {
			return poolerrors.New(poolerrors.ErrorTypeValidation, "instance must not be the zero value").
				WithDetail("index", i)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.available = append(p.available, instances...)
	p.broadcastLocked()
	return nil
}

// Get borrows an instance from the pool, wrapped in a Lease. Issuance is
// FIFO over the available set. If nothing is available, Get runs one
// reclamation sweep and retries once; if the pool is still exhausted it
// returns ok == false immediately. Exhaustion is a normal outcome, not an
// error. To block, capture Ready before calling Get and wait on that
// channel when Get reports exhaustion.
func (p *Pool[T]) Get() (lease *Lease[T], ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.available) == 0 {
		p.sweepLocked()
	}
	if len(p.available) == 0 {
		p.stats.exhausted++
		return nil, false
	}

	instance := p.available[0]
	p.available = p.available[1:]

	lease = p.factory(p, instance)
	lease.generation = p.generation
	p.busy[instance] = weak.Make(lease)
	p.stats.borrows++
	return lease, true
}

// Release returns a lease to the pool on behalf of its holder. It fails
// with a type mismatch error if v is not a lease handle at all, and with an
// ownership error if the lease was issued by a different pool. On success
// it is equivalent to calling Return on the lease.
func (p *Pool[T]) Release(v any) error {
	lease, ok := v.(*Lease[T])
	if !ok || lease == nil {
		return poolerrors.New(poolerrors.ErrorTypeTypeMismatch, "value is not a lease handle").
			WithDetail("type", fmt.Sprintf("%T", v))
	}
	if lease.pool != p {
		return poolerrors.New(poolerrors.ErrorTypeOwnership, "lease was issued by a different pool")
	}
	return lease.Return()
}

// Available runs a reclamation sweep and returns the number of idle
// instances. Calling runtime.GC() first makes reclamation of abandoned
// leases observable deterministically.
func (p *Pool[T]) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sweepLocked()
	return len(p.available)
}

// Size returns the total number of instances managed by the pool, idle and
// borrowed, without forcing a sweep.
func (p *Pool[T]) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.available) + len(p.busy)
}

// Ready returns a channel that is closed the next time instances (re)enter
// the available set: a successful Add, an explicit return, or a sweep that
// reclaimed something. The channel is replaced after each broadcast, so
// callers must re-acquire it on every wait cycle, and must acquire it
// before the Get attempt it covers or a broadcast in between is missed.
func (p *Pool[T]) Ready() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ready
}

// Stats returns a snapshot of the pool's counters and current occupancy.
func (p *Pool[T]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		Size:      len(p.available) + len(p.busy),
		Available: len(p.available),
		Busy:      len(p.busy),
		Borrows:   p.stats.borrows,
		Returns:   p.stats.returns,
		Reclaimed: p.stats.reclaimed,
		Dropped:   p.stats.dropped,
		Exhausted: p.stats.exhausted,
	}
}

// Stats describes a pool's occupancy and lifetime counters.
type Stats struct {
	// Size is the total number of managed instances, idle plus borrowed
	Size int
	// Available is the number of idle instances
	Available int
	// Busy is the number of currently borrowed instances
	Busy int
	// Borrows counts successful Get calls
	Borrows int64
	// Returns counts explicit lease returns
	Returns int64
	// Reclaimed counts instances recovered from abandoned leases
	Reclaimed int64
	// Dropped counts instances evicted by the Resetter
	Dropped int64
	// Exhausted counts Get calls that found the pool empty
	Exhausted int64
}

// returnToPoolLocked is the internal return path shared by explicit lease
// returns. The caller must hold p.mu and have removed any claim on the
// lease itself.
func (p *Pool[T]) returnToPoolLocked(instance T) {
	delete(p.busy, instance)
	p.stats.returns++

	if p.resetter.Reset(instance) {
		p.available = append(p.available, instance)
	} else {
		p.stats.dropped++
		p.logger.Debug("instance evicted on return")
	}

	// Waiters are notified independent of the Resetter's answer.
	p.broadcastLocked()
}

// sweepLocked scans the busy set for leases the garbage collector has
// already proven unreachable and routes their instances through the
// Resetter. Waiters are notified once per sweep that reclaimed anything.
// The caller must hold p.mu.
func (p *Pool[T]) sweepLocked() {
	if len(p.busy) == 0 {
		return
	}

	var freed []T
	for instance, ref := range p.busy {
		if ref.Value() == nil {
			freed = append(freed, instance)
		}
	}
	if len(freed) == 0 {
		return
	}

	dropped := 0
	for _, instance := range freed {
		delete(p.busy, instance)
		if p.resetter.Reset(instance) {
			p.available = append(p.available, instance)
		} else {
			dropped++
		}
	}

	p.stats.reclaimed += int64(len(freed))
	p.stats.dropped += int64(dropped)
	p.logger.Debug("reclaimed abandoned leases",
		zap.Int("reclaimed", len(freed)),
		zap.Int("dropped", dropped))

	p.broadcastLocked()
}

// broadcastLocked wakes every waiter on Ready. The caller must hold p.mu.
func (p *Pool[T]) broadcastLocked() {
	close(p.ready)
	p.ready = make(chan struct{})
}
