package pool

import (
	"reflect"
	"weak"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ajitpratap0/leasepool/pkg/poolerrors"
)

// poolState is the persisted layout of a pool: its element type identity,
// configured serialization mode, and the instance list the mode admitted.
type poolState[T comparable] struct {
	Type      string            `json:"type"`
	Mode      SerializationMode `json:"mode"`
	Instances []T               `json:"instances"`
}

// elementType returns the name of T for snapshot type-identity checks.
func elementType[T comparable]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// MarshalJSON implements json.Marshaler. What the snapshot contains is
// governed by the pool's serialization mode:
//
//   - Standard: all available plus all busy raw instances. Fails with a
//     serialization error if any instance cannot be encoded.
//   - None: an empty instance list.
//   - Force: like Standard if a trial encoding of the full contents
//     succeeds, otherwise an empty list. Never fails on element content.
//
// A reclamation sweep runs first, so instances of already-abandoned leases
// are persisted as available rather than lost.
func (p *Pool[T]) MarshalJSON() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sweepLocked()

	instances := make([]T, 0, len(p.available)+len(p.busy))
	instances = append(instances, p.available...)
	for instance := range p.busy {
		instances = append(instances, instance)
	}

	effective := p.mode
	if effective == Force {
		if _, err := json.Marshal(instances); err != nil {
			p.logger.Warn("trial serialization failed, persisting empty pool",
				zap.Error(err))
			effective = None
		} else {
			effective = Standard
		}
	}
	if effective == None {
		instances = instances[:0]
	}

	data, err := json.Marshal(poolState[T]{
		Type:      elementType[T](),
		Mode:      p.mode,
		Instances: instances,
	})
	if err != nil {
		return nil, poolerrors.Wrap(err, poolerrors.ErrorTypeSerialization, "pool contains unpersistable element").
			WithDetail("type", elementType[T]())
	}
	return data, nil
}

// UnmarshalJSON implements json.Unmarshaler. The persisted instance list
// becomes the new available set and the busy set is emptied: a reloaded
// pool has no leases outstanding regardless of the state at snapshot time.
// Leases still held from before the reload are invalidated; returning one
// fails with a conflict error. The serialization mode round-trips with the
// snapshot. Waiters are notified if the reload made instances available.
//
// The snapshot's element type identity must match T.
func (p *Pool[T]) UnmarshalJSON(data []byte) error {
	var state poolState[T]
	if err := json.Unmarshal(data, &state); err != nil {
		return poolerrors.Wrap(err, poolerrors.ErrorTypeSerialization, "failed to decode pool snapshot")
	}
	if state.Type != "" && state.Type != elementType[T]() {
		return poolerrors.New(poolerrors.ErrorTypeSerialization, "snapshot element type mismatch").
			WithDetail("snapshot_type", state.Type).
			WithDetail("pool_type", elementType[T]())
	}
	if !state.Mode.valid() {
		return poolerrors.New(poolerrors.ErrorTypeSerialization, "snapshot carries unknown serialization mode").
			WithDetail("mode", int(state.Mode))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.mode = state.Mode
	p.available = state.Instances
	p.busy = make(map[T]weak.Pointer[Lease[T]], len(p.busy))
	p.generation++

	if len(p.available) > 0 {
		p.broadcastLocked()
	}
	return nil
}
