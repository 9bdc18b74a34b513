package pool_test

import (
	"runtime"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/leasepool/pkg/pool"
	"github.com/ajitpratap0/leasepool/pkg/poolerrors"
)

// opaque is comparable but cannot be encoded to JSON.
type opaque struct {
	Ch chan int `json:"ch"`
}

func TestSnapshotStandardRoundTrip(t *testing.T) {
	p := newTestPool(t, pool.Options[*resource]{Mode: pool.Standard})
	require.NoError(t, p.Add(newResources(2)...))

	lease, ok := p.Get()
	require.True(t, ok)

	data, err := json.Marshal(p)
	require.NoError(t, err)

	restored := newTestPool(t, pool.Options[*resource]{Mode: pool.Standard})
	require.NoError(t, json.Unmarshal(data, restored))

	// Busy instances lose their lease association across a round-trip.
	require.Equal(t, 2, restored.Size())
	require.Equal(t, 2, restored.Available())

	first, ok := restored.Get()
	require.True(t, ok)
	second, ok := restored.Get()
	require.True(t, ok)
	require.NotNil(t, first)
	require.NotNil(t, second)
	_, ok = restored.Get()
	require.False(t, ok)

	// The original pool and its lease are untouched by the snapshot.
	require.Equal(t, 2, p.Size())
	require.NoError(t, lease.Return())

	runtime.KeepAlive(first)
	runtime.KeepAlive(second)
}

func TestSnapshotNonePersistsEmpty(t *testing.T) {
	p := newTestPool(t, pool.Options[*resource]{Mode: pool.None})
	require.NoError(t, p.Add(newResources(2)...))

	data, err := json.Marshal(p)
	require.NoError(t, err)

	restored := newTestPool(t, pool.Options[*resource]{})
	require.NoError(t, json.Unmarshal(data, restored))
	require.Equal(t, 0, restored.Size())

	// The mode round-trips with the snapshot, the contents do not.
	require.NoError(t, restored.Add(newResources(2)...))
	require.Equal(t, 2, restored.Size())
}

func TestSnapshotStandardFailsOnUnpersistableElement(t *testing.T) {
	p, err := pool.New(pool.Options[opaque]{Mode: pool.Standard})
	require.NoError(t, err)
	require.NoError(t, p.Add(opaque{Ch: make(chan int)}))

	_, err = json.Marshal(p)
	require.Error(t, err)
	require.True(t, poolerrors.IsType(err, poolerrors.ErrorTypeSerialization))
}

func TestSnapshotForceDegradesToEmpty(t *testing.T) {
	p, err := pool.New(pool.Options[opaque]{Mode: pool.Force})
	require.NoError(t, err)
	require.NoError(t, p.Add(opaque{Ch: make(chan int)}))

	data, err := json.Marshal(p)
	require.NoError(t, err, "force mode must recover serialization failures internally")

	restored, err := pool.New(pool.Options[opaque]{Mode: pool.Force})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, restored))
	require.Equal(t, 0, restored.Size())

	// The pool is usable again after repopulation.
	require.NoError(t, restored.Add(opaque{Ch: make(chan int)}))
	require.Equal(t, 1, restored.Size())
}

func TestSnapshotForcePersistsWhenTrialSucceeds(t *testing.T) {
	p := newTestPool(t, pool.Options[*resource]{Mode: pool.Force})
	require.NoError(t, p.Add(newResources(2)...))

	lease, ok := p.Get()
	require.True(t, ok)

	data, err := json.Marshal(p)
	require.NoError(t, err)

	restored := newTestPool(t, pool.Options[*resource]{})
	require.NoError(t, json.Unmarshal(data, restored))
	require.Equal(t, 2, restored.Size())
	require.Equal(t, 2, restored.Available())

	runtime.KeepAlive(lease)
}

func TestSnapshotAbandonedLeaseIsSweptBeforePersisting(t *testing.T) {
	p := newTestPool(t, pool.Options[*resource]{Mode: pool.Standard})
	require.NoError(t, p.Add(newResources(1)...))

	borrowAndAbandon(t, p)
	collectGarbage()

	data, err := json.Marshal(p)
	require.NoError(t, err)

	restored := newTestPool(t, pool.Options[*resource]{})
	require.NoError(t, json.Unmarshal(data, restored))
	require.Equal(t, 1, restored.Size())
}

func TestSnapshotReloadInvalidatesOutstandingLeases(t *testing.T) {
	p := newTestPool(t, pool.Options[*resource]{Mode: pool.Standard})
	require.NoError(t, p.Add(newResources(2)...))

	lease, ok := p.Get()
	require.True(t, ok)

	data, err := json.Marshal(p)
	require.NoError(t, err)

	// Reload into the same pool while the lease is still held. The reload
	// restored the borrowed instance as available, so the stale lease must
	// not be able to re-append it.
	require.NoError(t, json.Unmarshal(data, p))
	require.Equal(t, 2, p.Size())
	require.Equal(t, 2, p.Available())

	err = lease.Return()
	require.Error(t, err)
	require.True(t, poolerrors.IsType(err, poolerrors.ErrorTypeConflict))
	require.Equal(t, 2, p.Size())
	require.Equal(t, 2, p.Available())

	// Exclusivity holds after the reload: two instances, two leases.
	first, ok := p.Get()
	require.True(t, ok)
	second, ok := p.Get()
	require.True(t, ok)
	_, ok = p.Get()
	require.False(t, ok)

	runtime.KeepAlive(first)
	runtime.KeepAlive(second)
}

func TestSnapshotTypeMismatchRejected(t *testing.T) {
	p := newTestPool(t, pool.Options[*resource]{})
	require.NoError(t, p.Add(newResources(1)...))

	data, err := json.Marshal(p)
	require.NoError(t, err)

	other, err := pool.New(pool.Options[string]{})
	require.NoError(t, err)
	err = json.Unmarshal(data, other)
	require.Error(t, err)
	require.True(t, poolerrors.IsType(err, poolerrors.ErrorTypeSerialization))
}

func TestSnapshotReloadNotifiesWaiters(t *testing.T) {
	p := newTestPool(t, pool.Options[*resource]{})
	require.NoError(t, p.Add(newResources(1)...))
	data, err := json.Marshal(p)
	require.NoError(t, err)

	restored := newTestPool(t, pool.Options[*resource]{})
	ready := restored.Ready()
	require.NoError(t, json.Unmarshal(data, restored))

	select {
	case <-ready:
	default:
		t.Fatal("a reload that makes instances available must notify waiters")
	}
}

func TestSerializationModeText(t *testing.T) {
	tests := []struct {
		mode pool.SerializationMode
		name string
	}{
		{pool.Standard, "standard"},
		{pool.None, "none"},
		{pool.Force, "force"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.name, tt.mode.String())

			text, err := tt.mode.MarshalText()
			require.NoError(t, err)
			require.Equal(t, tt.name, string(text))

			parsed, err := pool.ParseSerializationMode(tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.mode, parsed)
		})
	}

	_, err := pool.ParseSerializationMode("sideways")
	require.Error(t, err)
	require.True(t, poolerrors.IsType(err, poolerrors.ErrorTypeConfig))
}
