// Package snapshot persists pool snapshots to durable storage. A snapshot
// is whatever the pool's serialization controller emits for its mode; this
// package only moves the encoded bytes and never inspects pool contents.
//
// # Basic Usage
//
//	store, err := snapshot.NewFileStore(snapshot.FileStoreConfig{Dir: "/var/lib/app/pools"})
//	if err != nil {
//	    return err
//	}
//
//	// Persist and restore a pool through its serialization mode.
//	if err := snapshot.Save(store, "workers", p); err != nil {
//	    return err
//	}
//	restored, _ := pool.New(pool.Options[*Worker]{})
//	if err := snapshot.Load(store, "workers", restored); err != nil {
//	    return err
//	}
package snapshot

import (
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ajitpratap0/leasepool/pkg/logger"
	"github.com/ajitpratap0/leasepool/pkg/poolerrors"
)

// Store persists named snapshots. Implementations must be safe for
// concurrent use.
type Store interface {
	// Save writes the snapshot bytes under the given name, replacing any
	// previous snapshot of that name.
	Save(name string, data []byte) error

	// Load reads the snapshot bytes stored under the given name.
	Load(name string) ([]byte, error)

	// Delete removes the snapshot stored under the given name. Deleting a
	// name that does not exist is not an error.
	Delete(name string) error
}

// Save encodes v with its own JSON marshaling (for a pool, the configured
// serialization mode) and persists the result in the store.
func Save(store Store, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return poolerrors.Wrap(err, poolerrors.ErrorTypeSerialization, "failed to encode snapshot").
			WithDetail("snapshot", name)
	}
	if err := store.Save(name, data); err != nil {
		return err
	}
	logger.Debug("snapshot saved",
		zap.String("snapshot", name),
		zap.Int("bytes", len(data)))
	return nil
}

// Load reads the named snapshot from the store and decodes it into v.
// Loading into a pool replaces its contents: the persisted instances become
// available and no leases are outstanding.
func Load(store Store, name string, v any) error {
	data, err := store.Load(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return poolerrors.Wrap(err, poolerrors.ErrorTypeSerialization, "failed to decode snapshot").
			WithDetail("snapshot", name)
	}
	logger.Debug("snapshot loaded",
		zap.String("snapshot", name),
		zap.Int("bytes", len(data)))
	return nil
}
