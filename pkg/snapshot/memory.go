package snapshot

import (
	"slices"
	"sync"

	"github.com/ajitpratap0/leasepool/pkg/poolerrors"
)

// MemoryStore keeps snapshots in process memory. It is intended for tests
// and for applications that only need pool state to survive an internal
// reload, not a restart.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

// NewMemoryStore creates an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string][]byte)}
}

// Save implements Store.
func (s *MemoryStore) Save(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[name] = slices.Clone(data)
	return nil
}

// Load implements Store.
func (s *MemoryStore) Load(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.snapshots[name]
	if !ok {
		return nil, poolerrors.New(poolerrors.ErrorTypeInternal, "snapshot not found").
			WithDetail("snapshot", name)
	}
	return slices.Clone(data), nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.snapshots, name)
	return nil
}
