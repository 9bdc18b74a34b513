package pool

import (
	"github.com/ajitpratap0/leasepool/pkg/poolerrors"
)

// SerializationMode controls which pool contents survive a snapshot.
// The mode is fixed at construction time and round-trips with the snapshot.
type SerializationMode int

const (
	// Standard persists the full current contents: all available instances
	// plus all currently busy raw instances. Busy instances lose their lease
	// association across a round-trip and reappear as available. Taking a
	// snapshot fails if any contained instance cannot be persisted.
	Standard SerializationMode = iota
	// None persists an empty instance list regardless of the current
	// contents. The pool must be repopulated with Add after a reload.
	None
	// Force attempts a trial serialization of the full contents first. If
	// the trial succeeds, the snapshot is taken as Standard would; if it
	// fails for any reason, the snapshot degrades to an empty list instead
	// of propagating the failure.
	Force
)

// String returns the mode's canonical lowercase name.
func (m SerializationMode) String() string {
	switch m {
	case Standard:
		return "standard"
	case None:
		return "none"
	case Force:
		return "force"
	default:
		return "unknown"
	}
}

// valid reports whether m is one of the predefined modes.
func (m SerializationMode) valid() bool {
	return m >= Standard && m <= Force
}

// MarshalText implements encoding.TextMarshaler so the mode serializes by
// name in JSON and YAML documents.
func (m SerializationMode) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, poolerrors.New(poolerrors.ErrorTypeConfig, "unknown serialization mode").
			WithDetail("mode", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *SerializationMode) UnmarshalText(text []byte) error {
	parsed, err := ParseSerializationMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseSerializationMode converts a mode name to its SerializationMode.
func ParseSerializationMode(name string) (SerializationMode, error) {
	switch name {
	case "standard", "":
		return Standard, nil
	case "none":
		return None, nil
	case "force":
		return Force, nil
	default:
		return Standard, poolerrors.New(poolerrors.ErrorTypeConfig, "unknown serialization mode").
			WithDetail("mode", name)
	}
}
