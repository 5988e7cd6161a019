package ioc

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Lifetime is the reuse policy of an instance produced by the container.
type Lifetime int

const (
	// Transient instances are never reused: every resolution builds a new one.
	Transient Lifetime = iota

	// Scoped instances are reused within a single scope and discarded when
	// the scope ends.
	Scoped

	// Singleton instances are built once and reused for the lifetime of the
	// container.
	Singleton
)

// String returns the human-readable name of the lifetime.
func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "Transient"
	case Scoped:
		return "Scoped"
	case Singleton:
		return "Singleton"
	default:
		return fmt.Sprintf("Unknown(%d)", int(l))
	}
}

// IsValid reports whether l is one of the three defined lifetimes.
func (l Lifetime) IsValid() bool {
	return l >= Transient && l <= Singleton
}

// MarshalText implements encoding.TextMarshaler.
func (l Lifetime) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Lifetime) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Transient", "transient":
		*l = Transient
	case "Scoped", "scoped":
		*l = Scoped
	case "Singleton", "singleton":
		*l = Singleton
	default:
		return &LifetimeError{Value: string(text)}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (l Lifetime) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Lifetime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return l.UnmarshalText([]byte(s))
}
