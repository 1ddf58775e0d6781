// Package nv provides the persistent parameter store of a node.
// Parameters are named integers that survive restarts. A parameter that was
// never written, was deleted, or holds something other than an integer
// decodes as "not an integer".
package nv

import (
	"fmt"
	"strconv"
)

// Store is a persistent key/value store for node parameters.
// Implementations are safe for concurrent use; each call is atomic for its key.
type Store interface {
	// Load returns the stored value, or an unset Value if the key has never
	// been written.
	Load(key string) (Value, error)

	// Save durably stores an integer. The write has reached storage when
	// Save returns.
	Save(key string, v int) error

	// Delete clears the key so that it loads as unset.
	Delete(key string) error

	// Close releases the backend.
	Close() error
}

// Value is a loaded parameter.
type Value struct {
	raw any
}

// Int wraps an integer.
func Int(n int) Value {
	return Value{raw: n}
}

// Raw wraps whatever a backend decoded.
func Raw(v any) Value {
	return Value{raw: v}
}

// Int returns the integer and true, or false when the value is not an integer.
func (v Value) Int() (int, bool) {
	n, ok := v.raw.(int)
	return n, ok
}

// IsSet reports whether anything is stored.
func (v Value) IsSet() bool {
	return v.raw != nil
}

// String renders the value for status messages.
func (v Value) String() string {
	switch raw := v.raw.(type) {
	case nil:
		return "unset"
	case int:
		return strconv.Itoa(raw)
	default:
		return fmt.Sprint(raw)
	}
}
