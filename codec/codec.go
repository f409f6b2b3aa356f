// Package codec centralizes value encoding for session snapshots.
//
// Snapshots record the codec name in their header, so a snapshot written
// with one codec is always decoded with the same one. Decoding is strict:
// fields the target type does not declare and data after the first value
// are errors.
package codec

import (
	"errors"
	"fmt"
)

// ErrTrailingData is returned when data follows the decoded value.
var ErrTrailingData = errors.New("trailing data after value")

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for tests.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
