// Package codec centralizes header encoding for persisted snapshots.
//
// Codec selection is a breaking-change boundary: snapshots store the
// codec name in their header, and a file written with an unknown codec
// cannot be opened.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
//
// Snapshot headers store the codec name; on load the codec is selected
// through this registry.
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

// MustMarshal encodes v with c, falling back to Default when c is nil,
// and panics on failure. Intended for values known to be encodable, such
// as fixture headers.
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
