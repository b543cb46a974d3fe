// Package codec selects the JSON encoder used for command output.
//
// Both codecs produce the same documents; they differ only in speed.
package codec

import (
	"fmt"
	"io"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	MarshalIndent(v any, prefix, indent string) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Names lists the built-in codec names.
var Names = []string{"json", "go-json"}

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

// Encode writes v to w indented by two spaces and followed by a newline.
func Encode(c Codec, w io.Writer, v any) error {
	if c == nil {
		c = Default
	}
	b, err := c.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("codec %s: %w", c.Name(), err)
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// MustMarshal is a helper for internal tests/benchmarks.
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
