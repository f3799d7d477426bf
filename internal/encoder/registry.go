package encoder

import (
	"fmt"
	"strings"
)

// DefaultFormat is used when no format is requested.
const DefaultFormat = "hex"

// order is the listing priority.
var order = []string{"hex", "bin", "base64"}

// Registry holds all encoders by format name.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry with every built-in encoder.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}
	for _, enc := range []Encoder{
		&HexEncoder{},
		&BinEncoder{},
		&Base64Encoder{},
	} {
		r.encoders[enc.Format()] = enc
	}
	return r
}

// Get returns an encoder for the given format, or nil if unknown.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[strings.ToLower(format)]
}

// Resolve is Get with an error naming the known formats. An empty format
// resolves to DefaultFormat.
func (r *Registry) Resolve(format string) (Encoder, error) {
	if format == "" {
		format = DefaultFormat
	}
	if enc := r.Get(format); enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("unknown format %q (%s)", format, strings.Join(r.Available(), ", "))
}

// Available returns all format names in priority order.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range order {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	return fmt.Sprintf("encoders: %s", strings.Join(r.Available(), ", "))
}
