// Package encoder renders hash bit sequences as text.
package encoder

import "github.com/AnyUserName/purehash/internal/phash"

// Encoder renders Bits in one textual format.
type Encoder interface {
	// Format returns the format name (e.g. "bin", "hex", "base64").
	Format() string

	// Encode renders b.
	Encode(b phash.Bits) string

	// Decode parses s back into n bits. Packed formats need n because the
	// last byte is zero padded.
	Decode(s string, n int) (phash.Bits, error)
}
