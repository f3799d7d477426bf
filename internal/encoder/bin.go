package encoder

import (
	"fmt"

	"github.com/AnyUserName/purehash/internal/phash"
)

// BinEncoder writes one '0'/'1' character per bit.
type BinEncoder struct{}

func (e *BinEncoder) Format() string            { return "bin" }
func (e *BinEncoder) Encode(b phash.Bits) string { return b.String() }

func (e *BinEncoder) Decode(s string, n int) (phash.Bits, error) {
	if len(s) != n {
		return phash.Bits{}, fmt.Errorf("decode bin: got %d bits, want %d", len(s), n)
	}
	return phash.ParseBits(s)
}
