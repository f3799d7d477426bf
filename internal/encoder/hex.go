package encoder

import (
	"encoding/hex"
	"fmt"

	"github.com/AnyUserName/purehash/internal/phash"
)

// HexEncoder writes the packed bytes as lowercase hex.
type HexEncoder struct{}

func (e *HexEncoder) Format() string            { return "hex" }
func (e *HexEncoder) Encode(b phash.Bits) string { return b.Hex() }

func (e *HexEncoder) Decode(s string, n int) (phash.Bits, error) {
	p, err := hex.DecodeString(s)
	if err != nil {
		return phash.Bits{}, fmt.Errorf("decode hex: %w", err)
	}
	return phash.FromBytes(p, n)
}
