package encoder

import (
	"encoding/base64"
	"fmt"

	"github.com/AnyUserName/purehash/internal/phash"
)

// Base64Encoder writes the packed bytes in standard padded base64.
type Base64Encoder struct{}

func (e *Base64Encoder) Format() string { return "base64" }

func (e *Base64Encoder) Encode(b phash.Bits) string {
	return base64.StdEncoding.EncodeToString(b.Bytes())
}

func (e *Base64Encoder) Decode(s string, n int) (phash.Bits, error) {
	p, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return phash.Bits{}, fmt.Errorf("decode base64: %w", err)
	}
	return phash.FromBytes(p, n)
}
