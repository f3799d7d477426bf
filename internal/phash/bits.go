package phash

import (
	"encoding/hex"
	"fmt"
	"math/bits"
	"strings"
)

// Bits is an immutable ordered bit sequence. The zero value is empty.
type Bits struct {
	v []bool
}

// NewBits copies v into a Bits.
func NewBits(v []bool) Bits {
	c := make([]bool, len(v))
	copy(c, v)
	return Bits{v: c}
}

// ParseBits reads a string of '0' and '1' characters.
func ParseBits(s string) (Bits, error) {
	v := make([]bool, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
		case '1':
			v[i] = true
		default:
			return Bits{}, fmt.Errorf("parse bits: invalid character %q at %d", s[i], i)
		}
	}
	return Bits{v: v}, nil
}

// FromBytes unpacks the first n bits of p, most significant bit first.
func FromBytes(p []byte, n int) (Bits, error) {
	if n < 0 || (n+7)/8 != len(p) {
		return Bits{}, fmt.Errorf("unpack bits: %d bytes cannot hold exactly %d bits", len(p), n)
	}
	v := make([]bool, n)
	for i := range v {
		v[i] = p[i/8]&(0x80>>(i%8)) != 0
	}
	return Bits{v: v}, nil
}

// Len returns the number of bits.
func (b Bits) Len() int { return len(b.v) }

// At returns bit i.
func (b Bits) At(i int) bool { return b.v[i] }

// String joins the bits as '0'/'1' characters.
func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(len(b.v))
	for _, x := range b.v {
		if x {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Bytes packs the bits most significant first; the last byte is zero
// padded on the right.
func (b Bits) Bytes() []byte {
	out := make([]byte, (len(b.v)+7)/8)
	for i, x := range b.v {
		if x {
			out[i/8] |= 0x80 >> (i % 8)
		}
	}
	return out
}

// Hex is the lowercase hex form of Bytes.
func (b Bits) Hex() string {
	return hex.EncodeToString(b.Bytes())
}

// Uint64 packs up to 64 bits with bit 0 as the most significant of Len bits.
func (b Bits) Uint64() (uint64, error) {
	if len(b.v) > 64 {
		return 0, fmt.Errorf("pack bits: %d bits do not fit in uint64", len(b.v))
	}
	var u uint64
	for _, x := range b.v {
		u <<= 1
		if x {
			u |= 1
		}
	}
	return u, nil
}

// OnesCount returns the number of set bits.
func (b Bits) OnesCount() int {
	n := 0
	for _, p := range b.Bytes() {
		n += bits.OnesCount8(p)
	}
	return n
}

// Equal reports whether both sequences have the same length and bits.
func (b Bits) Equal(o Bits) bool {
	if len(b.v) != len(o.v) {
		return false
	}
	for i := range b.v {
		if b.v[i] != o.v[i] {
			return false
		}
	}
	return true
}
