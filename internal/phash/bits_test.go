package phash

import (
	"errors"
	"testing"
)

func TestBits_Packing(t *testing.T) {
	b, err := ParseBits("1000000011")
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != 10 {
		t.Fatalf("len: %d", b.Len())
	}
	if got := b.Hex(); got != "80c0" {
		t.Errorf("hex: got %s, want 80c0", got)
	}
	u, err := b.Uint64()
	if err != nil {
		t.Fatal(err)
	}
	if u != 0x203 {
		t.Errorf("uint64: got %#x, want 0x203", u)
	}
	if b.OnesCount() != 3 {
		t.Errorf("ones: %d", b.OnesCount())
	}

	back, err := FromBytes(b.Bytes(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(b) {
		t.Errorf("FromBytes: got %s, want %s", back, b)
	}
}

func TestBits_Errors(t *testing.T) {
	if _, err := ParseBits("0102"); err == nil {
		t.Error("ParseBits accepted '2'")
	}
	if _, err := FromBytes([]byte{0xff}, 9); err == nil {
		t.Error("FromBytes accepted 9 bits in one byte")
	}
	if _, err := NewBits(make([]bool, 65)).Uint64(); err == nil {
		t.Error("Uint64 accepted 65 bits")
	}
}

func TestBits_CopyOnConstruct(t *testing.T) {
	v := []bool{true, false}
	b := NewBits(v)
	v[0] = false
	if !b.At(0) {
		t.Error("NewBits shares its input")
	}
	if b.Equal(NewBits([]bool{true})) {
		t.Error("different lengths compared equal")
	}
}

func TestNew(t *testing.T) {
	g := makeGrid(t, 32, 32, noise(9))
	for _, alg := range Algorithms {
		h, err := New(alg, g, 0)
		if err != nil {
			t.Fatalf("%s: %v", alg, err)
		}
		if h.Algorithm() != alg {
			t.Errorf("algorithm: got %s, want %s", h.Algorithm(), alg)
		}
		d, err := h.Compute()
		if err != nil {
			t.Fatalf("%s: %v", alg, err)
		}
		if d.Algorithm != alg {
			t.Errorf("digest algorithm: got %s", d.Algorithm)
		}
	}
	if _, err := New("wavelet", g, 0); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("got %v, want ErrUnknownAlgorithm", err)
	}
}

func TestState_String(t *testing.T) {
	for s, want := range map[State]string{Created: "created", Reduced: "reduced", Hashed: "hashed"} {
		if s.String() != want {
			t.Errorf("%d: got %s", int(s), s)
		}
	}
}
