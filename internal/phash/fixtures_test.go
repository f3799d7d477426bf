package phash

import (
	"testing"

	"github.com/AnyUserName/purehash/internal/grid"
)

// ─── deterministic fixture grids ─────────────────────────────

type pixelFunc func(r, c int) (int, int, int)

func makeGrid(tb testing.TB, h, w int, f pixelFunc) *grid.RGBGrid {
	tb.Helper()
	samples := make([]int, 0, h*w*3)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			red, green, blue := f(r, c)
			samples = append(samples, red, green, blue)
		}
	}
	g, err := grid.FromSamples(h, w, samples)
	if err != nil {
		tb.Fatalf("FromSamples: %v", err)
	}
	return g
}

func solid(v int) pixelFunc {
	return func(int, int) (int, int, int) { return v, v, v }
}

func gradient(h, w int) pixelFunc {
	return func(r, c int) (int, int, int) { return c * 255 / w, r * 255 / h, 128 }
}

// noise draws three bytes per pixel from a 32-bit LCG.
func noise(seed uint32) pixelFunc {
	state := seed
	next := func() int {
		state = state*1103515245 + 12345
		return int(state >> 24)
	}
	return func(int, int) (int, int, int) { return next(), next(), next() }
}

func rings(r, c int) (int, int, int) {
	v := ((r-25)*(r-25) + (c-35)*(c-35)) / 8 % 256
	return v, 255 - v, (r * c) % 256
}

func bands(r, c int) (int, int, int) {
	return (c / 10) * 25, (r / 3) * 20, ((c/10)*25 + (r/3)*20) % 256
}

func quadrants(r, c int) (int, int, int) {
	return 40 + 150*((r/24)^(c/24)) + r%24,
		60 + 100*(r/24) + c%24,
		30 + 120*(c/24) + (r+c)%16
}

func shifted(f pixelFunc, d int) pixelFunc {
	return func(r, c int) (int, int, int) {
		red, green, blue := f(r, c)
		return red + d, green + d, blue + d
	}
}

// hamming counts differing bits; both sequences must be the same length.
func hamming(tb testing.TB, a, b Bits) int {
	tb.Helper()
	if a.Len() != b.Len() {
		tb.Fatalf("length mismatch: %d vs %d", a.Len(), b.Len())
	}
	d := 0
	for i := 0; i < a.Len(); i++ {
		if a.At(i) != b.At(i) {
			d++
		}
	}
	return d
}

func mustGet(tb testing.TB, d Digest, c Channel) Bits {
	tb.Helper()
	b, ok := d.Get(c)
	if !ok {
		tb.Fatalf("digest has no %s channel", c)
	}
	return b
}
