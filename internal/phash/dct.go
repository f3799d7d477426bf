package phash

import (
	"fmt"
	"math"
	"sync"

	"github.com/AnyUserName/purehash/internal/grid"
)

const (
	// DefaultDCTSize is the reduction size used when none is given.
	DefaultDCTSize = 32
	// FrequencySize is the side of the low-frequency block that is hashed.
	FrequencySize = 8
)

// DCTHash thresholds the low-frequency DCT coefficients of the reduced
// grayscale grid against their mean.
//
// The DC coefficient D(0,0) is left out of the mean and its bit (index 0)
// is always 0, so every hash is exactly 64 bits.
type DCTHash struct {
	src  *grid.RGBGrid
	size int
	lc   lifecycle
}

// NewDCTHash prepares a DCT hash of g reduced to size×size cells
// (0 selects DefaultDCTSize).
func NewDCTHash(g *grid.RGBGrid, size int) *DCTHash {
	if size == 0 {
		size = DefaultDCTSize
	}
	return &DCTHash{src: g, size: size}
}

func (h *DCTHash) Algorithm() Algorithm { return AlgorithmDCT }
func (h *DCTHash) State() State         { return h.lc.state }

// Size returns the reduction size.
func (h *DCTHash) Size() int { return h.size }

// Compute returns the 64-bit hash as the single "dct" channel.
func (h *DCTHash) Compute() (Digest, error) {
	if h.size < FrequencySize {
		return Digest{}, fmt.Errorf("%w: %d < %d", ErrReductionTooSmall, h.size, FrequencySize)
	}
	reduced, err := h.lc.reduce(h.src, h.size)
	if err != nil {
		return Digest{}, err
	}

	full, err := Transform(reduced.Gray())
	if err != nil {
		return Digest{}, err
	}
	freq := full.Crop(FrequencySize, FrequencySize)

	var sum float64
	for u := 0; u < FrequencySize; u++ {
		for v := 0; v < FrequencySize; v++ {
			if u == 0 && v == 0 {
				continue
			}
			sum += freq.At(u, v)
		}
	}
	mean := sum / (FrequencySize*FrequencySize - 1)

	bits := make([]bool, FrequencySize*FrequencySize)
	for u := 0; u < FrequencySize; u++ {
		for v := 0; v < FrequencySize; v++ {
			if u == 0 && v == 0 {
				continue
			}
			bits[u*FrequencySize+v] = freq.At(u, v) > mean
		}
	}

	if err := h.lc.advance(Reduced, Hashed); err != nil {
		return Digest{}, err
	}
	return Digest{
		Algorithm: AlgorithmDCT,
		Size:      h.size,
		Hashes:    []ChannelHash{{Channel: ChannelDCT, Bits: Bits{v: bits}}},
	}, nil
}

// ─── 2-D DCT-II ──────────────────────────────────────────────

// dctTable holds cos(π·u·(2i+1)/(2n)) at [u*n+i] and λ(i).
type dctTable struct {
	cos    []float64
	lambda []float64
}

// Tables are immutable once built and shared between goroutines.
var dctTables sync.Map // int → *dctTable

func tableFor(n int) *dctTable {
	if t, ok := dctTables.Load(n); ok {
		return t.(*dctTable)
	}
	t := &dctTable{cos: make([]float64, n*n), lambda: make([]float64, n)}
	for u := 0; u < n; u++ {
		// Evaluated as (π·u / 2n)·(2i+1) for every implementation to agree.
		s := (math.Pi * float64(u)) / (2.0 * float64(n))
		for i := 0; i < n; i++ {
			t.cos[u*n+i] = math.Cos(s * float64(2*i+1))
		}
	}
	t.lambda[0] = 1.0 / math.Sqrt(2.0)
	for i := 1; i < n; i++ {
		t.lambda[i] = 1.0
	}
	actual, _ := dctTables.LoadOrStore(n, t)
	return actual.(*dctTable)
}

// Transform computes the full n×n DCT-II of a square grid by the direct
// double sum
//
//	D(u,v) = (2/n) Σ_i Σ_j λ(i)·λ(j)·cos(π·u·(2i+1)/2n)·cos(π·v·(2j+1)/2n)·g(i,j)
//
// with λ(0) = 1/√2 and λ(k) = 1 otherwise. Terms are multiplied and summed
// in exactly that order (i outer, j inner).
func Transform(g *grid.ScalarGrid) (*grid.ScalarGrid, error) {
	n := g.Height()
	if n == 0 || g.Width() != n {
		return nil, fmt.Errorf("dct: grid must be square and non-empty, got %dx%d", g.Height(), g.Width())
	}
	t := tableFor(n)
	scale := 2.0 / float64(n)

	out := grid.NewScalarGrid(n, n)
	for u := 0; u < n; u++ {
		cu := t.cos[u*n : (u+1)*n]
		for v := 0; v < n; v++ {
			cv := t.cos[v*n : (v+1)*n]
			var sum float64
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					term := t.lambda[i] * t.lambda[j]
					term *= cu[i]
					term *= cv[j]
					// The conversion rounds the product so it cannot fuse
					// with the addition.
					sum += float64(term * g.At(i, j))
				}
			}
			out.Set(u, v, scale*sum)
		}
	}
	return out, nil
}
