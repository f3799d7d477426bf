package phash

import (
	"math/big"

	"github.com/AnyUserName/purehash/internal/grid"
)

// DefaultAverageSize is the reduction size used when none is given.
const DefaultAverageSize = 8

// averageChannels fixes the output order. Each channel reads a cell as
// (weights·Sum) / (div·Count): grayscale is the plain channel mean and
// luminosity uses the BT.709 weights 0.2126, 0.7152 and 0.0722.
var averageChannels = []struct {
	channel Channel
	weights [3]uint64
	div     uint64
}{
	{ChannelRed, [3]uint64{1, 0, 0}, 1},
	{ChannelGreen, [3]uint64{0, 1, 0}, 1},
	{ChannelBlue, [3]uint64{0, 0, 1}, 1},
	{ChannelGrayscale, [3]uint64{1, 1, 1}, 3},
	{ChannelLuminosity, [3]uint64{2126, 7152, 722}, 10000},
}

// cellValue returns the exact weighted mean of c.
func cellValue(c grid.Cell, weights [3]uint64, div uint64) *big.Rat {
	num := new(big.Int)
	var term big.Int
	for k, w := range weights {
		if w == 0 {
			continue
		}
		term.SetUint64(c.Sum[k])
		term.Mul(&term, new(big.Int).SetUint64(w))
		num.Add(num, &term)
	}
	den := new(big.Int).SetUint64(div)
	den.Mul(den, big.NewInt(int64(c.Count)))
	return new(big.Rat).SetFrac(num, den)
}

// AverageHash thresholds every reduced cell against the grid-wide mean.
type AverageHash struct {
	src  *grid.RGBGrid
	size int
	lc   lifecycle
}

// NewAverageHash prepares an average hash of g at size×size cells
// (0 selects DefaultAverageSize).
func NewAverageHash(g *grid.RGBGrid, size int) *AverageHash {
	if size == 0 {
		size = DefaultAverageSize
	}
	return &AverageHash{src: g, size: size}
}

func (h *AverageHash) Algorithm() Algorithm { return AlgorithmAverage }
func (h *AverageHash) State() State         { return h.lc.state }

// Size returns the reduction size.
func (h *AverageHash) Size() int { return h.size }

// Compute returns the red, green, blue, grayscale and luminosity hashes,
// each size² bits. A cell sets its bit only when strictly above the mean
// of all cells. Both sides are compared as exact rationals, so cells that
// tie with the mean always hash to zero.
func (h *AverageHash) Compute() (Digest, error) {
	reduced, err := h.lc.reduce(h.src, h.size)
	if err != nil {
		return Digest{}, err
	}

	cells := reduced.Cells()
	count := new(big.Rat).SetInt64(int64(len(cells)))

	d := Digest{Algorithm: AlgorithmAverage, Size: h.size}
	values := make([]*big.Rat, len(cells))
	for _, ac := range averageChannels {
		threshold := new(big.Rat)
		for i, c := range cells {
			values[i] = cellValue(c, ac.weights, ac.div)
			threshold.Add(threshold, values[i])
		}
		threshold.Quo(threshold, count)

		v := make([]bool, len(cells))
		for i, x := range values {
			v[i] = x.Cmp(threshold) > 0
		}
		d.Hashes = append(d.Hashes, ChannelHash{Channel: ac.channel, Bits: Bits{v: v}})
	}

	if err := h.lc.advance(Reduced, Hashed); err != nil {
		return Digest{}, err
	}
	return d, nil
}
