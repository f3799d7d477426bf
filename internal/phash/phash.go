// Package phash computes perceptual hashes over a grid.RGBGrid.
//
// Two engines share one reducer and one lifecycle:
//   - AverageHash: five mean-thresholded bit vectors (red, green, blue,
//     grayscale, luminosity), one bit per reduced cell
//   - DCTHash: 64 bits from the low-frequency block of a direct 2-D DCT-II
//
// Output is deterministic: bit-identical input gives bit-identical hashes,
// and every sequence is emitted in row-major order. An engine computes once;
// hash another image (or the same one again) with a fresh engine.
package phash

import (
	"errors"
	"fmt"

	"github.com/AnyUserName/purehash/internal/grid"
)

var (
	// ErrAlreadyComputed is returned by Compute on an engine that has
	// already run.
	ErrAlreadyComputed = errors.New("phash: hash already computed for this engine")
	// ErrReductionTooSmall is returned when a DCT reduction size cannot
	// hold the 8×8 frequency block.
	ErrReductionTooSmall = errors.New("phash: reduction size smaller than frequency block")
	// ErrUnknownAlgorithm is returned by New for an unrecognised name.
	ErrUnknownAlgorithm = errors.New("phash: unknown algorithm")
)

// Algorithm names a hash engine.
type Algorithm string

const (
	AlgorithmAverage Algorithm = "average"
	AlgorithmDCT     Algorithm = "dct"
)

// Algorithms lists every engine in output order.
var Algorithms = []Algorithm{AlgorithmAverage, AlgorithmDCT}

// Channel names one bit sequence of a Digest.
type Channel string

const (
	ChannelRed        Channel = "red"
	ChannelGreen      Channel = "green"
	ChannelBlue       Channel = "blue"
	ChannelGrayscale  Channel = "grayscale"
	ChannelLuminosity Channel = "luminosity"
	ChannelDCT        Channel = "dct"
)

// ChannelHash is one named bit sequence.
type ChannelHash struct {
	Channel Channel
	Bits    Bits
}

// Digest is the immutable result of one computation.
type Digest struct {
	Algorithm Algorithm
	Size      int // reduction size the hash was computed at
	Hashes    []ChannelHash
}

// Get returns the bits of channel c.
func (d Digest) Get(c Channel) (Bits, bool) {
	for _, h := range d.Hashes {
		if h.Channel == c {
			return h.Bits, true
		}
	}
	return Bits{}, false
}

// Hasher is the capability shared by both engines.
type Hasher interface {
	Algorithm() Algorithm
	State() State
	Compute() (Digest, error)
}

// New builds the engine for alg. A size of 0 selects the engine default.
func New(alg Algorithm, g *grid.RGBGrid, size int) (Hasher, error) {
	switch alg {
	case AlgorithmAverage:
		return NewAverageHash(g, size), nil
	case AlgorithmDCT:
		return NewDCTHash(g, size), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
}

// ─── lifecycle ───────────────────────────────────────────────

// State is the lifecycle position of an engine.
type State int

const (
	Created State = iota
	Reduced
	Hashed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Reduced:
		return "reduced"
	case Hashed:
		return "hashed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// lifecycle enforces Created → Reduced → Hashed. Engines are not safe for
// concurrent use; distinct engines share nothing mutable.
type lifecycle struct {
	state State
}

func (l *lifecycle) advance(from, to State) error {
	if l.state != from {
		if from == Created {
			return fmt.Errorf("%w (state %s)", ErrAlreadyComputed, l.state)
		}
		return fmt.Errorf("phash: invalid transition %s → %s from state %s", from, to, l.state)
	}
	l.state = to
	return nil
}

// reduce performs the Created → Reduced step shared by both engines. A
// failed reduction leaves the engine in Created.
func (l *lifecycle) reduce(src *grid.RGBGrid, n int) (*grid.Reduced, error) {
	if l.state != Created {
		return nil, fmt.Errorf("%w (state %s)", ErrAlreadyComputed, l.state)
	}
	r, err := grid.Reduce(src, n)
	if err != nil {
		return nil, fmt.Errorf("reduce to %dx%d: %w", n, n, err)
	}
	return r, l.advance(Created, Reduced)
}
