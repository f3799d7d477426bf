// Package grid holds the pixel containers every hash reads from and the
// reducer that averages them down to a fixed square resolution.
//
//   - RGBGrid: immutable H×W grid of 8-bit RGB triples (the hash input)
//   - ScalarGrid: H×W grid of float64 (grayscale intensities, DCT output)
//   - Reduced: N×N block sums produced by Reduce
//
// RGB and scalar data live in distinct types so a grid of triples can never
// silently hold bare intensities.
package grid

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
)

var (
	// ErrEmptyGrid is returned when a grid dimension is not positive.
	ErrEmptyGrid = errors.New("grid: dimensions must be positive")
	// ErrMalformedPixel is returned for a missing triple or a channel
	// outside [0, 255].
	ErrMalformedPixel = errors.New("grid: malformed pixel data")
	// ErrOutOfBounds is returned for reads outside the grid.
	ErrOutOfBounds = errors.New("grid: position out of bounds")
	// ErrSizeConstraint is returned when the reduction size exceeds a
	// source dimension.
	ErrSizeConstraint = errors.New("grid: reduction size exceeds source dimensions")
)

// RGB is one 8-bit colour sample.
type RGB struct {
	R, G, B uint8
}

// RGBGrid is a row-major grid of RGB samples. It is never mutated after
// construction, so one grid may be read by many hashers concurrently.
type RGBGrid struct {
	height, width int
	cells         []RGB
}

// Source is the read accessor of an externally owned pixel grid.
// Channels are expected in [0, 255].
type Source interface {
	Height() int
	Width() int
	At(row, col int) (r, g, b int)
}

// FromSamples builds a grid from row-major r,g,b triples.
func FromSamples(height, width int, samples []int) (*RGBGrid, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyGrid, height, width)
	}
	if len(samples) != height*width*3 {
		return nil, fmt.Errorf("%w: got %d samples, want %d (%dx%dx3)",
			ErrMalformedPixel, len(samples), height*width*3, height, width)
	}

	g := newRGBGrid(height, width)
	for i := range g.cells {
		r, gr, b := samples[i*3], samples[i*3+1], samples[i*3+2]
		px, err := toRGB(r, gr, b)
		if err != nil {
			return nil, fmt.Errorf("sample %d (row %d, col %d): %w", i, i/width, i%width, err)
		}
		g.cells[i] = px
	}
	return g, nil
}

// FromSource copies an external grid, calling its accessor exactly once per
// cell in row-major order.
func FromSource(src Source) (*RGBGrid, error) {
	height, width := src.Height(), src.Width()
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyGrid, height, width)
	}

	g := newRGBGrid(height, width)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			px, err := toRGB(src.At(row, col))
			if err != nil {
				return nil, fmt.Errorf("row %d, col %d: %w", row, col, err)
			}
			g.cells[row*width+col] = px
		}
	}
	return g, nil
}

// FromImage converts a decoded image. Alpha is dropped without compositing.
func FromImage(img image.Image) (*RGBGrid, error) {
	b := img.Bounds()
	height, width := b.Dy(), b.Dx()
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyGrid, height, width)
	}

	g := newRGBGrid(height, width)
	switch src := img.(type) {
	case *image.NRGBA:
		for row := 0; row < height; row++ {
			off := (b.Min.Y-src.Rect.Min.Y+row)*src.Stride + (b.Min.X-src.Rect.Min.X)*4
			for col := 0; col < width; col++ {
				g.cells[row*width+col] = RGB{src.Pix[off], src.Pix[off+1], src.Pix[off+2]}
				off += 4
			}
		}
	case *image.Gray:
		for row := 0; row < height; row++ {
			off := (b.Min.Y-src.Rect.Min.Y+row)*src.Stride + (b.Min.X - src.Rect.Min.X)
			for col := 0; col < width; col++ {
				v := src.Pix[off+col]
				g.cells[row*width+col] = RGB{v, v, v}
			}
		}
	default:
		for row := 0; row < height; row++ {
			for col := 0; col < width; col++ {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+col, b.Min.Y+row)).(color.NRGBA)
				g.cells[row*width+col] = RGB{c.R, c.G, c.B}
			}
		}
	}
	return g, nil
}

func newRGBGrid(height, width int) *RGBGrid {
	return &RGBGrid{height: height, width: width, cells: make([]RGB, height*width)}
}

func toRGB(r, g, b int) (RGB, error) {
	if r < 0 || r > 255 || g < 0 || g > 255 || b < 0 || b > 255 {
		return RGB{}, fmt.Errorf("%w: (%d, %d, %d) outside [0, 255]", ErrMalformedPixel, r, g, b)
	}
	return RGB{uint8(r), uint8(g), uint8(b)}, nil
}

func (g *RGBGrid) Height() int { return g.height }
func (g *RGBGrid) Width() int  { return g.width }

// At returns the sample at (row, col).
func (g *RGBGrid) At(row, col int) (RGB, error) {
	if row < 0 || row >= g.height || col < 0 || col >= g.width {
		return RGB{}, fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, row, col, g.height, g.width)
	}
	return g.cells[row*g.width+col], nil
}

// row returns the samples of one row without bounds checks.
func (g *RGBGrid) row(r int) []RGB {
	return g.cells[r*g.width : (r+1)*g.width]
}

// String dumps every cell, one row per line. Meant for small grids.
func (g *RGBGrid) String() string {
	var sb strings.Builder
	for r := 0; r < g.height; r++ {
		for c, px := range g.row(r) {
			if c > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "(%d,%d,%d)", px.R, px.G, px.B)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ─── scalar grid ─────────────────────────────────────────────

// ScalarGrid is a row-major grid of real values.
type ScalarGrid struct {
	height, width int
	values        []float64
}

// NewScalarGrid returns a zeroed height×width grid.
func NewScalarGrid(height, width int) *ScalarGrid {
	return &ScalarGrid{height: height, width: width, values: make([]float64, height*width)}
}

func (s *ScalarGrid) Height() int { return s.height }
func (s *ScalarGrid) Width() int  { return s.width }

// At returns the value at (row, col). Callers index within bounds; an
// out-of-range position panics like a slice index would.
func (s *ScalarGrid) At(row, col int) float64 {
	s.check(row, col)
	return s.values[row*s.width+col]
}

// Set stores v at (row, col).
func (s *ScalarGrid) Set(row, col int, v float64) {
	s.check(row, col)
	s.values[row*s.width+col] = v
}

// Crop copies the top-left rows×cols block.
func (s *ScalarGrid) Crop(rows, cols int) *ScalarGrid {
	if rows > s.height || cols > s.width {
		panic(fmt.Sprintf("grid: crop %dx%d of %dx%d", rows, cols, s.height, s.width))
	}
	out := NewScalarGrid(rows, cols)
	for r := 0; r < rows; r++ {
		copy(out.values[r*cols:(r+1)*cols], s.values[r*s.width:r*s.width+cols])
	}
	return out
}

func (s *ScalarGrid) check(row, col int) {
	if row < 0 || row >= s.height || col < 0 || col >= s.width {
		panic(fmt.Sprintf("%v: (%d, %d) in %dx%d", ErrOutOfBounds, row, col, s.height, s.width))
	}
}

// String dumps every value, one row per line.
func (s *ScalarGrid) String() string {
	var sb strings.Builder
	for r := 0; r < s.height; r++ {
		for c := 0; c < s.width; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.3f", s.values[r*s.width+c])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
