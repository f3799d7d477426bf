package grid

import "fmt"

// Span is a half-open run [Start, Start+Size) of source rows or columns
// mapped onto one reduced position.
type Span struct {
	Start, Size int
}

// End returns the first index past the span.
func (s Span) End() int { return s.Start + s.Size }

// Region names the part of the reduced grid a cell belongs to.
type Region int

const (
	// Interior cells use regular blocks on both axes.
	Interior Region = iota
	// BottomStrip cells use the trailing row block.
	BottomStrip
	// RightStrip cells use the trailing column block.
	RightStrip
	// Corner is the single cell where both trailing blocks meet.
	Corner
)

func (r Region) String() string {
	switch r {
	case Interior:
		return "interior"
	case BottomStrip:
		return "bottom-strip"
	case RightStrip:
		return "right-strip"
	case Corner:
		return "corner"
	}
	return fmt.Sprintf("Region(%d)", int(r))
}

// Layout maps every reduced cell to its source block.
type Layout struct {
	N             int
	Rows, Cols    []Span
	IrregularRows bool // last row span absorbs the vertical remainder
	IrregularCols bool // last column span absorbs the horizontal remainder
}

// NewLayout plans an n×n reduction of a height×width source.
//
// An axis whose extent divides by n uses n equal blocks. Otherwise the first
// n-1 blocks are floor(extent/(n-1)) long and the last one takes the
// remaining extent mod (n-1). When that remainder is zero the regular block
// is shortened by one so the trailing block is never empty.
//
// The trailing block can therefore be much larger than the others: 21 rows
// at n=8 become seven 2-row blocks followed by one 7-row block. Cell means
// stay exact because every cell carries its own pixel count.
func NewLayout(height, width, n int) (Layout, error) {
	if n < 1 {
		return Layout{}, fmt.Errorf("%w: n=%d", ErrSizeConstraint, n)
	}
	if height < n || width < n {
		return Layout{}, fmt.Errorf("%w: n=%d, source %dx%d", ErrSizeConstraint, n, height, width)
	}
	rows, irrRows := axisSpans(height, n)
	cols, irrCols := axisSpans(width, n)
	return Layout{N: n, Rows: rows, Cols: cols, IrregularRows: irrRows, IrregularCols: irrCols}, nil
}

func axisSpans(extent, n int) ([]Span, bool) {
	spans := make([]Span, n)
	if extent%n == 0 {
		block := extent / n
		for i := range spans {
			spans[i] = Span{Start: i * block, Size: block}
		}
		return spans, false
	}

	// n >= 2 here: every extent divides by 1.
	block := extent / (n - 1)
	if extent%(n-1) == 0 {
		block--
	}
	for i := 0; i < n-1; i++ {
		spans[i] = Span{Start: i * block, Size: block}
	}
	start := (n - 1) * block
	spans[n-1] = Span{Start: start, Size: extent - start}
	return spans, true
}

// Region classifies the reduced cell at (row, col).
func (l Layout) Region(row, col int) Region {
	bottom := l.IrregularRows && row == l.N-1
	right := l.IrregularCols && col == l.N-1
	switch {
	case bottom && right:
		return Corner
	case bottom:
		return BottomStrip
	case right:
		return RightStrip
	}
	return Interior
}

// Area returns the number of source pixels covered by all blocks.
func (l Layout) Area() int {
	var rows, cols int
	for _, s := range l.Rows {
		rows += s.Size
	}
	for _, s := range l.Cols {
		cols += s.Size
	}
	return rows * cols
}

// ─── reduced grid ────────────────────────────────────────────

// Cell accumulates one block: per-channel sums over Count source pixels.
type Cell struct {
	Sum   [3]uint64
	Count int
}

// Mean is a per-channel block average.
type Mean struct {
	R, G, B float64
}

// Mean divides each channel sum by the exact pixel count of the block.
func (c Cell) Mean() Mean {
	n := float64(c.Count)
	return Mean{
		R: float64(c.Sum[0]) / n,
		G: float64(c.Sum[1]) / n,
		B: float64(c.Sum[2]) / n,
	}
}

// Gray is the unweighted channel mean truncated to an integer. It is taken
// from the integer sums so no rounding can move it across a boundary.
func (c Cell) Gray() int {
	return int((c.Sum[0] + c.Sum[1] + c.Sum[2]) / (3 * uint64(c.Count)))
}

// Reduced is the n×n result of Reduce.
type Reduced struct {
	layout Layout
	cells  []Cell
}

// Reduce averages src down to n×n blocks following NewLayout.
func Reduce(src *RGBGrid, n int) (*Reduced, error) {
	layout, err := NewLayout(src.height, src.width, n)
	if err != nil {
		return nil, err
	}

	out := &Reduced{layout: layout, cells: make([]Cell, n*n)}
	for i, rs := range layout.Rows {
		for j, cs := range layout.Cols {
			out.cells[i*n+j] = sumBlock(src, rs, cs)
		}
	}
	return out, nil
}

func sumBlock(src *RGBGrid, rows, cols Span) Cell {
	var c Cell
	for r := rows.Start; r < rows.End(); r++ {
		for _, px := range src.row(r)[cols.Start:cols.End()] {
			c.Sum[0] += uint64(px.R)
			c.Sum[1] += uint64(px.G)
			c.Sum[2] += uint64(px.B)
		}
	}
	c.Count = rows.Size * cols.Size
	return c
}

// Size returns n.
func (r *Reduced) Size() int { return r.layout.N }

// Layout returns the block plan the grid was reduced with.
func (r *Reduced) Layout() Layout { return r.layout }

// Cell returns the block at (row, col).
func (r *Reduced) Cell(row, col int) Cell {
	n := r.layout.N
	if row < 0 || row >= n || col < 0 || col >= n {
		panic(fmt.Sprintf("%v: (%d, %d) in %dx%d", ErrOutOfBounds, row, col, n, n))
	}
	return r.cells[row*n+col]
}

// Cells returns the blocks in row-major order. The slice is a copy.
func (r *Reduced) Cells() []Cell {
	out := make([]Cell, len(r.cells))
	copy(out, r.cells)
	return out
}

// Gray converts every block to its truncated grayscale intensity.
func (r *Reduced) Gray() *ScalarGrid {
	n := r.layout.N
	g := NewScalarGrid(n, n)
	for i, c := range r.cells {
		g.values[i] = float64(c.Gray())
	}
	return g
}
