package grid

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// sliceSource is a Source backed by a plain slice that counts reads.
type sliceSource struct {
	h, w  int
	px    [][3]int
	reads int
}

func (s *sliceSource) Height() int { return s.h }
func (s *sliceSource) Width() int  { return s.w }
func (s *sliceSource) At(row, col int) (int, int, int) {
	s.reads++
	p := s.px[row*s.w+col]
	return p[0], p[1], p[2]
}

func TestFromSamples(t *testing.T) {
	g, err := FromSamples(2, 3, []int{
		1, 2, 3, 4, 5, 6, 7, 8, 9,
		10, 11, 12, 13, 14, 15, 255, 0, 128,
	})
	if err != nil {
		t.Fatalf("FromSamples: %v", err)
	}
	if g.Height() != 2 || g.Width() != 3 {
		t.Fatalf("dims: got %dx%d", g.Height(), g.Width())
	}
	px, err := g.At(1, 2)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if px != (RGB{255, 0, 128}) {
		t.Errorf("At(1,2): got %v", px)
	}
	px, _ = g.At(0, 1)
	if px != (RGB{4, 5, 6}) {
		t.Errorf("At(0,1): got %v", px)
	}
}

func TestFromSamples_Malformed(t *testing.T) {
	cases := []struct {
		name    string
		h, w    int
		samples []int
		want    error
	}{
		{"short", 1, 2, []int{1, 2, 3, 4, 5}, ErrMalformedPixel},
		{"long", 1, 1, []int{1, 2, 3, 4}, ErrMalformedPixel},
		{"negative", 1, 1, []int{-1, 0, 0}, ErrMalformedPixel},
		{"overflow", 1, 1, []int{0, 256, 0}, ErrMalformedPixel},
		{"zero height", 0, 1, nil, ErrEmptyGrid},
		{"negative width", 1, -2, nil, ErrEmptyGrid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromSamples(tc.h, tc.w, tc.samples)
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestAt_OutOfBounds(t *testing.T) {
	g, err := FromSamples(1, 1, []int{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {1, 0}, {0, 1}} {
		if _, err := g.At(pos[0], pos[1]); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("At(%d,%d): got %v, want ErrOutOfBounds", pos[0], pos[1], err)
		}
	}
}

func TestFromSource_ReadsEachCellOnce(t *testing.T) {
	src := &sliceSource{h: 3, w: 4}
	for i := 0; i < 12; i++ {
		src.px = append(src.px, [3]int{i, i * 2, i * 3})
	}
	g, err := FromSource(src)
	if err != nil {
		t.Fatalf("FromSource: %v", err)
	}
	if src.reads != 12 {
		t.Errorf("reads: got %d, want 12", src.reads)
	}
	px, _ := g.At(2, 3)
	if px != (RGB{11, 22, 33}) {
		t.Errorf("At(2,3): got %v", px)
	}
}

func TestFromSource_Malformed(t *testing.T) {
	src := &sliceSource{h: 1, w: 2, px: [][3]int{{0, 0, 0}, {0, 300, 0}}}
	if _, err := FromSource(src); !errors.Is(err, ErrMalformedPixel) {
		t.Errorf("got %v, want ErrMalformedPixel", err)
	}
	if _, err := FromSource(&sliceSource{}); !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("empty source: got %v, want ErrEmptyGrid", err)
	}
}

func TestFromImage_TypesAgree(t *testing.T) {
	w, h := 7, 5
	nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: uint8(x * 30), G: uint8(y * 40), B: uint8((x + y) * 10), A: 255}
			nrgba.SetNRGBA(x, y, c)
			rgba.Set(x, y, c)
		}
	}

	g1, err := FromImage(nrgba)
	if err != nil {
		t.Fatal(err)
	}
	g2, err := FromImage(rgba)
	if err != nil {
		t.Fatal(err)
	}
	if g1.Height() != h || g1.Width() != w {
		t.Fatalf("dims: got %dx%d", g1.Height(), g1.Width())
	}
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			a, _ := g1.At(r, c)
			b, _ := g2.At(r, c)
			if a != b {
				t.Fatalf("(%d,%d): NRGBA %v vs RGBA %v", r, c, a, b)
			}
		}
	}
	px, _ := g1.At(4, 6)
	if px != (RGB{180, 160, 100}) {
		t.Errorf("At(4,6): got %v", px)
	}
}

func TestFromImage_SubImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(y*10 + x)})
		}
	}
	sub := img.SubImage(image.Rect(3, 2, 6, 4))
	g, err := FromImage(sub)
	if err != nil {
		t.Fatal(err)
	}
	if g.Height() != 2 || g.Width() != 3 {
		t.Fatalf("dims: got %dx%d", g.Height(), g.Width())
	}
	px, _ := g.At(1, 2)
	if px != (RGB{35, 35, 35}) {
		t.Errorf("At(1,2): got %v", px)
	}
}

func TestFromImage_Empty(t *testing.T) {
	if _, err := FromImage(image.NewNRGBA(image.Rect(0, 0, 0, 4))); !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("got %v, want ErrEmptyGrid", err)
	}
}

func TestScalarGrid_Crop(t *testing.T) {
	s := NewScalarGrid(4, 5)
	for r := 0; r < 4; r++ {
		for c := 0; c < 5; c++ {
			s.Set(r, c, float64(r*10+c))
		}
	}
	cr := s.Crop(2, 3)
	if cr.Height() != 2 || cr.Width() != 3 {
		t.Fatalf("dims: got %dx%d", cr.Height(), cr.Width())
	}
	if cr.At(1, 2) != 12 {
		t.Errorf("At(1,2): got %v", cr.At(1, 2))
	}
}

func TestString(t *testing.T) {
	g, _ := FromSamples(1, 2, []int{1, 2, 3, 4, 5, 6})
	if got := g.String(); got != "(1,2,3) (4,5,6)\n" {
		t.Errorf("got %q", got)
	}
	s := NewScalarGrid(1, 2)
	s.Set(0, 1, 0.5)
	if got := s.String(); got != "0.000 0.500\n" {
		t.Errorf("got %q", got)
	}
}
