//go:build ignore

// gen_fixtures creates a small image tree for the E2E smoke test.
// Usage: go run gen_fixtures.go <output_dir>
//
// The tree holds near-duplicates (a rescaled copy and a brightened JPEG of
// the same scene), an unrelated image, an image too small for the default
// DCT reduction, and a hidden directory that build must skip.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "scenes"), 0o755)
	os.MkdirAll(filepath.Join(dir, ".trash"), 0o755)

	scene := quadrants(320, 240, 0)
	writePNG(filepath.Join(dir, "scenes", "quadrants.png"), scene)
	writePNG(filepath.Join(dir, "scenes", "quadrants-copy.png"), scene)
	writePNG(filepath.Join(dir, "scenes", "quadrants-small.png"), quadrants(160, 120, 0))
	writeJPEG(filepath.Join(dir, "scenes", "quadrants-bright.jpg"), quadrants(320, 240, 5))

	writePNG(filepath.Join(dir, "gradient.png"), gradient(300, 200))
	writePNG(filepath.Join(dir, "tiny.png"), gradient(16, 16))
	writePNG(filepath.Join(dir, ".trash", "ignored.png"), gradient(64, 64))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 6 fixtures in %s\n", dir)
}

// quadrants paints four flat blocks; shift brightens every channel.
func quadrants(w, h int, shift uint8) *image.NRGBA {
	fills := [4]color.NRGBA{
		{R: 200, G: 40, B: 40, A: 255},
		{R: 40, G: 180, B: 60, A: 255},
		{R: 50, G: 60, B: 190, A: 255},
		{R: 230, G: 220, B: 90, A: 255},
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := fills[2*(2*y/h)+2*x/w]
			c.R += shift
			c.G += shift
			c.B += shift
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func writePNG(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		fmt.Fprintf(os.Stderr, "encode %s: %v\n", path, err)
		os.Exit(1)
	}
}

func writeJPEG(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		fmt.Fprintf(os.Stderr, "encode %s: %v\n", path, err)
		os.Exit(1)
	}
}
