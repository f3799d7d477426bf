package pipeline

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/AnyUserName/purehash/internal/grid"
	"github.com/AnyUserName/purehash/internal/hasher"
	"github.com/AnyUserName/purehash/internal/manifest"
	"github.com/AnyUserName/purehash/internal/phash"
	"github.com/AnyUserName/purehash/internal/profile"
)

// Loaded is a decoded image ready for hashing.
type Loaded struct {
	Grid        *grid.RGBGrid
	Original    manifest.OriginalInfo
	ContentHash string
}

// LoadGrid decodes the image at path, applies its EXIF orientation and,
// when maxDim > 0, fits it inside maxDim×maxDim before building the grid.
func LoadGrid(path string, maxDim int) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, fmt.Errorf("read %s: %w", path, err)
	}
	return decode(data, path, maxDim)
}

func decode(data []byte, name string, maxDim int) (Loaded, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Loaded{}, fmt.Errorf("decode %s: %w", name, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Loaded{}, fmt.Errorf("decode %s: %w", name, err)
	}

	b := img.Bounds()
	out := Loaded{
		Original: manifest.OriginalInfo{
			Width:  b.Dx(),
			Height: b.Dy(),
			Format: format,
			Size:   int64(len(data)),
		},
		ContentHash: hasher.ContentHash(data, hasher.KeyLen),
	}

	if maxDim > 0 && (b.Dx() > maxDim || b.Dy() > maxDim) {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	out.Grid, err = grid.FromImage(img)
	if err != nil {
		return Loaded{}, fmt.Errorf("grid %s: %w", name, err)
	}
	return out, nil
}

// Result is the outcome of hashing one source. The pixel grid itself is
// not retained.
type Result struct {
	Source      Source
	Original    manifest.OriginalInfo
	ContentHash string
	GridWidth   int
	GridHeight  int
	Digests     []phash.Digest
	Err         error
}

// Digest returns the digest for alg, if computed.
func (r Result) Digest(alg phash.Algorithm) (phash.Digest, bool) {
	for _, d := range r.Digests {
		if d.Algorithm == alg {
			return d, true
		}
	}
	return phash.Digest{}, false
}

// Image converts a successful result into a manifest entry. Hashes are
// stored as hex.
func (r Result) Image() manifest.Image {
	img := manifest.Image{
		Path:        r.Source.RelPath,
		Original:    r.Original,
		ContentHash: r.ContentHash,
		GridWidth:   r.GridWidth,
		GridHeight:  r.GridHeight,
		Average:     map[string]string{},
	}
	if d, ok := r.Digest(phash.AlgorithmAverage); ok {
		for _, h := range d.Hashes {
			img.Average[string(h.Channel)] = h.Bits.Hex()
		}
	}
	if d, ok := r.Digest(phash.AlgorithmDCT); ok {
		if b, ok := d.Get(phash.ChannelDCT); ok {
			img.DCT = b.Hex()
		}
	}
	return img
}

// HashGrid runs each algorithm over g with the profile's sizes. Each
// algorithm gets a fresh engine.
func HashGrid(g *grid.RGBGrid, prof profile.Profile, algs []phash.Algorithm) ([]phash.Digest, error) {
	digests := make([]phash.Digest, 0, len(algs))
	for _, alg := range algs {
		h, err := phash.New(alg, g, prof.Size(alg))
		if err != nil {
			return nil, err
		}
		d, err := h.Compute()
		if err != nil {
			return nil, fmt.Errorf("%s hash: %w", alg, err)
		}
		digests = append(digests, d)
	}
	return digests, nil
}

// processImage handles a single source image: read, decode, hash.
func processImage(src Source, cfg Config) Result {
	result := Result{Source: src}

	loaded, err := LoadGrid(src.AbsPath, cfg.Profile.MaxDim)
	if err != nil {
		result.Err = err
		return result
	}
	result.Original = loaded.Original
	result.ContentHash = loaded.ContentHash
	result.GridWidth = loaded.Grid.Width()
	result.GridHeight = loaded.Grid.Height()

	result.Digests, err = HashGrid(loaded.Grid, cfg.Profile, cfg.Algorithms)
	if err != nil {
		result.Err = fmt.Errorf("%s: %w", src.RelPath, err)
	}
	return result
}
