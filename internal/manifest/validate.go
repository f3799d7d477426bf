package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/purehash/internal/hasher"
)

// averageChannels are the channel keys every image must carry.
var averageChannels = []string{"red", "green", "blue", "grayscale", "luminosity"}

// hexLen is the hex length of n packed bits.
func hexLen(n int) int { return 2 * ((n + 7) / 8) }

// Validate checks m for internal consistency. When checkFiles is set, each
// image is also looked up under baseDir and its content hash recomputed.
// It returns one message per problem found.
func Validate(m *Manifest, baseDir string, checkFiles bool) []string {
	var errs []string

	if m.Version != SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}
	if m.BuildInfo == nil {
		errs = append(errs, "missing build_info")
		return errs
	}
	avgLen := hexLen(m.BuildInfo.AverageSize * m.BuildInfo.AverageSize)
	dctLen := hexLen(64)

	seenPaths := map[string]bool{}
	for _, key := range m.Keys() {
		img := m.Images[key]

		if img.Original.Width <= 0 || img.Original.Height <= 0 {
			errs = append(errs, fmt.Sprintf("image %q: invalid original dimensions %dx%d",
				key, img.Original.Width, img.Original.Height))
		}
		if img.GridWidth < m.BuildInfo.DCTSize || img.GridHeight < m.BuildInfo.DCTSize {
			errs = append(errs, fmt.Sprintf("image %q: grid %dx%d smaller than dct size %d",
				key, img.GridWidth, img.GridHeight, m.BuildInfo.DCTSize))
		}
		if img.ContentHash == "" {
			errs = append(errs, fmt.Sprintf("image %q: missing content hash", key))
		}

		for _, ch := range averageChannels {
			h, ok := img.Average[ch]
			if !ok {
				errs = append(errs, fmt.Sprintf("image %q: missing average %s hash", key, ch))
				continue
			}
			if len(h) != avgLen {
				errs = append(errs, fmt.Sprintf("image %q: average %s hash has %d hex chars, want %d",
					key, ch, len(h), avgLen))
			}
		}
		if len(img.DCT) != dctLen {
			errs = append(errs, fmt.Sprintf("image %q: dct hash has %d hex chars, want %d",
				key, len(img.DCT), dctLen))
		}

		if img.Path == "" {
			errs = append(errs, fmt.Sprintf("image %q: missing path", key))
			continue
		}
		if seenPaths[img.Path] {
			errs = append(errs, fmt.Sprintf("image %q: duplicate path %q", key, img.Path))
		}
		seenPaths[img.Path] = true

		if !checkFiles {
			continue
		}
		fullPath := filepath.Join(baseDir, filepath.FromSlash(img.Path))
		info, err := os.Stat(fullPath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("image %q: file not found: %s", key, img.Path))
			continue
		}
		if img.Original.Size > 0 && info.Size() != img.Original.Size {
			errs = append(errs, fmt.Sprintf("image %q: size mismatch: manifest=%d, disk=%d",
				key, img.Original.Size, info.Size()))
			continue
		}
		if img.ContentHash == "" {
			continue
		}
		sum, err := hasher.FileHash(fullPath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("image %q: %v", key, err))
		} else if sum != img.ContentHash {
			errs = append(errs, fmt.Sprintf("image %q: content changed: manifest=%s, disk=%s",
				key, img.ContentHash, sum))
		}
	}

	if m.Stats.TotalImages != len(m.Images) {
		errs = append(errs, fmt.Sprintf("stats.total_images mismatch: %d != %d",
			m.Stats.TotalImages, len(m.Images)))
	}

	return errs
}
