package phash

import (
	"testing"

	"github.com/AnyUserName/purehash/internal/grid"
)

// goldenFixture is a deterministic grid and its expected hashes (hex).
// Expected average hashes are in red, green, blue, grayscale, luminosity
// order. Values were cross-checked with an independent implementation of
// the same reduction and DCT; no coefficient lies near its threshold.
type goldenFixture struct {
	name    string
	h, w    int
	pixels  pixelFunc
	average [5]string
	dct     string
}

func goldenFixtures() []goldenFixture {
	return []goldenFixture{
		{
			name: "gradient_48x64", h: 48, w: 64, pixels: gradient(48, 64),
			average: [5]string{
				"0f0f0f0f0f0f0f0f", "00000000ffffffff", "0000000000000000",
				"010307070f1f3f7f", "000000033fffffff",
			},
			dct: "2a7fff7fff7fff7f",
		},
		{
			name: "noise_37x53", h: 37, w: 53, pixels: noise(1),
			average: [5]string{
				"63049cdb71d2a740", "ddc0f08a663786dd", "2e32aeaf8f90b86c",
				"6f10bc8a6797b6c8", "cf40f08a663786cd",
			},
			dct: "0032274f7b794367",
		},
		{
			name: "rings_50x70", h: 50, w: 70, pixels: rings,
			average: [5]string{
				"c7c381818183c3e7", "383c7e7e7e7c3c18", "007f7d7f7f7f7f76",
				"007f7d7f7f7f7f76", "183c7e7e7e7c3c18",
			},
			dct: "001f3f7e797f777e",
		},
		{
			name: "bands_33x100", h: 33, w: 100, pixels: bands,
			average: [5]string{
				"0f0f0f0f0f0f0f0f", "00000000ffffffff", "0f1f3c3c78f0e1c3",
				"07070c1d3b376fff", "0000000f3fffffff",
			},
			dct: "021f276ffb777d7f",
		},
	}
}

func goldenGrid(t testing.TB, f goldenFixture) *grid.RGBGrid {
	return makeGrid(t, f.h, f.w, f.pixels)
}

// TestGoldenGenerate prints current values for copy-paste after an
// intentional algorithm change.
func TestGoldenGenerate(t *testing.T) {
	for _, f := range goldenFixtures() {
		g := goldenGrid(t, f)
		avg, err := NewAverageHash(g, 0).Compute()
		if err != nil {
			t.Fatal(err)
		}
		dct, err := NewDCTHash(g, 0).Compute()
		if err != nil {
			t.Fatal(err)
		}
		var hexes []string
		for _, ch := range averageOrder {
			hexes = append(hexes, mustGet(t, avg, ch).Hex())
		}
		t.Logf("GOLDEN %-16s avg=%v dct=%s", f.name, hexes, mustGet(t, dct, ChannelDCT).Hex())
	}
}

func TestGoldenValues(t *testing.T) {
	for _, f := range goldenFixtures() {
		t.Run(f.name, func(t *testing.T) {
			g := goldenGrid(t, f)

			avg, err := NewAverageHash(g, 0).Compute()
			if err != nil {
				t.Fatal(err)
			}
			for i, ch := range averageOrder {
				if got := mustGet(t, avg, ch).Hex(); got != f.average[i] {
					t.Errorf("%s: got %s, want %s", ch, got, f.average[i])
				}
			}

			dct, err := NewDCTHash(g, 0).Compute()
			if err != nil {
				t.Fatal(err)
			}
			if got := mustGet(t, dct, ChannelDCT).Hex(); got != f.dct {
				t.Errorf("dct: got %s, want %s", got, f.dct)
			}
		})
	}
}
