package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/purehash/internal/manifest"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func entry(path, dct string) manifest.Image {
	return manifest.Image{
		Path:        path,
		Original:    manifest.OriginalInfo{Width: 64, Height: 48, Format: "png", Size: 1234},
		ContentHash: "0123456789abcdef",
		Average: map[string]string{
			"red": "0f0f0f0f0f0f0f0f", "green": "00000000ffffffff", "blue": "0000000000000000",
			"grayscale": "010307070f1f3f7f", "luminosity": "000000033fffffff",
		},
		DCT: dct,
	}
}

func TestUpsertAndLookup(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	r := FromImage(entry("a.png", "2a7fff7fff7fff7f"), &manifest.BuildInfo{AverageSize: 8, DCTSize: 32})
	if err := s.Upsert(ctx, r); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.Lookup(ctx, "a.png")
	if err != nil || !ok {
		t.Fatalf("lookup: ok=%v err=%v", ok, err)
	}
	if got.DCT != r.DCT || got.AverageSize != 8 || got.DCTSize != 32 {
		t.Errorf("record: %+v", got)
	}
	if got.Average["luminosity"] != "000000033fffffff" {
		t.Errorf("luminosity: %q", got.Average["luminosity"])
	}
	if got.IndexedAt == "" {
		t.Error("indexed_at not set")
	}

	if _, ok, err := s.Lookup(ctx, "missing.png"); err != nil || ok {
		t.Errorf("missing: ok=%v err=%v", ok, err)
	}
}

func TestUpsert_Replaces(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	if err := s.Upsert(ctx, FromImage(entry("a.png", "2a7fff7fff7fff7f"), nil)); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(ctx, FromImage(entry("a.png", "001f3f7e797f777e"), nil)); err != nil {
		t.Fatal(err)
	}
	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.TotalImages != 1 {
		t.Errorf("total: %d", st.TotalImages)
	}
	got, _, _ := s.Lookup(ctx, "a.png")
	if got.DCT != "001f3f7e797f777e" {
		t.Errorf("dct after replace: %s", got.DCT)
	}
}

func TestUpsertManifest_FindByDCT(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	m := manifest.New("default")
	m.BuildInfo = &manifest.BuildInfo{AverageSize: 8, DCTSize: 32}
	m.Images["b"] = entry("b.png", "2a7fff7fff7fff7f")
	m.Images["a"] = entry("a.png", "2a7fff7fff7fff7f")
	m.Images["c"] = entry("c.png", "001f3f7e797f777e")

	n, err := s.UpsertManifest(ctx, m)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("written: %d", n)
	}

	recs, err := s.FindByDCT(ctx, "2a7fff7fff7fff7f")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 || recs[0].Path != "a.png" || recs[1].Path != "b.png" {
		t.Errorf("matches: %+v", recs)
	}

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.TotalImages != 3 || st.UniqueDCT != 2 {
		t.Errorf("stats: %+v", st)
	}
}
