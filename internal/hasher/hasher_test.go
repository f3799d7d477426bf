package hasher

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
)

func TestContentHash_Length(t *testing.T) {
	data := []byte("purehash")
	if got := ContentHash(data, 0); len(got) != KeyLen {
		t.Errorf("full key length: %d", len(got))
	}
	if got := ContentHash(data, 8); len(got) != 8 {
		t.Errorf("truncated key length: %d", len(got))
	}
	if got := ContentHash(data, 99); len(got) != KeyLen {
		t.Errorf("oversized hexLen: %d", len(got))
	}
}

func TestContentHash_MatchesSum64(t *testing.T) {
	// xxHash64 of the empty input is a published constant.
	if got := ContentHash(nil, 0); got != "ef46db3751d8e999" {
		t.Errorf("empty input: got %s", got)
	}
	data := []byte("the quick brown fox")
	want := fmt.Sprintf("%016x", xxhash.Sum64(data))
	if got := ContentHash(data, 0); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestContentHashReader_MatchesBytes(t *testing.T) {
	data := bytes.Repeat([]byte{0x5a, 0x01, 0xff}, 10000)
	got, err := ContentHashReader(bytes.NewReader(data), 0)
	if err != nil {
		t.Fatal(err)
	}
	if want := ContentHash(data, 0); got != want {
		t.Errorf("reader: got %s, want %s", got, want)
	}
}

func TestFileHash(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.bin")
	data := []byte("image bytes")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := FileHash(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := ContentHash(data, KeyLen); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if _, err := FileHash(filepath.Join(dir, "missing.bin")); err == nil {
		t.Error("expected error for missing file")
	}
}
