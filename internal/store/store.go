// Package store keeps an SQLite index of hashed images so repeated builds
// and lookups do not need the manifest file.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/AnyUserName/purehash/internal/manifest"
)

const schema = `
CREATE TABLE IF NOT EXISTS images (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	path TEXT NOT NULL UNIQUE,
	format TEXT,
	width INTEGER,
	height INTEGER,
	size INTEGER,
	content_hash TEXT,
	average_size INTEGER,
	average_red TEXT,
	average_green TEXT,
	average_blue TEXT,
	average_grayscale TEXT,
	average_luminosity TEXT,
	dct_size INTEGER,
	dct_hash TEXT,
	indexed_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_content_hash ON images(content_hash);
CREATE INDEX IF NOT EXISTS idx_dct_hash ON images(dct_hash);`

const upsertSQL = `
INSERT OR REPLACE INTO images (
	path, format, width, height, size, content_hash,
	average_size, average_red, average_green, average_blue,
	average_grayscale, average_luminosity, dct_size, dct_hash, indexed_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Record is one indexed image.
type Record struct {
	Path        string
	Format      string
	Width       int
	Height      int
	Size        int64
	ContentHash string
	AverageSize int
	Average     map[string]string // channel → hex
	DCTSize     int
	DCT         string
	IndexedAt   string
}

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open opens or creates the index at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Upsert inserts r or replaces the row with the same path.
func (s *Store) Upsert(ctx context.Context, r Record) error {
	if r.IndexedAt == "" {
		r.IndexedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx, upsertSQL,
		r.Path, r.Format, r.Width, r.Height, r.Size, r.ContentHash,
		r.AverageSize, r.Average["red"], r.Average["green"], r.Average["blue"],
		r.Average["grayscale"], r.Average["luminosity"], r.DCTSize, r.DCT, r.IndexedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", r.Path, err)
	}
	return nil
}

// UpsertManifest indexes every image of m in one transaction and returns
// the number of rows written.
func (s *Store) UpsertManifest(ctx context.Context, m *manifest.Manifest) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	n := 0
	for _, key := range m.Keys() {
		r := FromImage(m.Images[key], m.BuildInfo)
		if _, err := stmt.ExecContext(ctx,
			r.Path, r.Format, r.Width, r.Height, r.Size, r.ContentHash,
			r.AverageSize, r.Average["red"], r.Average["green"], r.Average["blue"],
			r.Average["grayscale"], r.Average["luminosity"], r.DCTSize, r.DCT, now,
		); err != nil {
			return n, fmt.Errorf("upsert %s: %w", r.Path, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// FromImage converts a manifest entry into a record.
func FromImage(img manifest.Image, bi *manifest.BuildInfo) Record {
	r := Record{
		Path:        img.Path,
		Format:      img.Original.Format,
		Width:       img.Original.Width,
		Height:      img.Original.Height,
		Size:        img.Original.Size,
		ContentHash: img.ContentHash,
		Average:     img.Average,
		DCT:         img.DCT,
	}
	if bi != nil {
		r.AverageSize = bi.AverageSize
		r.DCTSize = bi.DCTSize
	}
	return r
}

const selectColumns = `
	SELECT path, format, width, height, size, content_hash,
		average_size, average_red, average_green, average_blue,
		average_grayscale, average_luminosity, dct_size, dct_hash, indexed_at
	FROM images`

// Lookup returns the record for path, if indexed.
func (s *Store) Lookup(ctx context.Context, path string) (Record, bool, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE path = ?`, path)
	if err != nil {
		return Record{}, false, fmt.Errorf("lookup %s: %w", path, err)
	}
	recs, err := scanRecords(rows)
	if err != nil {
		return Record{}, false, fmt.Errorf("lookup %s: %w", path, err)
	}
	if len(recs) == 0 {
		return Record{}, false, nil
	}
	return recs[0], true, nil
}

// FindByDCT returns every record whose DCT hash equals hex exactly.
func (s *Store) FindByDCT(ctx context.Context, hex string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE dct_hash = ? ORDER BY path`, hex)
	if err != nil {
		return nil, fmt.Errorf("find dct %s: %w", hex, err)
	}
	return scanRecords(rows)
}

// Stats summarizes the index.
type Stats struct {
	TotalImages int
	UniqueDCT   int
}

// Stats counts indexed images and distinct DCT hashes.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT dct_hash) FROM images`,
	).Scan(&st.TotalImages, &st.UniqueDCT)
	if err != nil {
		return Stats{}, fmt.Errorf("index stats: %w", err)
	}
	return st, nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var r Record
		var red, green, blue, gray, lum string
		if err := rows.Scan(
			&r.Path, &r.Format, &r.Width, &r.Height, &r.Size, &r.ContentHash,
			&r.AverageSize, &red, &green, &blue, &gray, &lum,
			&r.DCTSize, &r.DCT, &r.IndexedAt,
		); err != nil {
			return nil, err
		}
		r.Average = map[string]string{
			"red": red, "green": green, "blue": blue,
			"grayscale": gray, "luminosity": lum,
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
