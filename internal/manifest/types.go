package manifest

// FileName is the manifest file written by a build.
const FileName = "purehash.manifest.json"

// Manifest is the top-level output of a purehash build.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	BasePath    string           `json:"base_path"` // source root, images are relative to it
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Images      map[string]Image `json:"images"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures build-time parameters for diagnostics.
type BuildInfo struct {
	Workers     int `json:"workers"`
	AverageSize int `json:"average_size"`
	DCTSize     int `json:"dct_size"`
	MaxDim      int `json:"max_dim,omitempty"`
}

// Image describes a single source image and its perceptual hashes.
// Hashes are lowercase hex of the MSB-first packed bits.
type Image struct {
	Path        string            `json:"path"` // relative to base_path
	Original    OriginalInfo      `json:"original"`
	ContentHash string            `json:"content_hash"` // xxhash64 of the source file
	GridWidth   int               `json:"grid_width"`   // pixels hashed, after any max_dim fit
	GridHeight  int               `json:"grid_height"`
	Average     map[string]string `json:"average"` // channel → hex
	DCT         string            `json:"dct"`
}

// OriginalInfo holds metadata about the source image.
type OriginalInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
}

// Stats aggregates build metrics.
type Stats struct {
	TotalInputBytes int64 `json:"total_input_bytes"`
	TotalImages     int   `json:"total_images"`
	UniqueDCT       int   `json:"unique_dct"`
	DuplicateGroups int   `json:"duplicate_groups"` // DCT hashes shared by 2+ images
	Failed          int   `json:"failed,omitempty"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1
