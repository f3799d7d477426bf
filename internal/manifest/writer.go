package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// New creates an empty manifest with defaults.
func New(profileName string) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		BasePath:    "./",
		Images:      make(map[string]Image),
	}
}

// ComputeStats recalculates aggregate statistics from images. Failed is
// owned by the builder and left untouched.
func (m *Manifest) ComputeStats() {
	s := Stats{Failed: m.Stats.Failed}
	s.TotalImages = len(m.Images)
	for _, img := range m.Images {
		s.TotalInputBytes += img.Original.Size
	}
	groups := m.DuplicateGroups()
	s.DuplicateGroups = len(groups)
	s.UniqueDCT = s.TotalImages
	for _, g := range groups {
		s.UniqueDCT -= len(g) - 1
	}
	m.Stats = s
}

// DuplicateGroups returns the keys of images that share an identical DCT
// hash, two or more per group. Groups and keys are sorted.
func (m *Manifest) DuplicateGroups() [][]string {
	byHash := map[string][]string{}
	for key, img := range m.Images {
		if img.DCT == "" {
			continue
		}
		byHash[img.DCT] = append(byHash[img.DCT], key)
	}
	var groups [][]string
	for _, keys := range byHash {
		if len(keys) < 2 {
			continue
		}
		sort.Strings(keys)
		groups = append(groups, keys)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}

// Keys returns image keys in sorted order.
func (m *Manifest) Keys() []string {
	keys := make([]string, 0, len(m.Images))
	for k := range m.Images {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteJSON serializes the manifest to a JSON file with stable ordering.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a manifest written by WriteJSON. Unknown fields are
// ignored.
func ReadJSON(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
