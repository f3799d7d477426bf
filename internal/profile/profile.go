package profile

import (
	"fmt"
	"sort"

	"github.com/AnyUserName/purehash/internal/phash"
)

// DefaultName is the profile used when none is requested.
const DefaultName = "default"

// Profile defines reduction sizes for a hashing run.
type Profile struct {
	Name        string
	AverageSize int // reduced grid edge for the average hash
	DCTSize     int // reduced grid edge for the DCT hash, at least 8
	MaxDim      int // longest edge before hashing, 0 keeps the original
}

// Built-in profiles.
var profiles = map[string]Profile{
	DefaultName: {
		Name:        DefaultName,
		AverageSize: phash.DefaultAverageSize,
		DCTSize:     phash.DefaultDCTSize,
	},
	"fine": {
		Name:        "fine",
		AverageSize: 16,
		DCTSize:     64,
	},
	"coarse": {
		Name:        "coarse",
		AverageSize: 4,
		DCTSize:     16,
	},
}

// Get returns a profile by name. Falls back to default if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles[DefaultName]
	p.Name = name // preserve requested name
	return p
}

// Names lists the built-in profiles in sorted order.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks the sizes against the hash engines' lower bounds.
func (p Profile) Validate() error {
	if p.AverageSize < 1 {
		return fmt.Errorf("profile %s: average size %d < 1", p.Name, p.AverageSize)
	}
	if p.DCTSize < phash.FrequencySize {
		return fmt.Errorf("profile %s: dct size %d < %d: %w",
			p.Name, p.DCTSize, phash.FrequencySize, phash.ErrReductionTooSmall)
	}
	if p.MaxDim < 0 {
		return fmt.Errorf("profile %s: negative max dim %d", p.Name, p.MaxDim)
	}
	return nil
}

// MinDim is the smallest source edge both hashes can reduce.
func (p Profile) MinDim() int {
	if p.AverageSize > p.DCTSize {
		return p.AverageSize
	}
	return p.DCTSize
}

// Size returns the reduction size for alg.
func (p Profile) Size(alg phash.Algorithm) int {
	if alg == phash.AlgorithmDCT {
		return p.DCTSize
	}
	return p.AverageSize
}
