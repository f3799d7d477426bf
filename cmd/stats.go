package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/purehash/internal/manifest"
	"github.com/AnyUserName/purehash/internal/store"
)

var statsDB string

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a purehash manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsDB, "db", "", "also summarize this SQLite index")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	path, err := manifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}
	printStats(m)

	if statsDB != "" {
		s, err := store.Open(cmd.Context(), statsDB)
		if err != nil {
			return err
		}
		defer s.Close()
		st, err := s.Stats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("  Index %s: %d images, %d distinct DCT hashes\n\n", statsDB, st.TotalImages, st.UniqueDCT)
	}
	return nil
}

// manifestPath resolves a directory to the manifest inside it.
func manifestPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, manifest.FileName)
	}
	return path, nil
}

func printStats(m *manifest.Manifest) {
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	fmt.Printf("  Profile:          %s\n", m.Profile)
	fmt.Printf("  Base path:        %s\n", m.BasePath)
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:          %d\n", m.BuildInfo.Workers)
		fmt.Printf("  Reduction sizes:  average %d×%d, dct %d×%d\n",
			m.BuildInfo.AverageSize, m.BuildInfo.AverageSize,
			m.BuildInfo.DCTSize, m.BuildInfo.DCTSize)
		if m.BuildInfo.MaxDim > 0 {
			fmt.Printf("  Max dimension:    %d\n", m.BuildInfo.MaxDim)
		}
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Total images:     %d\n", s.TotalImages)
	if s.Failed > 0 {
		fmt.Printf("  Failed at build:  %d\n", s.Failed)
	}
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Unique DCT:       %d\n", s.UniqueDCT)
	fmt.Println()

	// Per-format breakdown.
	formatStats := map[string]struct {
		count int
		bytes int64
	}{}
	for _, img := range m.Images {
		fs := formatStats[img.Original.Format]
		fs.count++
		fs.bytes += img.Original.Size
		formatStats[img.Original.Format] = fs
	}
	var formats []string
	for f := range formatStats {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	fmt.Println("  Format breakdown:")
	for _, f := range formats {
		fs := formatStats[f]
		fmt.Printf("    %-6s  %4d files  %s\n", f, fs.count, formatBytes(fs.bytes))
	}
	fmt.Println()

	// Dimension range.
	if len(m.Images) > 0 {
		minW, minH, maxW, maxH := -1, -1, 0, 0
		for _, img := range m.Images {
			w, h := img.Original.Width, img.Original.Height
			if minW < 0 || w*h < minW*minH {
				minW, minH = w, h
			}
			if w*h > maxW*maxH {
				maxW, maxH = w, h
			}
		}
		fmt.Printf("  Smallest image:   %dx%d\n", minW, minH)
		fmt.Printf("  Largest image:    %dx%d\n", maxW, maxH)
		fmt.Println()
	}

	printDuplicateGroups(m, 20)
}
