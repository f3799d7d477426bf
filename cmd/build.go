package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/purehash/internal/manifest"
	"github.com/AnyUserName/purehash/internal/pipeline"
	"github.com/AnyUserName/purehash/internal/store"
)

var (
	buildOpts   hashFlags
	buildOutDir string
	buildDB     string
)

var buildCmd = &cobra.Command{
	Use:   "build <input_dir>",
	Short: "Hash every image under a directory and write a manifest",
	Long: `Scans input directory recursively for images (png, jpg, jpeg, webp, gif,
bmp, tiff), skipping hidden directories, hashes them in parallel and writes
` + manifest.FileName + ` to the output directory.

With --db (or PUREHASH_DB) the results are also upserted into an SQLite
index keyed by relative path.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildOpts.register(buildCmd.Flags())
	buildCmd.Flags().StringVarP(&buildOutDir, "out", "o", "./purehash_out", "output directory")
	buildCmd.Flags().StringVar(&buildDB, "db", "", "SQLite index to update (default from env)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	start := time.Now()

	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(buildOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	prof, workers, err := buildOpts.resolve(cmd.Flags())
	if err != nil {
		return err
	}
	dbPath := env.DB
	if cmd.Flags().Changed("db") {
		dbPath = buildDB
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (avg=%d, dct=%d, max_dim=%d)", prof.Name, prof.AverageSize, prof.DCTSize, prof.MaxDim)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		InputDir: absInput,
		Profile:  prof,
		Workers:  workers,
		Log:      log,
	})
	m, err := p.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	indexed := -1
	if dbPath != "" {
		s, err := store.Open(cmd.Context(), dbPath)
		if err != nil {
			return err
		}
		defer s.Close()
		if indexed, err = s.UpsertManifest(cmd.Context(), m); err != nil {
			return fmt.Errorf("index: %w", err)
		}
		logVerbose("indexed %d images into %s", indexed, dbPath)
	}

	printBuildReport(m, manifestPath, dbPath, indexed, time.Since(start))
	return nil
}

func printBuildReport(m *manifest.Manifest, manifestPath, dbPath string, indexed int, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║             purehash build complete              ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Images:      %d\n", s.TotalImages)
	if s.Failed > 0 {
		fmt.Printf("  Failed:      %d\n", s.Failed)
	}
	fmt.Printf("  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Unique DCT:  %d\n", s.UniqueDCT)
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:     %d\n", m.BuildInfo.Workers)
		fmt.Printf("  Sizes:       average %d, dct %d\n", m.BuildInfo.AverageSize, m.BuildInfo.DCTSize)
	}
	fmt.Println()

	printDuplicateGroups(m, 10)

	fmt.Printf("  Manifest:    %s\n", manifestPath)
	if indexed >= 0 {
		fmt.Printf("  Index:       %s (%d rows)\n", dbPath, indexed)
	}
	fmt.Println()
}

// printDuplicateGroups lists up to limit groups of images with identical
// DCT hashes, largest first.
func printDuplicateGroups(m *manifest.Manifest, limit int) {
	groups := m.DuplicateGroups()
	if len(groups) == 0 {
		return
	}
	sort.SliceStable(groups, func(i, j int) bool { return len(groups[i]) > len(groups[j]) })
	n := len(groups)
	if n > limit {
		n = limit
	}
	fmt.Printf("  Identical DCT hashes (%d groups, top %d):\n", len(groups), n)
	for _, g := range groups[:n] {
		dct := m.Images[g[0]].DCT
		keys := make([]string, len(g))
		for i, k := range g {
			keys[i] = truncKey(k, 40)
		}
		fmt.Printf("    %s  %s\n", dct, strings.Join(keys, ", "))
	}
	fmt.Println()
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
