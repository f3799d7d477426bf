package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/purehash/internal/encoder"
	"github.com/AnyUserName/purehash/internal/phash"
	"github.com/AnyUserName/purehash/internal/pipeline"
)

var (
	hashOpts   hashFlags
	hashFormat string
	hashAlgo   string
)

var hashCmd = &cobra.Command{
	Use:   "hash <file>...",
	Short: "Print perceptual hashes of image files",
	Long: `Decodes each file (EXIF orientation applied), builds its pixel grid and
prints the average and/or DCT hash in the chosen encoding.

Hashes are bit sequences in row-major cell order; hex and base64 pack them
most significant bit first, zero padded to whole bytes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHash,
}

func init() {
	hashOpts.register(hashCmd.Flags())
	hashCmd.Flags().StringVarP(&hashFormat, "format", "f", "", "output encoding: hex, bin, base64 (default from env or hex)")
	hashCmd.Flags().StringVarP(&hashAlgo, "algo", "a", "all", "algorithm: average, dct, all")
	rootCmd.AddCommand(hashCmd)
}

func parseAlgorithms(s string) ([]phash.Algorithm, error) {
	switch s {
	case "", "all":
		return phash.Algorithms, nil
	case string(phash.AlgorithmAverage), string(phash.AlgorithmDCT):
		return []phash.Algorithm{phash.Algorithm(s)}, nil
	}
	return nil, fmt.Errorf("%w: %q", phash.ErrUnknownAlgorithm, s)
}

func runHash(cmd *cobra.Command, args []string) error {
	prof, workers, err := hashOpts.resolve(cmd.Flags())
	if err != nil {
		return err
	}
	algs, err := parseAlgorithms(hashAlgo)
	if err != nil {
		return err
	}
	format := env.Format
	if cmd.Flags().Changed("format") {
		format = hashFormat
	}
	enc, err := encoder.NewRegistry().Resolve(format)
	if err != nil {
		return err
	}

	logVerbose("profile: %s (avg=%d, dct=%d, max_dim=%d)", prof.Name, prof.AverageSize, prof.DCTSize, prof.MaxDim)

	sources := make([]pipeline.Source, 0, len(args))
	for _, path := range args {
		src, err := pipeline.FileSource(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		sources = append(sources, src)
	}

	p := pipeline.New(pipeline.Config{
		Profile:    prof,
		Algorithms: algs,
		Workers:    workers,
		Log:        log,
	})
	results := p.Process(cmd.Context(), sources)

	out := cmd.OutOrStdout()
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		fmt.Fprintln(out, formatResult(r, enc))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// formatResult renders one file's hashes, one line per channel.
func formatResult(r pipeline.Result, enc encoder.Encoder) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  (%dx%d %s, grid %dx%d, %s)\n",
		r.Source.RelPath, r.Original.Width, r.Original.Height, r.Original.Format,
		r.GridWidth, r.GridHeight, r.ContentHash)
	for _, d := range r.Digests {
		for _, h := range d.Hashes {
			label := string(d.Algorithm)
			if d.Algorithm != phash.AlgorithmDCT {
				label += " " + string(h.Channel)
			}
			fmt.Fprintf(&sb, "  %-19s %-3d %s\n", label, d.Size, enc.Encode(h.Bits))
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
