package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/purehash/internal/manifest"
)

var validateNoFiles bool

var validateCmd = &cobra.Command{
	Use:   "validate <manifest_path>",
	Short: "Validate a purehash manifest and check source files are unchanged",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateNoFiles, "no-files", false, "skip source file checks")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	path, err := manifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}

	baseDir := m.BasePath
	if !filepath.IsAbs(baseDir) {
		baseDir = filepath.Join(filepath.Dir(path), baseDir)
	}
	logVerbose("base dir: %s", baseDir)

	errors := manifest.Validate(m, baseDir, !validateNoFiles)
	if len(errors) == 0 {
		fmt.Println("  ✓ Manifest is valid")
		if validateNoFiles {
			fmt.Printf("  ✓ %d images, hashes consistent\n", m.Stats.TotalImages)
		} else {
			fmt.Printf("  ✓ %d images, all source files present and unchanged\n", m.Stats.TotalImages)
		}
		return nil
	}

	fmt.Printf("  ✗ Manifest has %d error(s):\n", len(errors))
	for _, e := range errors {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errors))
}
