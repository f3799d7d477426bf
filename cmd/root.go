package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/AnyUserName/purehash/internal/config"
	"github.com/AnyUserName/purehash/internal/profile"
)

var (
	version = "0.1.0"
	verbose bool
	envFile string

	// env holds defaults from the environment, loaded before each command.
	env = &config.Config{Profile: profile.DefaultName, Format: "hex"}

	log = newLogger()
)

var rootCmd = &cobra.Command{
	Use:   "purehash",
	Short: "Perceptual hashes for image files",
	Long: `purehash computes perceptual hashes that stay close when an image is
resized, recompressed or slightly retouched.

Two hashes are produced per image:
  average  five bit vectors (red, green, blue, grayscale, luminosity),
           one bit per cell of a reduced grid
  dct      64 bits from the low frequencies of a 2-D DCT

Defaults can be set with PUREHASH_* environment variables or a .env file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		cfg, err := config.Load(files...)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		env = cfg
		logVerbose("env: profile=%s workers=%d format=%s max_dim=%d db=%q",
			env.Profile, env.Workers, env.Format, env.MaxDim, env.DB)
		return nil
	},
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		log.Error(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file with PUREHASH_* defaults (default .env)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"purehash %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	log.Debugf(format, args...)
}

// ─── shared flag resolution ──────────────────────────────────

// hashFlags are the hashing parameters shared by hash and build.
type hashFlags struct {
	profile string
	avgSize int
	dctSize int
	maxDim  int
	workers int
}

func (f *hashFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.profile, "profile", "p", profile.DefaultName,
		fmt.Sprintf("hashing profile %v", profile.Names()))
	fs.IntVar(&f.avgSize, "avg-size", 0, "average hash grid size (0 = profile default)")
	fs.IntVar(&f.dctSize, "dct-size", 0, "dct reduction size, at least 8 (0 = profile default)")
	fs.IntVar(&f.maxDim, "max-dim", 0, "fit images inside NxN before hashing (0 = original size)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
}

// resolve applies flag > environment > profile precedence.
func (f *hashFlags) resolve(fs *pflag.FlagSet) (profile.Profile, int, error) {
	name := env.Profile
	if fs.Changed("profile") {
		name = f.profile
	}
	prof := profile.Get(name)

	prof.MaxDim = env.MaxDim
	if fs.Changed("max-dim") {
		prof.MaxDim = f.maxDim
	}
	if f.avgSize > 0 {
		prof.AverageSize = f.avgSize
	}
	if f.dctSize > 0 {
		prof.DCTSize = f.dctSize
	}
	if err := prof.Validate(); err != nil {
		return profile.Profile{}, 0, err
	}

	workers := env.Workers
	if fs.Changed("workers") {
		workers = f.workers
	}
	return prof, workers, nil
}
