// Package config resolves CLI defaults from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/AnyUserName/purehash/internal/profile"
)

// EnvFile is the dotenv file read from the working directory by default.
const EnvFile = ".env"

// Config holds defaults for flags the user did not set.
type Config struct {
	Profile string
	Workers int // 0 = NumCPU
	Format  string
	MaxDim  int
	DB      string // SQLite index path, empty disables it
}

// Load reads the given dotenv files (EnvFile when none are named), then
// PUREHASH_* variables. Missing dotenv files are skipped; variables already
// set in the process environment win over dotenv values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{EnvFile}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	return &Config{
		Profile: getEnv("PUREHASH_PROFILE", profile.DefaultName),
		Workers: getEnvInt("PUREHASH_WORKERS", 0),
		Format:  getEnv("PUREHASH_FORMAT", "hex"),
		MaxDim:  getEnvInt("PUREHASH_MAX_DIM", 0),
		DB:      getEnv("PUREHASH_DB", ""),
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
	}
	return def
}
