package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/substantialcattle5/scour/internal/constants"
	"github.com/substantialcattle5/scour/internal/fingerprint"
	"github.com/substantialcattle5/scour/internal/resolve"
	"github.com/substantialcattle5/scour/util"
)

// Config represents the structure of .scour.yaml. Every field has a
// working default; the file is optional and flags override it.
type Config struct {
	HashAlgorithm string `yaml:"hash_algorithm"`
	ChunkSize     string `yaml:"chunk_size"` // megabytes, e.g. "4"
	Workers       int    `yaml:"workers"`
	KeepPolicy    string `yaml:"keep_policy"` // "oldest" or "newest"
	TrashDir      string `yaml:"trash_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HashAlgorithm: constants.HashAlgorithmSHA256,
		ChunkSize:     "4",
		Workers:       0, // 0 means GOMAXPROCS
		KeepPolicy:    string(resolve.KeepOldest),
	}
}

// Load reads and validates a config file at an explicit path.
func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

// LoadDefault looks for .scour.yaml in the working directory, then the
// home directory. A missing file is not an error: defaults apply.
func LoadDefault() (Config, error) {
	candidates := []string{constants.ConfigFileName}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, constants.ConfigFileName))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		}
	}
	return Default(), nil
}

// Validate checks every configured value.
func (c Config) Validate() error {
	if _, err := fingerprint.CreateHasher(c.HashAlgorithm); err != nil {
		return err
	}
	if c.ChunkSize != "" {
		size, err := util.ParseChunkSize(c.ChunkSize)
		if err != nil {
			return err
		}
		if size <= 0 {
			return fmt.Errorf("chunk size must be positive, got: %s", c.ChunkSize)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got: %d", c.Workers)
	}
	if c.KeepPolicy != "" {
		if _, err := resolve.ParsePolicy(c.KeepPolicy); err != nil {
			return err
		}
	}
	return nil
}

// ChunkSizeBytes resolves the configured chunk size to bytes.
func (c Config) ChunkSizeBytes() int64 {
	if c.ChunkSize == "" {
		return constants.DefaultChunkSize
	}
	size, err := util.ParseChunkSize(c.ChunkSize)
	if err != nil || size <= 0 {
		return constants.DefaultChunkSize
	}
	return size
}
