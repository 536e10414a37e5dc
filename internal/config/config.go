// Package config loads the YAML configuration of the clubcard command.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/clubcard/codec"
	"github.com/hupe1980/clubcard/internal/format"
	"github.com/hupe1980/clubcard/keyset"
)

// Store types.
const (
	StoreLocal  = "local"
	StoreMemory = "memory"
	StoreS3     = "s3"
	StoreMinIO  = "minio"
)

// Config holds all clubcard command configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Build    BuildConfig    `yaml:"build"`
	Encoding EncodingConfig `yaml:"encoding"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// StoreConfig selects where clubcards are published.
type StoreConfig struct {
	Type string `yaml:"type"` // local, memory, s3, minio
	Path string `yaml:"path"` // root directory of the local store

	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"` // minio only
	Secure   bool   `yaml:"secure"`

	// Credentials for minio. Prefer CLUBCARD_ACCESS_KEY and
	// CLUBCARD_SECRET_KEY over storing them in the file.
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`

	// PointerTable names a DynamoDB table tracking the current card.
	// Without it the pointer is kept in a blob of the store.
	PointerTable string `yaml:"pointer_table"`
}

// BuildConfig configures hashing and solving.
type BuildConfig struct {
	HashSeed string  `yaml:"hash_seed"`
	Width    int     `yaml:"width"` // equation width in 64-bit words
	RandSeed *uint64 `yaml:"rand_seed"`
	Verify   bool    `yaml:"verify"`
}

// EncodingConfig configures the artifact format.
type EncodingConfig struct {
	Compression string `yaml:"compression"` // none, lz4, zstd
	Codec       string `yaml:"codec"`       // json, go-json
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Type: StoreLocal,
			Path: "clubcards",
		},
		Build: BuildConfig{
			HashSeed: "clubcard",
			Width:    keyset.DefaultWidth,
			Verify:   true,
		},
		Encoding: EncodingConfig{
			Compression: "zstd",
			Codec:       "go-json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from a YAML file. An empty path or a missing
// file yields the defaults. Environment variables override the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CLUBCARD_ACCESS_KEY"); v != "" {
		c.Store.AccessKey = v
	}
	if v := os.Getenv("CLUBCARD_SECRET_KEY"); v != "" {
		c.Store.SecretKey = v
	}
	if v := os.Getenv("CLUBCARD_STORE"); v != "" {
		c.Store.Type = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Type {
	case StoreLocal:
		if c.Store.Path == "" {
			errs = append(errs, errors.New("store.path is required for the local store"))
		}
	case StoreMemory:
	case StoreS3:
		if c.Store.Bucket == "" {
			errs = append(errs, errors.New("store.bucket is required for the s3 store"))
		}
	case StoreMinIO:
		if c.Store.Bucket == "" || c.Store.Endpoint == "" {
			errs = append(errs, errors.New("store.bucket and store.endpoint are required for the minio store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store type %q", c.Store.Type))
	}

	if c.Store.PointerTable != "" && c.Store.Type != StoreS3 {
		errs = append(errs, errors.New("store.pointer_table requires the s3 store"))
	}
	if c.Build.Width < 0 || c.Build.Width > keyset.MaxWidth {
		errs = append(errs, fmt.Errorf("build.width must be between 0 and %d", keyset.MaxWidth))
	}
	if _, err := c.Compression(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Codec(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	if f := c.Logging.Format; f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", f))
	}
	return errors.Join(errs...)
}

// Compression parses encoding.compression.
func (c *Config) Compression() (format.Compression, error) {
	return format.ParseCompression(c.Encoding.Compression)
}

// Codec resolves encoding.codec.
func (c *Config) Codec() (codec.Codec, error) {
	cd, ok := codec.ByName(c.Encoding.Codec)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", c.Encoding.Codec)
	}
	return cd, nil
}

// LogLevel parses logging.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Logging.Level))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return level, nil
}
