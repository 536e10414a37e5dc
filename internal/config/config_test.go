package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/clubcard/internal/format"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, StoreLocal, cfg.Store.Type)

	missing, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, cfg, missing)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clubcard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  type: s3
  bucket: revocations
  prefix: cards/
  region: eu-central-1
  pointer_table: clubcard-commits
build:
  hash_seed: "2026-10-18"
  width: 3
  rand_seed: 42
encoding:
  compression: lz4
  codec: json
logging:
  level: debug
  format: json
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "revocations", cfg.Store.Bucket)
	assert.Equal(t, "clubcard-commits", cfg.Store.PointerTable)
	assert.Equal(t, 3, cfg.Build.Width)
	require.NotNil(t, cfg.Build.RandSeed)
	assert.Equal(t, uint64(42), *cfg.Build.RandSeed)
	assert.True(t, cfg.Build.Verify, "unset fields keep their defaults")

	c, err := cfg.Compression()
	require.NoError(t, err)
	assert.Equal(t, format.CompressionLZ4, c)

	cd, err := cfg.Codec()
	require.NoError(t, err)
	assert.Equal(t, "json", cd.Name())

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clubcard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: [unterminated"), 0o600))

	_, err := Load(path)
	require.ErrorContains(t, err, "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CLUBCARD_STORE", "minio")
	t.Setenv("CLUBCARD_ACCESS_KEY", "access")
	t.Setenv("CLUBCARD_SECRET_KEY", "secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, StoreMinIO, cfg.Store.Type)
	assert.Equal(t, "access", cfg.Store.AccessKey)
	assert.Equal(t, "secret", cfg.Store.SecretKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"UnknownStore", func(c *Config) { c.Store.Type = "ftp" }, `unknown store type "ftp"`},
		{"LocalWithoutPath", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"S3WithoutBucket", func(c *Config) { c.Store.Type = StoreS3 }, "store.bucket"},
		{"MinIOWithoutEndpoint", func(c *Config) { c.Store.Type = StoreMinIO; c.Store.Bucket = "b" }, "store.endpoint"},
		{"PointerTableOnLocal", func(c *Config) { c.Store.PointerTable = "t" }, "pointer_table"},
		{"Width", func(c *Config) { c.Build.Width = 9 }, "build.width"},
		{"Compression", func(c *Config) { c.Encoding.Compression = "brotli" }, "brotli"},
		{"Codec", func(c *Config) { c.Encoding.Codec = "gob" }, `unknown codec "gob"`},
		{"LogLevel", func(c *Config) { c.Logging.Level = "loud" }, `unknown log level "loud"`},
		{"LogFormat", func(c *Config) { c.Logging.Format = "xml" }, `unknown log format "xml"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			require.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clubcard.yaml")
	cfg := Default()
	cfg.Store.Path = "/var/lib/clubcard"
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
