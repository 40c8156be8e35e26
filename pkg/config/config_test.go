package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yamlSafePath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

func TestLoad_NoConfigFile(t *testing.T) {
	cfg, err := Load(yamlSafePath(t, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "round_robin", cfg.Storage.DistributionStrategy)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestLoad_DefaultConfig(t *testing.T) {
	path := yamlSafePath(t, "config.yaml")
	base := t.TempDir()
	data := []byte(`
connection_strings:
  mongodb: ` + base + `/metadata
database:
  database_name: testvault
chunk:
  default_chunk_size_in_bytes: 8Mi
  min_chunk_size_in_bytes: 1Mi
  max_chunk_size_in_bytes: 64Mi
  compression_enabled: true
  compression_level: 5
  checksum_algorithm: SHA256
storage:
  file_system_path: ` + base + `/chunks
  mongodb_path: ` + base + `/blobs
  distribution_strategy: round_robin
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "testvault", cfg.Database.DatabaseName)
	assert.Equal(t, int64(8<<20), cfg.Chunk.DefaultChunkSizeInBytes.Int64())
	assert.Equal(t, 5, cfg.Chunk.CompressionLevel)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := yamlSafePath(t, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: valid: yaml: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := yamlSafePath(t, "config.yaml")
	base := t.TempDir()
	data := []byte(`
connection_strings:
  mongodb: ` + base + `/metadata
chunk:
  default_chunk_size_in_bytes: 1Mi
  min_chunk_size_in_bytes: 8Mi
  max_chunk_size_in_bytes: 64Mi
storage:
  distribution_strategy: round_robin
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()
	assert.NoError(t, Validate(cfg))
	assert.Equal(t, "chunkvault", cfg.Database.DatabaseName)
	assert.Equal(t, int64(64<<20), cfg.Chunk.DefaultChunkSizeInBytes.Int64())
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()
	assert.True(t, filepath.IsAbs(path) || filepath.Base(path) == "config.yaml")
	assert.Equal(t, "config.yaml", filepath.Base(path))
}

func TestGetConfigDir(t *testing.T) {
	dir := GetConfigDir()
	assert.Contains(t, dir, "chunkvault")
}

func TestValidate_LogLevelNormalization(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "debug"
	require.NoError(t, Validate(cfg))
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("CHUNKVAULT_DATABASE_DATABASE_NAME", "envvault")
	t.Setenv("CHUNKVAULT_LOGGING_LEVEL", "DEBUG")

	path := yamlSafePath(t, "config.yaml")
	base := t.TempDir()
	data := []byte(`
connection_strings:
  mongodb: ` + base + `/metadata
storage:
  distribution_strategy: round_robin
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "envvault", cfg.Database.DatabaseName)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}

func TestSaveConfigRoundtrips(t *testing.T) {
	cfg := GetDefaultConfig()
	path := yamlSafePath(t, "saved.yaml")
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Database.DatabaseName, loaded.Database.DatabaseName)
}
