package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "zstd", cfg.Records.Codec)
	assert.Equal(t, 1<<20, cfg.Records.ChunkSize)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Records.Codec = "snappy"
	cfg.Server.Port = 9999
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "snappy", loaded.Records.Codec)
	assert.Equal(t, 9999, loaded.Server.Port)
	assert.Equal(t, cfg.Logging.Level, loaded.Logging.Level)
}

func TestLoadMissingConfig(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("records: ["), 0600))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}
