package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	LoadConfig()

	assert.Equal(t, "gemini", AppConfig.LLMProvider)
	assert.Equal(t, "corpuschat.db", AppConfig.DatabaseURL)
	assert.Equal(t, "8080", AppConfig.HTTPPort)
	assert.Equal(t, "data/company_docs", AppConfig.DocsDir)
	assert.Equal(t, defaultTuning(), AppConfig.Tuning)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("CHUNK_SIZE", "500")
	t.Setenv("CHUNK_OVERLAP", "50")
	t.Setenv("TOP_K", "5")

	LoadConfig()

	assert.Equal(t, 500, AppConfig.Tuning.ChunkSize)
	assert.Equal(t, 50, AppConfig.Tuning.ChunkOverlap)
	assert.Equal(t, 5, AppConfig.Tuning.TopK)
}

func TestLoadConfigTuningFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunk_size: 256\ntemperature: 0.2\n"), 0o644))

	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("TUNING_FILE", path)

	LoadConfig()

	assert.Equal(t, 256, AppConfig.Tuning.ChunkSize)
	assert.InDelta(t, 0.2, float64(AppConfig.Tuning.Temperature), 1e-6)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, 200, AppConfig.Tuning.ChunkOverlap)
	assert.Equal(t, 3, AppConfig.Tuning.TopK)
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	assert.Equal(t, 42, getEnvAsInt("SOME_INT", 7))

	t.Setenv("SOME_INT", "not a number")
	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))

	assert.Equal(t, 7, getEnvAsInt("UNSET_INT_VAR", 7))
}
