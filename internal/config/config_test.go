package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0.5, cfg.Pipeline.SectionFailureRatio)
	assert.Equal(t, 4, cfg.Pipeline.MaxImages)
	assert.Equal(t, 50, cfg.Translate.ChunkSize)
	assert.Equal(t, 500, cfg.Translate.PacingMS)
	assert.Equal(t, 1000, cfg.Translate.LanguagePacingMS)
	assert.Equal(t, "flora-queue.db", cfg.Queue.Path)
	assert.NotEmpty(t, cfg.Anthropic.Model)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FLORA_PIPELINE_SECTION_FAILURE_RATIO", "0.25")
	t.Setenv("FLORA_TRANSLATE_CHUNK_SIZE", "10")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.Pipeline.SectionFailureRatio)
	assert.Equal(t, 10, cfg.Translate.ChunkSize)
}

func TestValidateScopes(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate("store"))

	cfg.Store.DatabaseURL = "postgres://localhost/flora"
	assert.NoError(t, cfg.Validate("store"))
	assert.Error(t, cfg.Validate("pipeline"))

	cfg.Anthropic.Key = "k"
	assert.Error(t, cfg.Validate("pipeline"))

	cfg.DeepL.Key = "k"
	assert.NoError(t, cfg.Validate("pipeline"))
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}
