package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{EnvCatalogPath, EnvRankingPath, EnvCacheDir, EnvLinkBaseURL,
		EnvLinkEnrichment, EnvTopK, EnvThreshold, EnvPoolSize, EnvLogLevel, EnvEmbeddingHost} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultCatalogPath, cfg.CatalogPath)
	assert.Equal(t, DefaultRankingPath, cfg.RankingPath)
	assert.Empty(t, cfg.CacheDir)
	assert.Equal(t, DefaultLinkBaseURL, cfg.LinkBaseURL)
	assert.False(t, cfg.LinkEnrichment)
	assert.Equal(t, 4, cfg.TopK)
	assert.Equal(t, 0.5, cfg.Threshold)
	assert.GreaterOrEqual(t, cfg.PoolSize, 1)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://localhost:8080/v1", cfg.AI.EmbeddingHost)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv(EnvCatalogPath, "/srv/dvc/catalog.tsv")
	t.Setenv(EnvLinkBaseURL, "https://dvc.test")
	t.Setenv(EnvLinkEnrichment, "true")
	t.Setenv(EnvTopK, "6")
	t.Setenv(EnvThreshold, "0.35")
	t.Setenv(EnvPoolSize, "3")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvPrimaryModelDir, "/models/procedure-bert")
	t.Setenv(EnvMaxSeqLen, "128")
	t.Setenv(EnvEmbeddingHost, "http://embed:9000")
	t.Setenv(EnvGeneratorModel, "llama3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/dvc/catalog.tsv", cfg.CatalogPath)
	assert.Equal(t, "https://dvc.test", cfg.LinkBaseURL)
	assert.True(t, cfg.LinkEnrichment)
	assert.Equal(t, 6, cfg.TopK)
	assert.Equal(t, 0.35, cfg.Threshold)
	assert.Equal(t, 3, cfg.PoolSize)
	assert.Equal(t, "/models/procedure-bert", cfg.AI.PrimaryModelDir)
	assert.Equal(t, 128, cfg.AI.MaxSequenceLength)
	assert.Equal(t, "llama3", cfg.AI.GeneratorModel)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://embed:9000/v1", cfg.AI.EmbeddingHost, "validate normalizes hosts")
}

func TestLoad_MalformedValuesUseDefaults(t *testing.T) {
	t.Setenv(EnvTopK, "four")
	t.Setenv(EnvThreshold, "half")
	t.Setenv(EnvLinkEnrichment, "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, cfg.TopK)
	assert.Equal(t, DefaultThreshold, cfg.Threshold)
	assert.False(t, cfg.LinkEnrichment)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		cfg.CatalogPath = "catalog.csv"
		cfg.PoolSize = 2
		cfg.LogLevel = "warn"
		return cfg
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.CatalogPath = " "
	assert.ErrorContains(t, cfg.Validate(), EnvCatalogPath)

	cfg = valid()
	cfg.PoolSize = 0
	assert.ErrorContains(t, cfg.Validate(), EnvPoolSize)

	cfg = valid()
	cfg.LogLevel = "verbose"
	assert.ErrorContains(t, cfg.Validate(), "invalid log level")

	cfg = valid()
	cfg.AI = nil
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.TopK = -1
	cfg.Threshold = 7
	assert.NoError(t, cfg.Validate(), "top-K and threshold are permissive")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}
