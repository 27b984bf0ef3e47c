// Package config reads service settings from the environment.
//
// A .env file in the working directory is loaded first when present;
// variables already set in the process environment win over it.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/poiesic/procsuggest/ai"
)

// Environment variable names.
const (
	EnvCatalogPath     = "SUGGEST_CATALOG_PATH"
	EnvRankingPath     = "SUGGEST_RANKING_PATH"
	EnvCacheDir        = "SUGGEST_CACHE_DIR"
	EnvLinkBaseURL     = "SUGGEST_LINK_BASE_URL"
	EnvLinkEnrichment  = "SUGGEST_LINK_ENRICHMENT"
	EnvTopK            = "SUGGEST_TOP_K"
	EnvThreshold       = "SUGGEST_THRESHOLD"
	EnvPoolSize        = "SUGGEST_POOL_SIZE"
	EnvLogLevel        = "SUGGEST_LOG_LEVEL"
	EnvPrimaryModelDir = "SUGGEST_PRIMARY_MODEL_DIR"
	EnvORTLibrary      = "SUGGEST_ORT_LIBRARY"
	EnvMaxSeqLen       = "SUGGEST_MAX_SEQ_LEN"
	EnvEmbeddingHost   = "SUGGEST_EMBEDDING_HOST"
	EnvEmbeddingModel  = "SUGGEST_EMBEDDING_MODEL"
	EnvGeneratorHost   = "SUGGEST_GENERATOR_HOST"
	EnvGeneratorModel  = "SUGGEST_GENERATOR_MODEL"
)

// Defaults for unset variables.
const (
	DefaultCatalogPath = "data/catalog.csv"
	DefaultRankingPath = "data/ranking.csv"
	DefaultLinkBaseURL = "https://dichvucong.gov.vn/thu-tuc"
	DefaultTopK        = 4
	DefaultThreshold   = 0.5
	DefaultLogLevel    = "info"
)

// Config holds all service settings.
type Config struct {
	CatalogPath string
	// RankingPath may point at a missing file; label lookups are then disabled.
	RankingPath string
	// CacheDir holds the persistent embedding cache. Empty disables it.
	CacheDir       string
	LinkBaseURL    string
	LinkEnrichment bool
	TopK           int
	Threshold      float64
	PoolSize       int
	LogLevel       string

	AI *ai.Config
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	defaults := ai.DefaultConfig()
	aiConfig := ai.NewConfig(
		ai.WithPrimaryModelDir(getEnv(EnvPrimaryModelDir, defaults.PrimaryModelDir)),
		ai.WithRuntimeLibrary(getEnv(EnvORTLibrary, defaults.RuntimeLibrary)),
		ai.WithMaxSequenceLength(getEnvInt(EnvMaxSeqLen, defaults.MaxSequenceLength)),
		ai.WithEmbeddingHost(getEnv(EnvEmbeddingHost, defaults.EmbeddingHost)),
		ai.WithEmbeddingModel(getEnv(EnvEmbeddingModel, defaults.EmbeddingModel)),
		ai.WithGeneratorHost(getEnv(EnvGeneratorHost, defaults.GeneratorHost)),
		ai.WithGeneratorModel(getEnv(EnvGeneratorModel, defaults.GeneratorModel)),
	)

	return &Config{
		CatalogPath:    getEnv(EnvCatalogPath, DefaultCatalogPath),
		RankingPath:    getEnv(EnvRankingPath, DefaultRankingPath),
		CacheDir:       getEnv(EnvCacheDir, ""),
		LinkBaseURL:    getEnv(EnvLinkBaseURL, DefaultLinkBaseURL),
		LinkEnrichment: getEnvBool(EnvLinkEnrichment, false),
		TopK:           getEnvInt(EnvTopK, DefaultTopK),
		Threshold:      getEnvFloat(EnvThreshold, DefaultThreshold),
		PoolSize:       getEnvInt(EnvPoolSize, defaultPoolSize()),
		LogLevel:       getEnv(EnvLogLevel, DefaultLogLevel),
		AI:             aiConfig,
	}, nil
}

// Validate checks settings that would otherwise fail later at startup.
// TopK and Threshold are not range-checked: non-positive top-K yields empty
// results and thresholds are applied as given.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.CatalogPath) == "" {
		return fmt.Errorf("%s is required", EnvCatalogPath)
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", EnvPoolSize, c.PoolSize)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.AI == nil {
		return ai.ErrConfigRequired
	}
	return c.AI.Validate()
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.New("invalid log level " + strconv.Quote(name) + " (use debug, info, warn, or error)")
	}
}

func defaultPoolSize() int {
	return max(runtime.NumCPU()/2, 1)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
