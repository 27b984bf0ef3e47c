package procsuggest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/procsuggest/ai/mock"
	"github.com/poiesic/procsuggest/config"
	"github.com/poiesic/procsuggest/core"
	"github.com/poiesic/procsuggest/embedding"
	"github.com/poiesic/procsuggest/storage/badger"
	"github.com/poiesic/procsuggest/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	passport = "Cấp hộ chiếu phổ thông"
	idCard   = "Cấp thẻ căn cước"
	marriage = "Đăng ký kết hôn"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.CatalogPath = writeFile(t, dir, "catalog.csv",
		"ID,NAME\n1.001,"+passport+"\n1.002,"+idCard+"\n1.003,"+marriage+"\n")
	cfg.RankingPath = writeFile(t, dir, "ranking.csv",
		"query_text,procedure_id,procedure_name,label\n"+
			"Làm căn cước?,1.002,"+idCard+",3\n")
	cfg.CacheDir = ""
	cfg.LinkBaseURL = "https://dvc.test"
	cfg.LinkEnrichment = false
	cfg.PoolSize = 2
	return cfg
}

func pinnedLoader() *mock.MockLoader {
	loader := mock.NewMockLoader("test-model")
	loader.Embedder.
		WithVector(passport, []float32{1, 0, 0}).
		WithVector(idCard, []float32{0, 1, 0}).
		WithVector(marriage, []float32{0, 0, 1}).
		WithVector("xin hộ chiếu đi nước ngoài", []float32{0.9, 0.1, 0})
	return loader
}

func TestOpen_RequiresConfig(t *testing.T) {
	_, err := Open(nil)
	assert.ErrorIs(t, err, ErrConfigRequired)

	cfg := testConfig(t)
	cfg.PoolSize = 0
	_, err = Open(cfg)
	assert.Error(t, err)
}

func TestOpen_DefaultLoadersDoNotLoad(t *testing.T) {
	svc, err := Open(testConfig(t))
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, embedding.StateUninitialized, svc.State())
}

func TestService_SuggestEmbeddingPass(t *testing.T) {
	primary := mock.NewMockLoader("primary")
	primary.ArtifactErr = core.ErrMissingArtifacts
	fallback := pinnedLoader()

	svc, err := Open(testConfig(t), WithLoaders(primary, fallback))
	require.NoError(t, err)
	defer svc.Close()

	result := svc.Suggest(context.Background(), "xin hộ chiếu đi nước ngoài", 4, 0.5)
	require.NotNil(t, result)
	assert.Empty(t, result.Error)
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, passport, result.Suggestions[0].ProcedureName)
	assert.Equal(t, core.SourceEmbedding, result.Suggestions[0].Source)
	assert.True(t, strings.HasPrefix(result.Suggestions[0].Link, "https://dvc.test/1.001-"))
	assert.Equal(t, suggest.ExplanationFound, result.Explanation)

	assert.Equal(t, embedding.StateReady, svc.State())
	assert.Equal(t, 0, primary.LoadCount(), "primary with missing artifacts is never loaded")
	assert.Equal(t, 1, fallback.LoadCount())
}

func TestService_SuggestDefaultUsesLabels(t *testing.T) {
	cfg := testConfig(t)
	cfg.TopK = 1

	svc, err := Open(cfg, WithLoaders(nil, pinnedLoader()))
	require.NoError(t, err)
	defer svc.Close()

	result := svc.SuggestDefault(context.Background(), "lam can cuoc")
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, idCard, result.Suggestions[0].ProcedureName)
	assert.Equal(t, core.SourceRankingLabel, result.Suggestions[0].Source)
	assert.Equal(t, 1.0, result.Suggestions[0].SimilarityScore)
}

func TestService_ModelUnavailable(t *testing.T) {
	primary := mock.NewMockLoader("primary")
	primary.LoadErr = errors.New("corrupt weights")
	fallback := mock.NewMockLoader("fallback")
	fallback.LoadErr = errors.New("service down")

	svc, err := Open(testConfig(t), WithLoaders(primary, fallback))
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.Warm(context.Background())
	assert.ErrorIs(t, err, core.ErrModelUnavailable)
	assert.Equal(t, embedding.StateFailed, svc.State())

	result := svc.Suggest(context.Background(), "hộ chiếu", 4, 0.5)
	assert.Equal(t, suggest.ErrorTag, result.Error)
	assert.Empty(t, result.Suggestions)
}

func TestService_WarmFillsCache(t *testing.T) {
	cache, err := badger.NewMemoryCache()
	require.NoError(t, err)
	defer cache.Close()

	loader := pinnedLoader()
	svc, err := Open(testConfig(t), WithLoaders(nil, loader), WithCache(cache))
	require.NoError(t, err)

	snap, err := svc.Warm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Len())
	require.NoError(t, svc.Close())

	vectors, err := cache.GetVectors(context.Background(), "test-model", []string{core.ContentHash(idCard)})
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0}, vectors[core.ContentHash(idCard)])
}

func TestService_EnrichmentToggle(t *testing.T) {
	enricher := mock.NewMockEnricher()
	enricher.EnrichLinkFunc = func(context.Context, core.ProcedureRecord, string) (string, error) {
		return "https://dichvucong.gov.vn/p/1", nil
	}

	cfg := testConfig(t)
	svc, err := Open(cfg, WithLoaders(nil, pinnedLoader()), WithEnricher(enricher))
	require.NoError(t, err)
	result := svc.Suggest(context.Background(), "lam can cuoc", 1, 0.5)
	require.Len(t, result.Suggestions, 1)
	assert.NotEqual(t, "https://dichvucong.gov.vn/p/1", result.Suggestions[0].Link)
	assert.Equal(t, 0, enricher.CallCount())
	require.NoError(t, svc.Close())

	cfg.LinkEnrichment = true
	svc, err = Open(cfg, WithLoaders(nil, pinnedLoader()), WithEnricher(enricher))
	require.NoError(t, err)
	defer svc.Close()
	result = svc.Suggest(context.Background(), "lam can cuoc", 1, 0.5)
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "https://dichvucong.gov.vn/p/1", result.Suggestions[0].Link)
}

func TestOpen_PersistentCacheDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.CacheDir = filepath.Join(t.TempDir(), "cache")

	svc, err := Open(cfg, WithLoaders(nil, pinnedLoader()))
	require.NoError(t, err)
	_, err = svc.Warm(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	loader := pinnedLoader()
	svc, err = Open(cfg, WithLoaders(nil, loader))
	require.NoError(t, err)
	defer svc.Close()
	_, err = svc.Warm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, loader.Embedder.TextCount(), "catalog vectors come from the cache")
}

func TestService_WarmRebuild(t *testing.T) {
	cfg := testConfig(t)
	cfg.CacheDir = filepath.Join(t.TempDir(), "cache")

	svc, err := Open(cfg, WithLoaders(nil, pinnedLoader()))
	require.NoError(t, err)
	_, err = svc.Warm(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	loader := pinnedLoader()
	svc, err = Open(cfg, WithLoaders(nil, loader), WithRebuild(true))
	require.NoError(t, err)
	defer svc.Close()
	snap, err := svc.Warm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, loader.Embedder.TextCount(), "rebuild re-embeds the whole catalog")
	assert.Equal(t, []float32{0, 1, 0}, snap.Vector(1))
}
