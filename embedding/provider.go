// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package embedding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/procsuggest/ai"
	"github.com/poiesic/procsuggest/catalog"
	"github.com/poiesic/procsuggest/core"
	"github.com/poiesic/procsuggest/ranking"
	"github.com/poiesic/procsuggest/storage"
)

const (
	defaultBatchSize  = 32
	defaultMaxRetries = 3
	defaultRetryDelay = 500 * time.Millisecond
)

// Provider lazily loads the embedding model and the catalog matrix.
// Initialization runs at most once; concurrent first callers wait for it.
type Provider struct {
	primary  ai.ModelLoader
	fallback ai.ModelLoader

	catalogPath string
	rankingPath string
	cache       storage.EmbeddingCache
	rebuild     bool
	pool        *ants.Pool
	batchSize   int
	maxRetries  int
	retryDelay  time.Duration
	progress    io.Writer
	logger      *slog.Logger

	mu       sync.Mutex
	state    atomic.Int32
	snapshot atomic.Pointer[Snapshot]
	err      error
	closed   bool

	// Parts kept from an attempt whose precompute failed, so a retry
	// does not reload the model.
	pending *pendingLoad
}

type pendingLoad struct {
	records  []core.ProcedureRecord
	labels   *ranking.Index
	embedder ai.Embedder
	modelID  string
}

// Option configures a Provider.
type Option func(*Provider) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "embedding-provider")
		return nil
	}
}

// WithCatalogPath sets the catalog file.
func WithCatalogPath(path string) Option {
	return func(p *Provider) error {
		p.catalogPath = path
		return nil
	}
}

// WithRankingPath sets the ranking label file. Empty disables labels.
func WithRankingPath(path string) Option {
	return func(p *Provider) error {
		p.rankingPath = path
		return nil
	}
}

// WithCache sets a persistent cache for catalog vectors.
func WithCache(cache storage.EmbeddingCache) Option {
	return func(p *Provider) error {
		p.cache = cache
		return nil
	}
}

// WithRebuild discards the active model's cached vectors before the
// catalog is embedded, so every row is embedded afresh.
func WithRebuild(rebuild bool) Option {
	return func(p *Provider) error {
		p.rebuild = rebuild
		return nil
	}
}

// WithPoolSize sets the worker pool size used to embed the catalog.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Provider) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many catalog names go into one embedding call.
func WithBatchSize(size int) Option {
	return func(p *Provider) error {
		if size < 1 {
			return fmt.Errorf("batch size must be positive, got %d", size)
		}
		p.batchSize = size
		return nil
	}
}

// WithRetry sets retry behavior for embedding calls during precompute.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Provider) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.maxRetries = maxAttempts
		p.retryDelay = baseDelay
		return nil
	}
}

// WithProgress reports precompute progress to w.
func WithProgress(w io.Writer) Option {
	return func(p *Provider) error {
		p.progress = w
		return nil
	}
}

// NewProvider creates a provider. primary may be nil, in which case the
// fallback model is loaded directly.
func NewProvider(primary, fallback ai.ModelLoader, opts ...Option) (*Provider, error) {
	if fallback == nil {
		return nil, ErrFallbackLoaderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		primary:    primary,
		fallback:   fallback,
		pool:       pool,
		batchSize:  defaultBatchSize,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		logger:     slog.Default().With("component", "embedding-provider"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.pool.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// State returns the current lifecycle state.
func (p *Provider) State() State {
	return State(p.state.Load())
}

// EnsureReady initializes the provider on first use and returns the ready
// snapshot. Once ready, calls return immediately without locking.
//
// A failure of both models is permanent: every later call returns the same
// error without retrying. Cancellation of ctx and precompute failures are
// not permanent; the next call resumes from the loaded model.
func (p *Provider) EnsureReady(ctx context.Context) (*Snapshot, error) {
	if snap := p.snapshot.Load(); snap != nil {
		return snap, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if snap := p.snapshot.Load(); snap != nil {
		return snap, nil
	}
	if p.closed {
		return nil, ErrProviderClosed
	}
	if p.err != nil {
		return nil, p.err
	}

	p.state.Store(int32(StateLoading))
	start := time.Now()

	if p.pending == nil {
		records := p.loadCatalog()
		labels := p.loadLabels()

		embedder, modelID, err := p.loadModel(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				p.state.Store(int32(StateUninitialized))
				return nil, ctxErr
			}
			p.err = err
			p.state.Store(int32(StateFailed))
			p.logger.Error("embedding provider failed", "err", err)
			return nil, err
		}
		p.pending = &pendingLoad{records: records, labels: labels, embedder: embedder, modelID: modelID}
	}

	matrix, err := p.precompute(ctx, p.pending.embedder, p.pending.modelID, p.pending.records)
	if err != nil {
		p.state.Store(int32(StateUninitialized))
		p.logger.Warn("catalog precompute failed, will retry on next use", "model", p.pending.modelID, "err", err)
		return nil, err
	}

	snap, err := NewSnapshot(p.pending.records, p.pending.labels, matrix, p.pending.embedder, p.pending.modelID)
	if err != nil {
		p.state.Store(int32(StateUninitialized))
		return nil, err
	}
	p.pending = nil
	p.snapshot.Store(snap)
	p.state.Store(int32(StateReady))

	p.logger.Info("embedding provider ready",
		"model", snap.ModelID(),
		"procedures", snap.Len(),
		"label_keys", snap.Labels().Len(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return snap, nil
}

// loadCatalog substitutes the placeholder row when the catalog cannot be
// read, so the index is never empty.
func (p *Provider) loadCatalog() []core.ProcedureRecord {
	records, err := catalog.Load(p.catalogPath)
	if err != nil {
		p.logger.Error("catalog unavailable, using placeholder", "path", p.catalogPath, "err", err)
		return catalog.Placeholder()
	}
	if len(records) == 0 {
		p.logger.Warn("catalog has no procedures, using placeholder", "path", p.catalogPath)
		return catalog.Placeholder()
	}
	return records
}

// loadLabels degrades to an empty index on any failure.
func (p *Provider) loadLabels() *ranking.Index {
	if p.rankingPath == "" {
		p.logger.Info("no ranking file configured, label lookups disabled")
		return ranking.Empty()
	}
	idx, err := ranking.Build(p.rankingPath)
	if err != nil {
		p.logger.Warn("ranking labels unavailable, using embeddings only", "path", p.rankingPath, "err", err)
		return ranking.Empty()
	}
	return idx
}

func (p *Provider) loadModel(ctx context.Context) (ai.Embedder, string, error) {
	var primaryErr error
	if p.primary != nil {
		embedder, err := p.loadPrimary(ctx)
		if err == nil {
			p.logger.Info("primary embedding model loaded", "model", p.primary.ModelID())
			return embedder, p.primary.ModelID(), nil
		}
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		primaryErr = err
		p.logger.Warn("primary embedding model unavailable, loading fallback",
			"model", p.primary.ModelID(), "err", err)
	}

	embedder, err := p.fallback.Load(ctx)
	if err != nil {
		return nil, "", errors.Join(core.ErrModelUnavailable, primaryErr, err)
	}
	p.logger.Info("fallback embedding model loaded", "model", p.fallback.ModelID())
	return embedder, p.fallback.ModelID(), nil
}

// loadPrimary skips the load entirely when required artifacts are missing.
func (p *Provider) loadPrimary(ctx context.Context) (ai.Embedder, error) {
	if checker, ok := p.primary.(ai.ArtifactChecker); ok {
		if err := checker.CheckArtifacts(); err != nil {
			return nil, err
		}
	}
	embedder, err := p.primary.Load(ctx)
	if err != nil {
		if errors.Is(err, core.ErrModelLoad) || errors.Is(err, core.ErrMissingArtifacts) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", core.ErrModelLoad, err)
	}
	return embedder, nil
}

// Close releases the worker pool and the loaded model. The provider cannot
// be used afterwards.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	if p.pool != nil {
		p.pool.Release()
	}

	var embedder ai.Embedder
	if snap := p.snapshot.Load(); snap != nil {
		embedder = snap.embedder
	} else if p.pending != nil {
		embedder = p.pending.embedder
	}
	if closer, ok := embedder.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
