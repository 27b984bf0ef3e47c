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
package procsuggest

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/poiesic/procsuggest/ai"
	"github.com/poiesic/procsuggest/ai/local"
	"github.com/poiesic/procsuggest/ai/openai"
	"github.com/poiesic/procsuggest/config"
	"github.com/poiesic/procsuggest/core"
	"github.com/poiesic/procsuggest/embedding"
	"github.com/poiesic/procsuggest/storage"
	"github.com/poiesic/procsuggest/storage/badger"
	"github.com/poiesic/procsuggest/suggest"
)

// ErrConfigRequired is returned by Open given a nil config.
var ErrConfigRequired = errors.New("config is required")

// Service wires the embedding provider and the suggestion engine from a
// Config. It is safe for concurrent use.
type Service struct {
	config   *config.Config
	cache    storage.EmbeddingCache
	provider *embedding.Provider
	engine   *suggest.Engine
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	primary  ai.ModelLoader
	fallback ai.ModelLoader
	enricher ai.LinkEnricher
	cache    storage.EmbeddingCache
	monitor  suggest.SuggestMonitor
	progress io.Writer
	rebuild  bool
	logger   *slog.Logger
}

// WithLoaders replaces the model loaders built from the AI config.
func WithLoaders(primary, fallback ai.ModelLoader) Option {
	return func(o *serviceOptions) {
		o.primary = primary
		o.fallback = fallback
	}
}

// WithEnricher replaces the link enricher built from the AI config.
func WithEnricher(enricher ai.LinkEnricher) Option {
	return func(o *serviceOptions) {
		o.enricher = enricher
	}
}

// WithCache replaces the cache opened from Config.CacheDir. The Service
// does not close a cache passed this way.
func WithCache(cache storage.EmbeddingCache) Option {
	return func(o *serviceOptions) {
		o.cache = cache
	}
}

// WithMonitor sets the engine monitor.
func WithMonitor(monitor suggest.SuggestMonitor) Option {
	return func(o *serviceOptions) {
		o.monitor = monitor
	}
}

// WithProgress reports catalog precompute progress to w.
func WithProgress(w io.Writer) Option {
	return func(o *serviceOptions) {
		o.progress = w
	}
}

// WithRebuild discards cached catalog vectors of the active model before
// they are embedded.
func WithRebuild(rebuild bool) Option {
	return func(o *serviceOptions) {
		o.rebuild = rebuild
	}
}

// WithLogger sets the logger passed to every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// Open validates cfg and builds a Service. No model is loaded until the
// first Suggest or Warm call.
func Open(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &serviceOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	s := &Service{
		config: cfg,
		logger: options.logger.With("component", "procsuggest"),
	}

	var ownedCache storage.EmbeddingCache
	cache := options.cache
	if cache == nil && cfg.CacheDir != "" {
		var err error
		ownedCache, err = badger.OpenCache(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		cache = ownedCache
	}
	s.cache = ownedCache

	primary, fallback, err := loaders(cfg, options)
	if err != nil {
		s.closeCache()
		return nil, err
	}

	providerOpts := []embedding.Option{
		embedding.WithLogger(options.logger),
		embedding.WithCatalogPath(cfg.CatalogPath),
		embedding.WithRankingPath(cfg.RankingPath),
		embedding.WithPoolSize(cfg.PoolSize),
		embedding.WithProgress(options.progress),
		embedding.WithRebuild(options.rebuild),
	}
	if cache != nil {
		providerOpts = append(providerOpts, embedding.WithCache(cache))
	}
	s.provider, err = embedding.NewProvider(primary, fallback, providerOpts...)
	if err != nil {
		s.closeCache()
		return nil, err
	}

	enricher := options.enricher
	if enricher == nil && cfg.LinkEnrichment {
		enricher, err = openai.NewLinkEnricher(cfg.AI)
		if err != nil {
			s.provider.Close()
			s.closeCache()
			return nil, err
		}
	}

	s.engine, err = suggest.NewEngine(s.provider,
		suggest.WithLogger(options.logger),
		suggest.WithLinkBaseURL(cfg.LinkBaseURL),
		suggest.WithLinkEnricher(enricher, cfg.LinkEnrichment),
		suggest.WithDefaults(cfg.TopK, cfg.Threshold),
		suggest.WithMonitor(options.monitor),
	)
	if err != nil {
		s.provider.Close()
		s.closeCache()
		return nil, err
	}
	return s, nil
}

func loaders(cfg *config.Config, options *serviceOptions) (ai.ModelLoader, ai.ModelLoader, error) {
	if options.fallback != nil {
		return options.primary, options.fallback, nil
	}

	fallback, err := openai.NewEmbeddingLoader(cfg.AI)
	if err != nil {
		return nil, nil, err
	}
	primary, err := local.NewLoader(cfg.AI)
	if err != nil {
		return nil, nil, err
	}
	return primary, fallback, nil
}

// Suggest returns suggestions for query. It never returns an error; failures
// are reported in the result.
func (s *Service) Suggest(ctx context.Context, query string, topK int, threshold float64) *core.SuggestionResult {
	return s.engine.Suggest(ctx, query, topK, threshold)
}

// SuggestDefault uses the configured top-K and threshold.
func (s *Service) SuggestDefault(ctx context.Context, query string) *core.SuggestionResult {
	return s.engine.SuggestDefault(ctx, query)
}

// Warm loads the model and embeds the catalog ahead of the first query.
func (s *Service) Warm(ctx context.Context) (*embedding.Snapshot, error) {
	return s.provider.EnsureReady(ctx)
}

// State reports the provider lifecycle state.
func (s *Service) State() embedding.State {
	return s.provider.State()
}

// Close releases the provider and any cache opened by Open.
func (s *Service) Close() error {
	var errs []error
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing embedding provider", "err", err)
		errs = append(errs, err)
	}
	if err := s.closeCache(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Service) closeCache() error {
	if s.cache == nil {
		return nil
	}
	err := s.cache.Close()
	if err != nil {
		s.logger.Error("error closing embedding cache", "err", err)
	}
	s.cache = nil
	return err
}
