package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/procsuggest/ai"
	"github.com/poiesic/procsuggest/core"
	"github.com/poiesic/procsuggest/embedding"
)

// Defaults used by SuggestDefault.
const (
	DefaultTopK      = 4
	DefaultThreshold = 0.5
)

// Source provides the ready snapshot. *embedding.Provider implements it.
type Source interface {
	EnsureReady(ctx context.Context) (*embedding.Snapshot, error)
}

var _ Source = (*embedding.Provider)(nil)

// Engine produces suggestions for citizen queries.
// It is safe for concurrent use.
type Engine struct {
	source    Source
	links     LinkBuilder
	enricher  ai.LinkEnricher
	enrich    bool
	topK      int
	threshold float64
	monitor   SuggestMonitor
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger.With("component", "suggest")
		return nil
	}
}

// WithLinkBaseURL sets the base URL for generated links.
func WithLinkBaseURL(base string) Option {
	return func(e *Engine) error {
		e.links = LinkBuilder{BaseURL: base}
		return nil
	}
}

// WithLinkEnricher sets the link post-processor. It is only called when
// enabled is true.
func WithLinkEnricher(enricher ai.LinkEnricher, enabled bool) Option {
	return func(e *Engine) error {
		if enricher == nil {
			enricher = ai.NoopEnricher{}
		}
		e.enricher = enricher
		e.enrich = enabled
		return nil
	}
}

// WithDefaults sets the top-K and threshold used by SuggestDefault.
func WithDefaults(topK int, threshold float64) Option {
	return func(e *Engine) error {
		e.topK = topK
		e.threshold = threshold
		return nil
	}
}

// WithMonitor sets a monitor that observes every request.
func WithMonitor(monitor SuggestMonitor) Option {
	return func(e *Engine) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		e.monitor = monitor
		return nil
	}
}

// NewEngine creates an engine over source.
func NewEngine(source Source, opts ...Option) (*Engine, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}

	e := &Engine{
		source:    source,
		enricher:  ai.NoopEnricher{},
		topK:      DefaultTopK,
		threshold: DefaultThreshold,
		monitor:   &noopMonitor{},
		logger:    slog.Default().With("component", "suggest"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// SuggestDefault calls Suggest with the engine's default top-K and threshold.
func (e *Engine) SuggestDefault(ctx context.Context, query string) *core.SuggestionResult {
	return e.Suggest(ctx, query, e.topK, e.threshold)
}

// Suggest returns up to topK procedures for query. Label hits come first,
// then embedding hits scoring at least threshold. threshold is used as
// given, without clamping. The result is never nil and failures are
// reported through its Error field.
func (e *Engine) Suggest(ctx context.Context, query string, topK int, threshold float64) (result *core.SuggestionResult) {
	start := time.Now()
	logger := e.logger.With("request_id", uuid.NewString())
	key := core.NormalizeQuery(query)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("suggest panicked", "panic", r)
			result = unavailable()
		}
		e.monitor.Finish(result)
		logger.Info("suggest finished",
			"key", key,
			"suggestions", len(result.Suggestions),
			"total_candidates", result.TotalCandidates,
			"error", result.Error,
			"elapsed", time.Since(start).Round(time.Microsecond))
	}()

	e.monitor.Start(query, key)

	if topK <= 0 || strings.TrimSpace(query) == "" {
		return answer(nil, 0)
	}

	snap, err := e.source.EnsureReady(ctx)
	if err != nil {
		logger.Error("embedding provider unavailable", "err", err)
		return unavailable()
	}

	suggestions, total, err := e.rank(ctx, logger, snap, query, key, topK, threshold)
	if err != nil {
		logger.Error("ranking failed", "err", err)
		return unavailable()
	}
	return answer(suggestions, total)
}

func (e *Engine) rank(ctx context.Context, logger *slog.Logger, snap *embedding.Snapshot, query, key string, topK int, threshold float64) ([]core.Suggestion, int, error) {
	labels := snap.Labels().LookupKey(key)

	// topK comes from the caller; never size buffers by it alone.
	size := min(topK, len(labels)+snap.Len())
	suggestions := make([]core.Suggestion, 0, size)
	seen := make(map[string]struct{}, size)

	total := len(labels)
	for _, l := range labels {
		if len(suggestions) == topK {
			break
		}
		if _, dup := seen[l.ProcedureName]; dup {
			e.monitor.SkippedDuplicate(l.ProcedureName)
			continue
		}
		seen[l.ProcedureName] = struct{}{}

		record := core.ProcedureRecord{ID: l.ProcedureID, Name: l.ProcedureName, Code: l.ProcedureCode}
		label := l.Label
		suggestions = append(suggestions, core.Suggestion{
			ProcedureInternalID: l.ProcedureID,
			ProcedureName:       l.ProcedureName,
			ProcedureCode:       optional(l.ProcedureCode),
			Label:               &label,
			SimilarityScore:     1.0,
			Source:              core.SourceRankingLabel,
			Link:                e.link(ctx, logger, record),
		})
	}
	e.monitor.AfterLabelPass(slices.Clone(suggestions), len(labels))

	if len(suggestions) >= topK {
		return suggestions, total, nil
	}

	vector, err := snap.EmbedQuery(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("embed query: %w", err)
	}

	type candidate struct {
		row   int
		score float64
	}
	var candidates []candidate
	for i := 0; i < snap.Len(); i++ {
		if snap.Record(i).Placeholder {
			continue
		}
		if score := core.CosineSimilarity(vector, snap.Vector(i)); score >= threshold {
			candidates = append(candidates, candidate{row: i, score: score})
		}
	}
	total += len(candidates)

	// Stable: equal scores keep catalog order.
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})

	labelHits := len(suggestions)
	for _, c := range candidates {
		if len(suggestions) == topK {
			break
		}
		record := snap.Record(c.row)
		if _, dup := seen[record.Name]; dup {
			e.monitor.SkippedDuplicate(record.Name)
			continue
		}
		seen[record.Name] = struct{}{}

		suggestions = append(suggestions, core.Suggestion{
			ProcedureInternalID: record.ID,
			ProcedureName:       record.Name,
			ProcedureCode:       optional(record.Code),
			SimilarityScore:     c.score,
			Source:              core.SourceEmbedding,
			Link:                e.link(ctx, logger, record),
		})
	}
	e.monitor.AfterEmbeddingPass(len(candidates), slices.Clone(suggestions[labelHits:]))

	return suggestions, total, nil
}

// link builds the generated link and, when enabled, lets the enricher
// replace it. Enrichment failures keep the generated link.
func (e *Engine) link(ctx context.Context, logger *slog.Logger, record core.ProcedureRecord) string {
	generated := e.links.Build(record.ID, record.Name)
	if !e.enrich {
		return generated
	}
	enriched, err := e.enricher.EnrichLink(ctx, record, generated)
	if err != nil {
		logger.Warn("link enrichment failed, using generated link", "procedure_id", record.ID, "err", err)
		return generated
	}
	if enriched == "" {
		return generated
	}
	return enriched
}

func answer(suggestions []core.Suggestion, total int) *core.SuggestionResult {
	if suggestions == nil {
		suggestions = []core.Suggestion{}
	}
	explanation := ExplanationFound
	if len(suggestions) == 0 {
		explanation = ExplanationNoMatch
	}
	return &core.SuggestionResult{
		Suggestions:     suggestions,
		Explanation:     explanation,
		TotalCandidates: total,
	}
}

func unavailable() *core.SuggestionResult {
	return &core.SuggestionResult{
		Suggestions: []core.Suggestion{},
		Explanation: ExplanationUnavailable,
		Error:       ErrorTag,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
