package embedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/poiesic/procsuggest/ai"
	"github.com/poiesic/procsuggest/core"
)

// precompute returns one vector per record, in record order. Cached vectors
// are reused; the rest are embedded in batches on the worker pool and then
// written back to the cache.
func (p *Provider) precompute(ctx context.Context, embedder ai.Embedder, modelID string, records []core.ProcedureRecord) ([][]float32, error) {
	matrix := make([][]float32, len(records))
	hashes := make([]string, len(records))
	for i, r := range records {
		hashes[i] = core.ContentHash(r.Name)
	}

	if p.rebuild {
		p.purgeCache(ctx, modelID)
	}
	missing := p.fillFromCache(ctx, modelID, hashes, matrix)
	if len(missing) == 0 {
		p.logger.Debug("catalog vectors served from cache", "model", modelID, "procedures", len(records))
		return matrix, nil
	}

	var tracker *ProgressTracker
	if p.progress != nil {
		tracker = NewProgressTracker(p.progress, len(missing), p.batchSize)
		tracker.Start()
	}

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		errMu.Lock()
		defer errMu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for start := 0; start < len(missing); start += p.batchSize {
		batch := missing[start:min(start+p.batchSize, len(missing))]
		texts := make([]string, len(batch))
		for j, idx := range batch {
			texts[j] = records[idx].Name
		}

		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			vectors, err := p.embedBatch(ctx, embedder, texts)
			if err != nil {
				fail(err)
				return
			}
			for j, idx := range batch {
				matrix[idx] = vectors[j]
			}
			if tracker != nil {
				tracker.Increment(len(batch))
			}
		})
		if err != nil {
			wg.Done()
			fail(fmt.Errorf("submit embedding batch: %w", err))
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if tracker != nil {
		tracker.Finish()
		p.logger.Debug("catalog embedding finished", "model", modelID, "elapsed", tracker.Elapsed())
	}

	p.storeInCache(ctx, modelID, hashes, missing, matrix)
	p.logger.Debug("catalog embedded",
		"model", modelID, "procedures", len(records), "embedded", len(missing), "cached", len(records)-len(missing))
	return matrix, nil
}

func (p *Provider) embedBatch(ctx context.Context, embedder ai.Embedder, texts []string) ([][]float32, error) {
	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vectors, err = embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return err
		}
		if len(vectors) != len(texts) {
			return fmt.Errorf("%w: model returned %d vectors for %d texts", ErrMisaligned, len(vectors), len(texts))
		}
		return nil
	}, p.maxRetries, p.retryDelay)
	if err != nil {
		return nil, fmt.Errorf("embed catalog batch: %w", err)
	}
	return vectors, nil
}

// fillFromCache copies cached vectors into matrix and returns the row
// indices still missing. Cache failures only cost a re-embed.
func (p *Provider) fillFromCache(ctx context.Context, modelID string, hashes []string, matrix [][]float32) []int {
	var cached map[string][]float32
	if p.cache != nil {
		var err error
		cached, err = p.cache.GetVectors(ctx, modelID, uniqueStrings(hashes))
		if err != nil {
			p.logger.Warn("embedding cache read failed", "model", modelID, "err", err)
			cached = nil
		}
	}

	var missing []int
	for i, h := range hashes {
		if v, ok := cached[h]; ok {
			matrix[i] = v
			continue
		}
		missing = append(missing, i)
	}
	return missing
}

// purgeCache runs once per provider; a retried precompute keeps what the
// first attempt stored.
func (p *Provider) purgeCache(ctx context.Context, modelID string) {
	p.rebuild = false
	if p.cache == nil {
		return
	}
	n, err := p.cache.Purge(ctx, modelID)
	if err != nil {
		p.logger.Warn("embedding cache purge failed", "model", modelID, "err", err)
		return
	}
	p.logger.Info("cached catalog vectors discarded", "model", modelID, "count", n)
}

func (p *Provider) storeInCache(ctx context.Context, modelID string, hashes []string, rows []int, matrix [][]float32) {
	if p.cache == nil {
		return
	}
	fresh := make(map[string][]float32, len(rows))
	for _, idx := range rows {
		fresh[hashes[idx]] = matrix[idx]
	}
	if err := p.cache.PutVectors(ctx, modelID, fresh); err != nil {
		p.logger.Warn("embedding cache write failed", "model", modelID, "err", err)
	}
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
