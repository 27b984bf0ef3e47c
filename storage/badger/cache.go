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

package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/procsuggest/storage"
)

// Cache implements storage.EmbeddingCache on BadgerDB. It owns its backend.
type Cache struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.EmbeddingCache = (*Cache)(nil)

// OpenCache opens (or creates) an on-disk cache in dir.
//
// Returns storage.EmbeddingCache interface to enforce abstraction.
func OpenCache(dir string) (storage.EmbeddingCache, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: cache directory is required", storage.ErrInvalidQuery)
	}
	backend, err := OpenBackend(dir, false)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", dir, err)
	}
	return newCache(backend), nil
}

func newCache(backend *Backend) *Cache {
	return &Cache{
		backend: backend,
		logger:  slog.Default().With("component", "embedding-cache"),
	}
}

func (c *Cache) check(ctx context.Context, modelID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if modelID == "" {
		return fmt.Errorf("%w: model id is required", storage.ErrInvalidQuery)
	}
	return nil
}

// GetVectors returns the cached vectors for hashes. Entries that fail to
// decode are treated as misses.
func (c *Cache) GetVectors(ctx context.Context, modelID string, hashes []string) (map[string][]float32, error) {
	if err := c.check(ctx, modelID); err != nil {
		return nil, err
	}

	found := make(map[string][]float32, len(hashes))
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		for _, hash := range hashes {
			item, err := tx.Get(makeVectorKey(modelID, hash))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			var entry *storage.VectorEntry
			err = item.Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalVectorEntry(val)
				return err
			})
			if err != nil {
				c.logger.Warn("discarding unreadable cache entry", "hash", hash, "err", err)
				continue
			}
			if entry.Model != modelID || entry.Hash != hash {
				continue
			}
			found[hash] = entry.Vector
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("cache lookup", "model", modelID, "requested", len(hashes), "hits", len(found))
	return found, nil
}

// PutVectors stores vectors for modelID.
func (c *Cache) PutVectors(ctx context.Context, modelID string, vectors map[string][]float32) error {
	if err := c.check(ctx, modelID); err != nil {
		return err
	}
	if len(vectors) == 0 {
		return nil
	}

	now := time.Now().UTC()
	err := c.backend.WriteBatch(func(wb *badger.WriteBatch) error {
		for hash, vector := range vectors {
			data, err := storage.MarshalVectorEntry(&storage.VectorEntry{
				Model:    modelID,
				Hash:     hash,
				Vector:   vector,
				StoredAt: now,
			})
			if err != nil {
				return err
			}
			if err := wb.Set(makeVectorKey(modelID, hash), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.logger.Debug("cache store", "model", modelID, "vectors", len(vectors))
	return nil
}

// Purge removes every vector of modelID.
func (c *Cache) Purge(ctx context.Context, modelID string) (int, error) {
	if err := c.check(ctx, modelID); err != nil {
		return 0, err
	}

	prefix := makeVectorModelPrefix(modelID)
	count := 0
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}

	if err := c.backend.DropPrefix(prefix); err != nil {
		return 0, err
	}
	c.logger.Info("purged cached vectors", "model", modelID, "count", count)
	return count, nil
}

// Close closes the underlying backend.
func (c *Cache) Close() error {
	if c.backend.IsClosed() {
		return nil
	}
	return c.backend.Close()
}
