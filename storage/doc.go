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

// Package storage provides the storage abstraction layer for procsuggest.
//
// The only persisted state is the embedding cache: catalog vectors computed
// by a model are written once and reused on the next start, so a warm cache
// turns model loading plus a full catalog re-embed into a single read.
//
// # Constructor Return Type Pattern
//
// Public constructors return the interface to keep callers decoupled from
// the BadgerDB implementation:
//
//	cache, err := badger.OpenCache(dir)  // returns storage.EmbeddingCache
//
// # Usage
//
//	cache, err := badger.OpenCache("/var/cache/procsuggest")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cache.Close()
//
// Use in tests with in-memory storage:
//
//	cache, err := badger.NewMemoryCache()
//
// # Thread Safety
//
// All implementations must be thread-safe and support concurrent access
// from multiple goroutines.
package storage
