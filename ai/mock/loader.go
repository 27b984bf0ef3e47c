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


package mock

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/poiesic/procsuggest/ai"
)

// MockLoader is a test double for ai.ModelLoader and ai.ArtifactChecker.
type MockLoader struct {
	// ID is returned by ModelID.
	ID string

	// Embedder is returned by a successful Load.
	Embedder *MockEmbedder

	// LoadErr, when set, makes Load fail.
	LoadErr error

	// ArtifactErr, when set, makes CheckArtifacts fail.
	ArtifactErr error

	// Delay is slept inside Load to widen race windows in tests.
	Delay time.Duration

	loadCount  atomic.Int64
	checkCount atomic.Int64
}

var (
	_ ai.ModelLoader     = (*MockLoader)(nil)
	_ ai.ArtifactChecker = (*MockLoader)(nil)
)

// NewMockLoader creates a loader that succeeds with a fresh MockEmbedder.
func NewMockLoader(id string) *MockLoader {
	return &MockLoader{ID: id, Embedder: NewMockEmbedder()}
}

// ModelID returns ID.
func (l *MockLoader) ModelID() string {
	return l.ID
}

// Load returns Embedder or LoadErr.
func (l *MockLoader) Load(ctx context.Context) (ai.Embedder, error) {
	l.loadCount.Add(1)
	if l.Delay > 0 {
		select {
		case <-time.After(l.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if l.LoadErr != nil {
		return nil, l.LoadErr
	}
	return l.Embedder, nil
}

// CheckArtifacts returns ArtifactErr.
func (l *MockLoader) CheckArtifacts() error {
	l.checkCount.Add(1)
	return l.ArtifactErr
}

// LoadCount returns the number of Load calls.
func (l *MockLoader) LoadCount() int {
	return int(l.loadCount.Load())
}

// CheckCount returns the number of CheckArtifacts calls.
func (l *MockLoader) CheckCount() int {
	return int(l.checkCount.Load())
}
