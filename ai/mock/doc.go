// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.ModelLoader,
// ai.ArtifactChecker and ai.LinkEnricher for use in unit tests. The mocks
// allow tests to run without model files or services and give controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// A loader whose embedder returns fixed vectors
//	loader := mock.NewMockLoader("test-model")
//	loader.Embedder.WithVector("làm căn cước", []float32{1, 0})
//
//	// A primary model with missing files
//	primary := mock.NewMockLoader("primary")
//	primary.ArtifactErr = core.ErrMissingArtifacts
//
//	// Check call counts
//	count := loader.LoadCount()
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic unit vectors based on text hash
//   - MockLoader: Returns its MockEmbedder
//   - MockEnricher: Returns the generated link unchanged
package mock
