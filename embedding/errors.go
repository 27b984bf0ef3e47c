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

import "errors"

var (
	// ErrFallbackLoaderRequired is returned when no fallback model loader is provided.
	ErrFallbackLoaderRequired = errors.New("fallback model loader required")

	// ErrInvalidMaxAttempts is returned when the retry attempt count is not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than 0")

	// ErrMisaligned is returned when a vector matrix does not match the catalog row count.
	ErrMisaligned = errors.New("embedding matrix does not match catalog")

	// ErrProviderClosed is returned by EnsureReady after Close.
	ErrProviderClosed = errors.New("embedding provider is closed")
)
