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


package core

import "errors"

// Load errors
var (
	// ErrCatalogLoad indicates the catalog file is unreadable or lacks the name column.
	ErrCatalogLoad = errors.New("catalog load failed")

	// ErrRankingSchema indicates the ranking file is missing a required column.
	ErrRankingSchema = errors.New("ranking schema invalid")

	// ErrModelLoad indicates a single embedding model failed to load.
	ErrModelLoad = errors.New("embedding model load failed")

	// ErrModelUnavailable indicates both the primary and fallback models failed.
	ErrModelUnavailable = errors.New("no embedding model available")

	// ErrMissingArtifacts indicates a model directory lacks required files.
	ErrMissingArtifacts = errors.New("model artifacts missing")
)

// Domain validation errors
var (
	// ErrInvalidProcedure indicates a ProcedureRecord failed validation.
	ErrInvalidProcedure = errors.New("invalid procedure record")

	// ErrInvalidLabel indicates a RankingLabel failed validation.
	ErrInvalidLabel = errors.New("invalid ranking label")

	// ErrEmptyName indicates a procedure name is empty.
	ErrEmptyName = errors.New("procedure name cannot be empty")

	// ErrEmptyKey indicates a normalized query key is empty.
	ErrEmptyKey = errors.New("query key cannot be empty")

	// ErrNonPositiveLabel indicates a relevance weight is zero or negative.
	ErrNonPositiveLabel = errors.New("label must be positive")

	// ErrEmptyProcedureID indicates a label carries no procedure identifier.
	ErrEmptyProcedureID = errors.New("procedure id cannot be empty")
)
