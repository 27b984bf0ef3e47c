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

// Package suggest ranks catalog procedures for a free-text citizen query.
//
// The Engine runs two passes over a ready embedding snapshot:
//   - Label pass: curated query to procedure labels for the normalized
//     query, in source order, each scored 1.0
//   - Embedding pass: only when the label pass leaves room, cosine
//     similarity between the raw query and every catalog name, keeping
//     scores at or above the threshold
//
// Names already suggested are skipped, the list is capped at top-K, and
// every suggestion carries a generated reference link. Suggest never returns
// an error: failures become a result with the Error tag set and no
// suggestions.
package suggest
