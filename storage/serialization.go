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

package storage

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// VectorEntry is the stored form of one cached embedding.
type VectorEntry struct {
	Model    string    `msgpack:"m"`
	Hash     string    `msgpack:"h"`
	Vector   []float32 `msgpack:"v"`
	StoredAt time.Time `msgpack:"t"`
}

// MarshalVectorEntry serializes a VectorEntry to bytes.
func MarshalVectorEntry(entry *VectorEntry) ([]byte, error) {
	data, err := msgpack.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalVectorEntry deserializes a VectorEntry from bytes.
func UnmarshalVectorEntry(data []byte) (*VectorEntry, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	var entry VectorEntry
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if len(entry.Vector) == 0 {
		return nil, fmt.Errorf("%w: entry %s has no vector", ErrTruncatedData, entry.Hash)
	}
	return &entry, nil
}
