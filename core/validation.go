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

import (
	"fmt"
	"strings"
)

// ValidateProcedure validates a ProcedureRecord according to domain rules.
//
// Validation rules:
//   - Name must not be blank
//
// NOT validated:
//   - ID (the loader falls back to row position when the source has none)
//   - Code (optional)
func ValidateProcedure(record *ProcedureRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidProcedure)
	}

	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProcedure, ErrEmptyName)
	}

	return nil
}

// ValidateLabel validates a RankingLabel according to domain rules.
//
// Validation rules:
//   - Key must not be empty
//   - ProcedureID must not be empty
//   - Label must be strictly positive
func ValidateLabel(label *RankingLabel) error {
	if label == nil {
		return fmt.Errorf("%w: label is nil", ErrInvalidLabel)
	}

	if label.Key == "" {
		return fmt.Errorf("%w: %w", ErrInvalidLabel, ErrEmptyKey)
	}

	if label.ProcedureID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidLabel, ErrEmptyProcedureID)
	}

	if label.Label <= 0 {
		return fmt.Errorf("%w: %w: value %d", ErrInvalidLabel, ErrNonPositiveLabel, label.Label)
	}

	return nil
}
