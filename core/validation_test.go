package core

import (
	"errors"
	"testing"
)

func TestValidateProcedure(t *testing.T) {
	tests := []struct {
		name    string
		record  *ProcedureRecord
		wantErr error
	}{
		{
			name:    "valid record",
			record:  &ProcedureRecord{ID: "1", Name: "Cấp giấy khai sinh"},
			wantErr: nil,
		},
		{
			name:    "valid record without id",
			record:  &ProcedureRecord{Name: "Cấp giấy khai sinh"},
			wantErr: nil,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidProcedure,
		},
		{
			name:    "empty name",
			record:  &ProcedureRecord{ID: "1"},
			wantErr: ErrEmptyName,
		},
		{
			name:    "blank name",
			record:  &ProcedureRecord{ID: "1", Name: "   "},
			wantErr: ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProcedure(tt.record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateProcedure() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateProcedure() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidProcedure) {
				t.Errorf("ValidateProcedure() error = %v, should wrap ErrInvalidProcedure", err)
			}
		})
	}
}

func TestValidateLabel(t *testing.T) {
	valid := func() *RankingLabel {
		return &RankingLabel{
			QueryText:     "Làm căn cước?",
			Key:           "lam can cuoc",
			ProcedureID:   "2",
			ProcedureName: "Cấp căn cước công dân",
			Label:         1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(l *RankingLabel) *RankingLabel
		wantErr error
	}{
		{
			name:    "valid label",
			mutate:  func(l *RankingLabel) *RankingLabel { return l },
			wantErr: nil,
		},
		{
			name:    "nil label",
			mutate:  func(*RankingLabel) *RankingLabel { return nil },
			wantErr: ErrInvalidLabel,
		},
		{
			name:    "empty key",
			mutate:  func(l *RankingLabel) *RankingLabel { l.Key = ""; return l },
			wantErr: ErrEmptyKey,
		},
		{
			name:    "empty procedure id",
			mutate:  func(l *RankingLabel) *RankingLabel { l.ProcedureID = ""; return l },
			wantErr: ErrEmptyProcedureID,
		},
		{
			name:    "zero label",
			mutate:  func(l *RankingLabel) *RankingLabel { l.Label = 0; return l },
			wantErr: ErrNonPositiveLabel,
		},
		{
			name:    "negative label",
			mutate:  func(l *RankingLabel) *RankingLabel { l.Label = -2; return l },
			wantErr: ErrNonPositiveLabel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.mutate(valid()))
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateLabel() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateLabel() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
