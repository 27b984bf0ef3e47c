package core

import (
	"encoding/json"
	"testing"
)

func TestContentHash(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "ascii content", content: "test content"},
		{name: "empty string", content: ""},
		{name: "vietnamese content", content: "Cấp giấy khai sinh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h1 := ContentHash(tt.content)
			h2 := ContentHash(tt.content)

			if h1 != h2 {
				t.Errorf("ContentHash() produced different hashes for same content: %s vs %s", h1, h2)
			}
			if len(h1) != 32 {
				t.Errorf("ContentHash() length = %d, want 32", len(h1))
			}
		})
	}
}

func TestContentHash_Different(t *testing.T) {
	if ContentHash("content1") == ContentHash("content2") {
		t.Errorf("ContentHash() produced same hash for different content")
	}
}

func TestProcedureID_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		id   ProcedureID
		want string
	}{
		{name: "integer id", id: "42", want: `42`},
		{name: "negative integer id", id: "-3", want: `-3`},
		{name: "string id", id: "1.001234", want: `"1.001234"`},
		{name: "alphanumeric id", id: "TTHC-7", want: `"TTHC-7"`},
		{name: "empty id", id: "", want: `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.id)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestProcedureID_UnmarshalJSON(t *testing.T) {
	var fromNumber, fromString ProcedureID
	if err := json.Unmarshal([]byte(`7`), &fromNumber); err != nil {
		t.Fatalf("Unmarshal(number) error = %v", err)
	}
	if err := json.Unmarshal([]byte(`"TTHC-7"`), &fromString); err != nil {
		t.Fatalf("Unmarshal(string) error = %v", err)
	}
	if fromNumber != "7" {
		t.Errorf("fromNumber = %q, want %q", fromNumber, "7")
	}
	if fromString != "TTHC-7" {
		t.Errorf("fromString = %q, want %q", fromString, "TTHC-7")
	}
}

func TestSuggestionResult_JSONShape(t *testing.T) {
	label := 3
	result := SuggestionResult{
		Suggestions: []Suggestion{{
			ProcedureInternalID: "2",
			ProcedureName:       "Cấp căn cước công dân",
			Label:               &label,
			SimilarityScore:     1.0,
			Source:              SourceRankingLabel,
			Link:                "https://example.test/2-cấp-căn-cước-công-dân",
		}},
		Explanation:     "ok",
		TotalCandidates: 1,
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := decoded["error"]; ok {
		t.Errorf("error field should be omitted on success")
	}
	for _, key := range []string{"suggestions", "explanation", "total_candidates"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing field %q", key)
		}
	}

	first := decoded["suggestions"].([]any)[0].(map[string]any)
	if first["procedure_internal_id"] != float64(2) {
		t.Errorf("procedure_internal_id = %v, want 2", first["procedure_internal_id"])
	}
	if first["procedure_code"] != nil {
		t.Errorf("procedure_code = %v, want null", first["procedure_code"])
	}
	if first["source"] != "ranking_label" {
		t.Errorf("source = %v, want ranking_label", first["source"])
	}
}
