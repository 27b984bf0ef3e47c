package core

import "testing"

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lower-cases", input: "CAN CUOC", want: "can cuoc"},
		{name: "strips punctuation", input: "làm căn cước?", want: "lam can cuoc"},
		{name: "folds diacritics", input: "Làm căn cước", want: "lam can cuoc"},
		{name: "maps d with stroke", input: "Đăng ký kết hôn", want: "dang ky ket hon"},
		{name: "trims", input: "  khai sinh!  ", want: "khai sinh"},
		{name: "keeps digits and underscore", input: "mẫu_01, tờ khai", want: "mau_01 to khai"},
		{name: "keeps inner whitespace", input: "a  b", want: "a  b"},
		{name: "punctuation only", input: "?!...", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeQuery(tt.input); got != tt.want {
				t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeQuery_SameKeyForAccentedAndPlain(t *testing.T) {
	if NormalizeQuery("Làm căn cước?") != NormalizeQuery("lam can cuoc") {
		t.Errorf("accented and plain queries should share a key")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "ascii", input: "Birth Certificate", want: "birth-certificate"},
		{name: "keeps accented letters", input: "Cấp căn cước", want: "cấp-căn-cước"},
		{name: "strips punctuation", input: "Cấp (lại) hộ chiếu.", want: "cấp-lại-hộ-chiếu"},
		{name: "keeps hyphen", input: "Đăng ký - thay đổi", want: "đăng-ký---thay-đổi"},
		{name: "each space becomes a hyphen", input: "a  b\tc", want: "a--b-c"},
		{name: "drops underscore", input: "Giấy_phép lái xe", want: "giấyphép-lái-xe"},
		{name: "trims", input: "  Khai tử ", want: "khai-tử"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
