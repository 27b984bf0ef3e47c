package suggest

import (
	"testing"

	"github.com/poiesic/procsuggest/core"
	"github.com/stretchr/testify/assert"
)

func TestLinkBuilder_Build(t *testing.T) {
	tests := []struct {
		name string
		base string
		id   core.ProcedureID
		proc string
		want string
	}{
		{
			name: "id and base",
			base: "https://dichvucong.gov.vn/thu-tuc",
			id:   "2",
			proc: "Cấp căn cước công dân",
			want: "https://dichvucong.gov.vn/thu-tuc/2-cấp-căn-cước-công-dân",
		},
		{
			name: "trailing slashes trimmed",
			base: "https://x.test//",
			id:   "7",
			proc: "Đăng ký kết hôn",
			want: "https://x.test/7-đăng-ký-kết-hôn",
		},
		{
			name: "no id",
			base: "https://x.test",
			proc: "Cấp giấy khai sinh (bản sao)",
			want: "https://x.test/cấp-giấy-khai-sinh-bản-sao",
		},
		{
			name: "no base",
			id:   "1.000123",
			proc: "Khai tử",
			want: "1.000123-khai-tử",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LinkBuilder{BaseURL: tt.base}.Build(tt.id, tt.proc)
			assert.Equal(t, tt.want, got)
		})
	}
}
