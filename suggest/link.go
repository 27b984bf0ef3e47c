package suggest

import (
	"strings"

	"github.com/poiesic/procsuggest/core"
)

// LinkBuilder generates reference links of the form
// {BaseURL}/{id}-{slug}.
type LinkBuilder struct {
	BaseURL string
}

// Build returns the link for a procedure. Without an id the slug stands
// alone; without a base URL the path segment is returned as is.
func (b LinkBuilder) Build(id core.ProcedureID, name string) string {
	segment := core.Slugify(name)
	if id != "" {
		segment = string(id) + "-" + segment
	}
	base := strings.TrimRight(b.BaseURL, "/")
	if base == "" {
		return segment
	}
	return base + "/" + segment
}
