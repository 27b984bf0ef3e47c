package ai

import (
	"context"

	"github.com/poiesic/procsuggest/core"
)

// NoopEnricher keeps every generated link unchanged.
type NoopEnricher struct{}

var _ LinkEnricher = NoopEnricher{}

// EnrichLink returns generated.
func (NoopEnricher) EnrichLink(_ context.Context, _ core.ProcedureRecord, generated string) (string, error) {
	return generated, nil
}
