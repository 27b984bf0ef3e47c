package mock

import (
	"context"
	"sync/atomic"

	"github.com/poiesic/procsuggest/ai"
	"github.com/poiesic/procsuggest/core"
)

// MockEnricher is a test double for ai.LinkEnricher.
// It allows custom behavior injection via function fields.
type MockEnricher struct {
	// EnrichLinkFunc is called by EnrichLink if set.
	// If nil, the generated link is returned unchanged.
	EnrichLinkFunc func(ctx context.Context, record core.ProcedureRecord, generated string) (string, error)

	callCount atomic.Int64
}

var _ ai.LinkEnricher = (*MockEnricher)(nil)

// NewMockEnricher creates a mock enricher with pass-through behavior.
func NewMockEnricher() *MockEnricher {
	return &MockEnricher{}
}

// EnrichLink delegates to EnrichLinkFunc or returns generated.
func (m *MockEnricher) EnrichLink(ctx context.Context, record core.ProcedureRecord, generated string) (string, error) {
	m.callCount.Add(1)
	if m.EnrichLinkFunc != nil {
		return m.EnrichLinkFunc(ctx, record, generated)
	}
	return generated, nil
}

// CallCount returns the number of EnrichLink calls.
func (m *MockEnricher) CallCount() int {
	return int(m.callCount.Load())
}
