package suggest

import (
	"github.com/poiesic/procsuggest/core"
)

// SuggestMonitor provides hooks to observe a suggestion request.
// Implement this interface to trace intermediate results.
type SuggestMonitor interface {
	Start(query, key string)
	AfterLabelPass(hits []core.Suggestion, labelCount int)
	AfterEmbeddingPass(candidates int, accepted []core.Suggestion)
	SkippedDuplicate(name string)
	Finish(result *core.SuggestionResult)
}

// noopMonitor is a no-op implementation of SuggestMonitor
type noopMonitor struct{}

var _ SuggestMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ string)                             {}
func (n *noopMonitor) AfterLabelPass(_ []core.Suggestion, _ int)     {}
func (n *noopMonitor) AfterEmbeddingPass(_ int, _ []core.Suggestion) {}
func (n *noopMonitor) SkippedDuplicate(_ string)                     {}
func (n *noopMonitor) Finish(_ *core.SuggestionResult)               {}
