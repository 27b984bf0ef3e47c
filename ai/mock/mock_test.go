package mock

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/poiesic/procsuggest/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	ctx := context.Background()
	m := NewMockEmbedder()

	a, err := m.EmbedText(ctx, "khai sinh")
	require.NoError(t, err)
	b, err := m.EmbedText(ctx, "khai sinh")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 384)

	var sum float64
	for _, v := range a {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5, "vectors are unit length")
	assert.Equal(t, 2, m.CallCount())
}

func TestMockEmbedder_PinnedVectors(t *testing.T) {
	ctx := context.Background()
	m := NewMockEmbedder().WithVector("a", []float32{1, 0})

	vectors, err := m.EmbedTexts(ctx, []string{"a", "b"})
	require.NoError(t, err)

	assert.Equal(t, []float32{1, 0}, vectors[0])
	assert.Len(t, vectors[1], 384)
	assert.Equal(t, 1, m.CallCount())
	assert.Equal(t, 2, m.TextCount())

	m.Reset()
	assert.Equal(t, 0, m.CallCount())
	v, err := m.EmbedText(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, v, 384, "pins are cleared by Reset")
}

func TestMockLoader(t *testing.T) {
	ctx := context.Background()

	l := NewMockLoader("m1")
	assert.Equal(t, "m1", l.ModelID())
	require.NoError(t, l.CheckArtifacts())

	e, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Same(t, l.Embedder, e)

	l.LoadErr = errors.New("no model")
	_, err = l.Load(ctx)
	require.Error(t, err)

	l.ArtifactErr = core.ErrMissingArtifacts
	assert.ErrorIs(t, l.CheckArtifacts(), core.ErrMissingArtifacts)

	assert.Equal(t, 2, l.LoadCount())
	assert.Equal(t, 2, l.CheckCount())
}

func TestMockEnricher(t *testing.T) {
	ctx := context.Background()
	m := NewMockEnricher()

	link, err := m.EnrichLink(ctx, core.ProcedureRecord{}, "https://x.test/1")
	require.NoError(t, err)
	assert.Equal(t, "https://x.test/1", link)

	m.EnrichLinkFunc = func(context.Context, core.ProcedureRecord, string) (string, error) {
		return "https://gov.test/1", nil
	}
	link, err = m.EnrichLink(ctx, core.ProcedureRecord{}, "https://x.test/1")
	require.NoError(t, err)
	assert.Equal(t, "https://gov.test/1", link)
	assert.Equal(t, 2, m.CallCount())
}
