package llm

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/futig/realty-advisor/internal/entity"
)

func cosine(a, b entity.Embedding) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / math.Sqrt(na*nb)
}

func TestMockConnector_EmbedIsDeterministic(t *testing.T) {
	m := NewMockConnector(64, 0, zap.NewNop())
	ctx := context.Background()

	a, err := m.Embed(ctx, "Dubai Marina prices rose 10% in 2023.")
	require.NoError(t, err)
	b, err := m.Embed(ctx, "Dubai Marina prices rose 10% in 2023.")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.InDelta(t, 1.0, cosine(a, a), 1e-6)
}

func TestMockConnector_SharedWordsAreCloser(t *testing.T) {
	m := NewMockConnector(256, 0, zap.NewNop())
	ctx := context.Background()

	doc, _ := m.Embed(ctx, "Dubai Marina prices rose in 2023")
	related, _ := m.Embed(ctx, "what happened in Dubai Marina in 2023")
	unrelated, _ := m.Embed(ctx, "quarterly weather report for Oslo")

	assert.Greater(t, cosine(doc, related), cosine(doc, unrelated))
}

func TestMockConnector_EmptyTextIsZeroVector(t *testing.T) {
	m := NewMockConnector(8, 0, zap.NewNop())
	vec, err := m.Embed(context.Background(), "  ... ")
	require.NoError(t, err)
	assert.Equal(t, make(entity.Embedding, 8), vec)
}

func TestMockConnector_Generate(t *testing.T) {
	m := NewMockConnector(8, 5, zap.NewNop())

	answer, err := m.Generate(context.Background(), "short")
	require.NoError(t, err)
	assert.Equal(t, MockAnswer, answer)

	_, err = m.Generate(context.Background(), strings.Repeat("x", 100))
	assert.ErrorIs(t, err, entity.ErrPromptTooLarge)
}
