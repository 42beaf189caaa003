package llm

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/futig/realty-advisor/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockAnswer is what the mock generator replies to every prompt.
const MockAnswer = "I don't know the answer based on the available documents."

// MockConnector is an offline stand-in for a model provider. Embeddings are
// feature-hashed bags of words, so texts sharing words land close together.
type MockConnector struct {
	dimension       int
	maxPromptTokens int
	logger          *zap.Logger
}

func NewMockConnector(dimension, maxPromptTokens int, logger *zap.Logger) *MockConnector {
	if dimension < 1 {
		dimension = 384
	}
	return &MockConnector{
		dimension:       dimension,
		maxPromptTokens: maxPromptTokens,
		logger:          logger,
	}
}

// Embed hashes every lower-cased word into one of dimension buckets and
// returns the L2-normalised counts. Text without words maps to the zero vector.
func (m *MockConnector) Embed(_ context.Context, text string) (entity.Embedding, error) {
	vec := make(entity.Embedding, m.dimension)

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%uint32(m.dimension)]++
	}

	var sum float64
	for _, x := range vec {
		sum += float64(x) * float64(x)
	}
	if sum > 0 {
		norm := float32(math.Sqrt(sum))
		for i := range vec {
			vec[i] /= norm
		}
	}

	return vec, nil
}

func (m *MockConnector) Generate(ctx context.Context, prompt string) (string, error) {
	if err := checkPromptSize(prompt, m.maxPromptTokens); err != nil {
		return "", err
	}

	ctxzap.Info(ctx, "[MOCK] generating answer", zap.Int("prompt_length", len(prompt)))

	return MockAnswer, nil
}
