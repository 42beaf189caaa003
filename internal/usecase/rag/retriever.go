package rag

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/realty-advisor/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Retriever finds the k chunks closest to a question.
type Retriever struct {
	embedder Embedder
	index    VectorSearcher
	k        int
}

func NewRetriever(embedder Embedder, index VectorSearcher, k int) (*Retriever, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1, got %d", entity.ErrInvalidParameter, k)
	}
	return &Retriever{embedder: embedder, index: index, k: k}, nil
}

// Retrieve embeds the question and returns up to k chunks, most similar
// first. Embedding failures are returned as entity.ErrEmbedding.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]entity.Chunk, error) {
	vec, err := r.embedder.Embed(ctx, question)
	if err != nil {
		if errors.Is(err, entity.ErrEmbedding) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", entity.ErrEmbedding, err)
	}

	hits, err := r.index.Search(ctx, vec, r.k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	if len(hits) > 0 {
		ctxzap.Debug(ctx, "chunks retrieved",
			zap.Int("count", len(hits)),
			zap.Float64("top_score", hits[0].Score),
			zap.String("top_source", hits[0].Chunk.SourceURL),
		)
	}

	return entity.Chunks(hits), nil
}

func (r *Retriever) K() int {
	return r.k
}
