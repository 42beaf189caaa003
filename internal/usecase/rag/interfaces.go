package rag

import (
	"context"

	"github.com/futig/realty-advisor/internal/entity"
)

type Embedder interface {
	Embed(ctx context.Context, text string) (entity.Embedding, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type VectorSearcher interface {
	Search(ctx context.Context, query entity.Embedding, k int) ([]entity.ScoredChunk, error)
}

type ChunkRetriever interface {
	Retrieve(ctx context.Context, question string) ([]entity.Chunk, error)
}

type Composer interface {
	Compose(question string, chunks []entity.Chunk) (string, error)
}

type Readiness interface {
	Ready() bool
}
