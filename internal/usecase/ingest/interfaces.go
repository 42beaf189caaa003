package ingest

import (
	"context"

	"github.com/futig/realty-advisor/internal/entity"
)

type Embedder interface {
	Embed(ctx context.Context, text string) (entity.Embedding, error)
}

type DocumentLoader interface {
	Load(ctx context.Context) ([]entity.Document, []FetchFailure)
}

type DocumentChunker interface {
	SplitDocument(doc entity.Document) ([]entity.Chunk, error)
}
