package repository

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/futig/realty-advisor/internal/entity"
)

// VectorIndex defines the interface for chunk embedding storage
type VectorIndex interface {
	Insert(ctx context.Context, embedding entity.Embedding, chunk entity.Chunk) error
	Search(ctx context.Context, query entity.Embedding, k int) ([]entity.ScoredChunk, error)
	Len() int
	Dimension() int
}

var _ VectorIndex = &VectorMemory{}

type vectorEntry struct {
	// unit-length copy of the inserted embedding
	vector []float32
	chunk  entity.Chunk
}

// VectorMemory implements VectorIndex with a brute-force cosine scan over
// an append-only slice. Insert is not safe for concurrent use; once all
// inserts are done Search may be called from any number of goroutines.
type VectorMemory struct {
	dimension int
	entries   []vectorEntry
}

func NewVectorMemory() *VectorMemory {
	return &VectorMemory{}
}

// Insert appends an entry. The first insert fixes the dimension of the
// index; later embeddings of a different length are rejected.
func (r *VectorMemory) Insert(_ context.Context, embedding entity.Embedding, chunk entity.Chunk) error {
	if len(embedding) == 0 {
		return fmt.Errorf("%w: empty embedding for chunk %s", entity.ErrDimensionMismatch, chunk.ID)
	}

	if r.dimension == 0 {
		r.dimension = len(embedding)
	} else if len(embedding) != r.dimension {
		return fmt.Errorf("%w: chunk %s has %d, index has %d",
			entity.ErrDimensionMismatch, chunk.ID, len(embedding), r.dimension)
	}

	r.entries = append(r.entries, vectorEntry{
		vector: normalize(embedding),
		chunk:  chunk,
	})

	return nil
}

// Search returns up to k chunks ordered by decreasing cosine similarity.
// Equal scores keep insertion order.
func (r *VectorMemory) Search(_ context.Context, query entity.Embedding, k int) ([]entity.ScoredChunk, error) {
	if len(r.entries) == 0 || k <= 0 {
		return []entity.ScoredChunk{}, nil
	}

	if len(query) != r.dimension {
		return nil, fmt.Errorf("%w: query has %d, index has %d",
			entity.ErrDimensionMismatch, len(query), r.dimension)
	}

	q := normalize(query)

	hits := make([]entity.ScoredChunk, len(r.entries))
	for i, e := range r.entries {
		hits[i] = entity.ScoredChunk{
			Chunk: e.chunk,
			Score: dot(q, e.vector),
		}
	}

	slices.SortStableFunc(hits, func(a, b entity.ScoredChunk) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if k < len(hits) {
		hits = hits[:k]
	}

	return hits, nil
}

func (r *VectorMemory) Len() int {
	return len(r.entries)
}

// Dimension returns 0 until the first insert.
func (r *VectorMemory) Dimension() int {
	return r.dimension
}

func normalize(v entity.Embedding) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}

	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}

	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
