package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/futig/realty-advisor/internal/entity"
	"github.com/patrickmn/go-cache"
)

// CachingEmbedder memoises embeddings by text. Source pages share a lot of
// navigation and footer text, so identical chunks are embedded once.
type CachingEmbedder struct {
	next  Embedder
	cache *cache.Cache
}

func NewCachingEmbedder(next Embedder) *CachingEmbedder {
	return &CachingEmbedder{
		next:  next,
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (e *CachingEmbedder) Embed(ctx context.Context, text string) (entity.Embedding, error) {
	key := cacheKey(text)
	if v, ok := e.cache.Get(key); ok {
		return v.(entity.Embedding), nil
	}

	vec, err := e.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	e.cache.SetDefault(key, vec)
	return vec, nil
}

// Len returns the number of distinct texts embedded so far.
func (e *CachingEmbedder) Len() int {
	return e.cache.ItemCount()
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
