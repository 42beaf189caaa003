package entity

// Document is the plain text of one fetched source page.
type Document struct {
	ID      string
	URL     string
	Content string
}

// Chunk is a bounded span of a Document's text. Position is the chunk's
// ordinal within its document.
type Chunk struct {
	ID         string
	DocumentID string
	SourceURL  string
	Text       string
	Position   int
}

// Embedding is the vector of one chunk or query.
type Embedding []float32

// ScoredChunk is a retrieval hit.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// Chunks returns the chunks of hits in order.
func Chunks(hits []ScoredChunk) []Chunk {
	out := make([]Chunk, len(hits))
	for i, h := range hits {
		out[i] = h.Chunk
	}
	return out
}
