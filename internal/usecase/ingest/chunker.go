package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/futig/realty-advisor/internal/entity"
	"github.com/futig/realty-advisor/internal/pkg/tokenizer"
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"
)

// Chunker splits documents into pieces of at most maxSize approximate
// tokens using a recursive paragraph / line / word splitter. The splitter
// measures runes, maxSize*CharsPerToken of them per chunk, because it adds
// up the length of every word and separator and a rounded-up token count
// per piece would overshoot.
type Chunker struct {
	maxSize  int
	overlap  int
	splitter textsplitter.RecursiveCharacter
}

func NewChunker(maxSize, overlap int) (*Chunker, error) {
	if maxSize < 1 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", entity.ErrInvalidParameter, maxSize)
	}
	if overlap < 0 || overlap >= maxSize {
		return nil, fmt.Errorf("%w: overlap must be in [0, %d), got %d", entity.ErrInvalidParameter, maxSize, overlap)
	}

	return &Chunker{
		maxSize: maxSize,
		overlap: overlap,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(maxSize*tokenizer.CharsPerToken),
			textsplitter.WithChunkOverlap(overlap*tokenizer.CharsPerToken),
			textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
			textsplitter.WithLenFunc(utf8.RuneCountInString),
		),
	}, nil
}

// SplitDocument returns the chunks of doc in text order. An empty or
// whitespace-only document has no chunks; a document within maxSize is a
// single chunk holding the whole content unchanged.
func (c *Chunker) SplitDocument(doc entity.Document) ([]entity.Chunk, error) {
	if strings.TrimSpace(doc.Content) == "" {
		return nil, nil
	}

	if tokenizer.Count(doc.Content) <= c.maxSize {
		return []entity.Chunk{newChunk(doc, doc.Content, 0)}, nil
	}

	pieces, err := c.splitter.SplitText(doc.Content)
	if err != nil {
		return nil, fmt.Errorf("split document %s: %w", doc.URL, err)
	}

	chunks := make([]entity.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		for _, text := range c.enforceLimit(piece) {
			if strings.TrimSpace(text) == "" {
				continue
			}
			chunks = append(chunks, newChunk(doc, text, len(chunks)))
		}
	}

	return chunks, nil
}

func newChunk(doc entity.Document, text string, position int) entity.Chunk {
	return entity.Chunk{
		ID:         ChunkID(doc.ID, position),
		DocumentID: doc.ID,
		SourceURL:  doc.URL,
		Text:       text,
		Position:   position,
	}
}

// Split chunks every document, preserving document order.
func (c *Chunker) Split(docs []entity.Document) ([]entity.Chunk, error) {
	var all []entity.Chunk
	for _, doc := range docs {
		chunks, err := c.SplitDocument(doc)
		if err != nil {
			return nil, err
		}
		all = append(all, chunks...)
	}
	return all, nil
}

// enforceLimit cuts a piece the splitter could not bring under the limit
// into fixed rune windows.
func (c *Chunker) enforceLimit(piece string) []string {
	if tokenizer.Count(piece) <= c.maxSize {
		return []string{piece}
	}

	runes := []rune(piece)
	window := c.maxSize * tokenizer.CharsPerToken

	var out []string
	for start := 0; start < len(runes); start += window {
		end := min(start+window, len(runes))
		out = append(out, string(runes[start:end]))
	}
	return out
}

// ChunkID is stable for a (document, position) pair.
func ChunkID(documentID string, position int) string {
	ns, err := uuid.Parse(documentID)
	if err != nil {
		ns = uuid.NewSHA1(uuid.NameSpaceURL, []byte(documentID))
	}
	return uuid.NewSHA1(ns, []byte(strconv.Itoa(position))).String()
}
