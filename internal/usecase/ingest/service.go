package ingest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/futig/realty-advisor/internal/entity"
	"github.com/futig/realty-advisor/internal/metrics"
	"github.com/futig/realty-advisor/internal/pkg/logger"
	pkgRetry "github.com/futig/realty-advisor/internal/pkg/retry"
	"github.com/futig/realty-advisor/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Report summarises one ingestion run.
type Report struct {
	DocumentsLoaded int
	URLsFailed      []FetchFailure
	ChunksIndexed   int
	ChunksDropped   int
	Duration        time.Duration
}

// Service builds the vector index from the source pages once per process.
type Service struct {
	loader     DocumentLoader
	chunker    DocumentChunker
	embedder   Embedder
	index      repository.VectorIndex
	embedRetry pkgRetry.RetryConfig
	metrics    *metrics.Metrics

	once   sync.Once
	ready  atomic.Bool
	report *Report
	err    error
}

func NewService(
	loader DocumentLoader,
	chunker DocumentChunker,
	embedder Embedder,
	index repository.VectorIndex,
	embedRetry pkgRetry.RetryConfig,
	m *metrics.Metrics,
) *Service {
	return &Service{
		loader:     loader,
		chunker:    chunker,
		embedder:   embedder,
		index:      index,
		embedRetry: embedRetry,
		metrics:    m,
	}
}

// Initialize loads, chunks, embeds and indexes the corpus. Later calls
// return the first run's report without doing any work. Sources that
// cannot be fetched and chunks that cannot be embedded are skipped, so an
// empty corpus is still a successful run.
func (s *Service) Initialize(ctx context.Context) (*Report, error) {
	s.once.Do(func() {
		s.report, s.err = s.run(ctx)
		s.ready.Store(s.err == nil)
	})
	return s.report, s.err
}

// Ready reports whether Initialize has completed successfully.
func (s *Service) Ready() bool {
	return s.ready.Load()
}

func (s *Service) run(ctx context.Context) (*Report, error) {
	ctx = logger.WithAction(ctx, "ingest")
	started := time.Now()

	ctxzap.Info(ctx, "ingestion started")

	docs, failures := s.loader.Load(ctx)
	report := &Report{
		DocumentsLoaded: len(docs),
		URLsFailed:      failures,
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("ingestion cancelled: %w", err)
		}

		chunks, err := s.chunker.SplitDocument(doc)
		if err != nil {
			ctxzap.Warn(ctx, "skipping document", zap.String("url", doc.URL), zap.Error(err))
			continue
		}

		for _, chunk := range chunks {
			if s.indexChunk(ctx, chunk) {
				report.ChunksIndexed++
			} else {
				report.ChunksDropped++
			}
		}
	}

	report.Duration = time.Since(started)
	s.record(report)

	ctxzap.Info(ctx, "ingestion finished",
		zap.Int("documents_loaded", report.DocumentsLoaded),
		zap.Int("urls_failed", len(report.URLsFailed)),
		zap.Int("chunks_indexed", report.ChunksIndexed),
		zap.Int("chunks_dropped", report.ChunksDropped),
		zap.Duration("duration", report.Duration),
	)

	if report.ChunksIndexed == 0 {
		ctxzap.Warn(ctx, "vector index is empty, answers will have no supporting documents")
	}

	return report, nil
}

func (s *Service) indexChunk(ctx context.Context, chunk entity.Chunk) bool {
	var vec entity.Embedding
	err := pkgRetry.Do(ctx, s.embedRetry, func() error {
		var err error
		vec, err = s.embedder.Embed(ctx, chunk.Text)
		return err
	}, nil)
	if err != nil {
		ctxzap.Warn(ctx, "dropping chunk, embedding failed",
			zap.String("chunk_id", chunk.ID),
			zap.String("url", chunk.SourceURL),
			zap.Error(err),
		)
		return false
	}

	if err := s.index.Insert(ctx, vec, chunk); err != nil {
		ctxzap.Warn(ctx, "dropping chunk, index rejected it",
			zap.String("chunk_id", chunk.ID),
			zap.Error(err),
		)
		return false
	}

	return true
}

func (s *Service) record(r *Report) {
	if s.metrics == nil {
		return
	}
	s.metrics.DocumentsLoaded.Set(float64(r.DocumentsLoaded))
	s.metrics.FetchFailures.Add(float64(len(r.URLsFailed)))
	s.metrics.ChunksIndexed.Set(float64(r.ChunksIndexed))
	s.metrics.ChunksDropped.Add(float64(r.ChunksDropped))
	s.metrics.IngestionSeconds.Set(r.Duration.Seconds())
}
