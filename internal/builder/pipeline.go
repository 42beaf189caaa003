package builder

import (
	"context"
	"fmt"

	"github.com/futig/realty-advisor/internal/config"
	"github.com/futig/realty-advisor/internal/integration/common"
	"github.com/futig/realty-advisor/internal/integration/llm"
	"github.com/futig/realty-advisor/internal/metrics"
	"github.com/futig/realty-advisor/internal/repository"
	"github.com/futig/realty-advisor/internal/usecase/ingest"
	"github.com/futig/realty-advisor/internal/usecase/rag"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const fetchUserAgent = "realty-advisor/1.0 (+corpus-ingest)"

// pipeline is the answering stack shared by the API and the bot binaries.
type pipeline struct {
	ingest       *ingest.Service
	orchestrator *rag.Orchestrator
}

type providers struct {
	embedder  ingest.Embedder
	generator rag.Generator
}

func buildProviders(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*providers, error) {
	maxTokens := cfg.RAGCfg.MaxPromptTokens

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for model providers")
		mock := llm.NewMockConnector(cfg.RAGCfg.MockDimension, maxTokens, logger)
		return &providers{embedder: mock, generator: mock}, nil
	}

	var (
		ollama *llm.Connector
		gemini *llm.GeminiConnector
	)
	ollamaConn := func() *llm.Connector {
		if ollama == nil {
			ollama = llm.NewConnector(cfg.OllamaCfg, maxTokens, logger)
		}
		return ollama
	}
	geminiConn := func() (*llm.GeminiConnector, error) {
		if gemini == nil {
			c, err := llm.NewGeminiConnector(ctx, cfg.GeminiCfg, maxTokens)
			if err != nil {
				return nil, err
			}
			gemini = c
		}
		return gemini, nil
	}

	p := &providers{}
	switch cfg.EmbeddingProvider {
	case config.ProviderGemini:
		c, err := geminiConn()
		if err != nil {
			return nil, fmt.Errorf("gemini embedder: %w", err)
		}
		p.embedder = c
	default:
		p.embedder = ollamaConn()
	}

	switch cfg.GenerationProvider {
	case config.ProviderGemini:
		c, err := geminiConn()
		if err != nil {
			return nil, fmt.Errorf("gemini generator: %w", err)
		}
		p.generator = c
	default:
		p.generator = ollamaConn()
	}

	logger.Info("Model providers configured",
		zap.String("embedding_provider", cfg.EmbeddingProvider),
		zap.String("generation_provider", cfg.GenerationProvider),
	)
	return p, nil
}

func buildPipeline(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*pipeline, error) {
	models, err := buildProviders(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	rc := cfg.RAGCfg

	fetchConnector := common.NewFetchConnector(rc.FetchCfg, fetchUserAgent, logger)
	loader := ingest.NewWebLoader(fetchConnector, rc.SourceURLs, rc.FetchRetry)

	chunker, err := ingest.NewChunker(rc.ChunkSize, rc.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("create chunker: %w", err)
	}

	index := repository.NewVectorMemory()
	ingestSvc := ingest.NewService(
		loader,
		chunker,
		ingest.NewCachingEmbedder(models.embedder),
		index,
		rc.EmbedRetry,
		m,
	)

	retriever, err := rag.NewRetriever(models.embedder, index, rc.RetrievalK)
	if err != nil {
		return nil, fmt.Errorf("create retriever: %w", err)
	}

	composer, err := rag.NewPromptComposer(rc.PromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("create prompt composer: %w", err)
	}

	return &pipeline{
		ingest:       ingestSvc,
		orchestrator: rag.NewOrchestrator(retriever, composer, models.generator, m, rag.WithReadiness(ingestSvc)),
	}, nil
}

// ingestCorpus builds the index before anything is served.
func (p *pipeline) ingestCorpus(ctx context.Context, logger *zap.Logger) error {
	ctx = ctxzap.ToContext(ctx, logger)

	report, err := p.ingest.Initialize(ctx)
	if err != nil {
		return fmt.Errorf("ingest corpus: %w", err)
	}

	failed := make([]string, 0, len(report.URLsFailed))
	for _, f := range report.URLsFailed {
		failed = append(failed, f.URL)
	}

	logger.Info("Corpus indexed",
		zap.Int("documents", report.DocumentsLoaded),
		zap.Strings("failed_urls", failed),
		zap.Int("chunks_indexed", report.ChunksIndexed),
		zap.Int("chunks_dropped", report.ChunksDropped),
		zap.Duration("duration", report.Duration),
	)
	if report.ChunksIndexed == 0 {
		logger.Warn("Corpus is empty, answers will not be grounded in any document")
	}

	return nil
}
