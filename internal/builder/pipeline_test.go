package builder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/futig/realty-advisor/internal/config"
	"github.com/futig/realty-advisor/internal/entity"
	"github.com/futig/realty-advisor/internal/integration/llm"
	"github.com/futig/realty-advisor/internal/metrics"
	pkgRetry "github.com/futig/realty-advisor/internal/pkg/retry"
)

func mockConfig(urls ...string) *config.Config {
	return &config.Config{
		EnableMocks: true,
		RAGCfg: config.RAGConfig{
			SourceURLs:      urls,
			ChunkSize:       50,
			RetrievalK:      2,
			MaxPromptTokens: 8192,
			MockDimension:   64,
			FetchRetry:      pkgRetry.RetryConfig{Attempts: 1},
			EmbedRetry:      pkgRetry.RetryConfig{Attempts: 1},
		},
	}
}

func TestBuildPipeline_MockProvidersAnswerAfterIngest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/news" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Dubai Marina apartment prices rose 12% this year.\n\nRental yields in JVC stay above 7%."))
	}))
	defer srv.Close()

	ctx := context.Background()
	m := metrics.NewMetrics(prometheus.NewRegistry())

	p, err := buildPipeline(ctx, mockConfig(srv.URL+"/news", srv.URL+"/gone"), m, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.ingest.Ready())
	_, err = p.orchestrator.Answer(ctx, "How did Dubai Marina prices change?")
	assert.ErrorIs(t, err, entity.ErrNotInitialized)

	require.NoError(t, p.ingestCorpus(ctx, zap.NewNop()))
	assert.True(t, p.ingest.Ready())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentsLoaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchFailures))
	assert.Positive(t, testutil.ToFloat64(m.ChunksIndexed))

	answer, err := p.orchestrator.Answer(ctx, "How did Dubai Marina prices change?")
	require.NoError(t, err)
	assert.Equal(t, llm.MockAnswer, answer)
}

func TestBuildPipeline_InvalidChunking(t *testing.T) {
	cfg := mockConfig()
	cfg.RAGCfg.ChunkOverlap = cfg.RAGCfg.ChunkSize

	_, err := buildPipeline(context.Background(), cfg, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestBuildProviders_DefaultsToOllama(t *testing.T) {
	cfg := mockConfig()
	cfg.EnableMocks = false
	cfg.EmbeddingProvider = config.ProviderOllama
	cfg.GenerationProvider = config.ProviderOllama
	cfg.OllamaCfg.Url = config.DefaultOllamaURL

	p, err := buildProviders(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	embedder, ok := p.embedder.(*llm.Connector)
	require.True(t, ok)
	generator, ok := p.generator.(*llm.Connector)
	require.True(t, ok)
	assert.Same(t, embedder, generator)
}
