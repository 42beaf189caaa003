package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/futig/realty-advisor/internal/config"
	"github.com/futig/realty-advisor/internal/entity"
)

func newOllamaConfig(url string) config.OllamaConnectorConfig {
	return config.OllamaConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			Url:            url,
			RequestTimeout: 5 * time.Second,
		},
		EmbedEndpoint:    "/api/embeddings",
		GenerateEndpoint: "/api/generate",
		EmbeddingModel:   "all-minilm:l6-v2",
		GenerationModel:  "gemma3:1b",
		Temperature:      0.7,
	}
}

func TestConnector_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)

		var req ollamaEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "all-minilm:l6-v2", req.Model)
		assert.Equal(t, "Dubai Marina", req.Prompt)

		_ = json.NewEncoder(w).Encode(map[string]any{"embedding": []float64{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	c := NewConnector(newOllamaConfig(srv.URL), 100, zap.NewNop())
	vec, err := c.Embed(context.Background(), "Dubai Marina")
	require.NoError(t, err)
	assert.Equal(t, entity.Embedding{0.1, 0.2, 0.3}, vec)
}

func TestConnector_EmbedFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model not loaded", http.StatusInternalServerError)
			},
		},
		{
			name: "empty embedding",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"embedding":[]}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewConnector(newOllamaConfig(srv.URL), 100, zap.NewNop())
			_, err := c.Embed(context.Background(), "text")
			assert.ErrorIs(t, err, entity.ErrEmbedding)
		})
	}
}

func TestConnector_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req ollamaGenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gemma3:1b", req.Model)
		assert.False(t, req.Stream)
		assert.InDelta(t, 0.7, req.Options.Temperature, 1e-9)

		_, _ = w.Write([]byte(`{"response":"  Prices rose.  "}`))
	}))
	defer srv.Close()

	c := NewConnector(newOllamaConfig(srv.URL), 100, zap.NewNop())
	answer, err := c.Generate(context.Background(), "What happened?")
	require.NoError(t, err)
	assert.Equal(t, "Prices rose.", answer)
}

func TestConnector_GenerateEmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":""}`))
	}))
	defer srv.Close()

	c := NewConnector(newOllamaConfig(srv.URL), 100, zap.NewNop())
	_, err := c.Generate(context.Background(), "question")
	assert.ErrorIs(t, err, entity.ErrGeneration)
}

func TestConnector_GenerateRejectsLargePrompt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"response":"ok"}`))
	}))
	defer srv.Close()

	c := NewConnector(newOllamaConfig(srv.URL), 10, zap.NewNop())
	_, err := c.Generate(context.Background(), strings.Repeat("word ", 20))
	assert.ErrorIs(t, err, entity.ErrPromptTooLarge)
	assert.Equal(t, int32(0), calls.Load())
}

func TestConnector_GenerateServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewConnector(newOllamaConfig(url), 100, zap.NewNop())
	_, err := c.Generate(context.Background(), "question")
	assert.ErrorIs(t, err, entity.ErrGeneration)
}
