package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/futig/realty-advisor/internal/config"
	"github.com/futig/realty-advisor/internal/entity"
	"github.com/futig/realty-advisor/internal/integration/common"
	"github.com/futig/realty-advisor/internal/pkg/tokenizer"
	pkghttp "github.com/futig/realty-advisor/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx,omitempty"`
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// Connector talks to an Ollama server for both embeddings and completions.
type Connector struct {
	config          config.OllamaConnectorConfig
	connector       *pkghttp.Connector
	maxPromptTokens int
	logger          *zap.Logger
}

func NewConnector(
	cfg config.OllamaConnectorConfig,
	maxPromptTokens int,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector:       common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:          cfg,
		maxPromptTokens: maxPromptTokens,
		logger:          logger,
	}
}

// Embed returns the embedding of text from the configured embedding model
func (c *Connector) Embed(ctx context.Context, text string) (entity.Embedding, error) {
	req := &ollamaEmbedRequest{
		Model:  c.config.EmbeddingModel,
		Prompt: text,
	}

	var resp ollamaEmbedResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.EmbedEndpoint, req, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama %s: %w", entity.ErrEmbedding, c.config.EmbeddingModel, err)
	}

	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("%w: ollama %s returned an empty embedding", entity.ErrEmbedding, c.config.EmbeddingModel)
	}

	return resp.Embedding, nil
}

// Generate returns a completion for prompt. Prompts above the configured
// token limit are rejected without calling the server.
func (c *Connector) Generate(ctx context.Context, prompt string) (string, error) {
	if err := checkPromptSize(prompt, c.maxPromptTokens); err != nil {
		return "", err
	}

	ctxzap.Info(ctx, "generating answer via ollama", zap.String("model", c.config.GenerationModel))

	req := &ollamaGenerateRequest{
		Model:  c.config.GenerationModel,
		Prompt: prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: c.config.Temperature,
			NumCtx:      c.config.NumCtx,
		},
	}

	var resp ollamaGenerateResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.GenerateEndpoint, req, &resp)
	if err != nil {
		return "", fmt.Errorf("%w: ollama %s: %w", entity.ErrGeneration, c.config.GenerationModel, err)
	}

	answer := strings.TrimSpace(resp.Response)
	if answer == "" {
		return "", fmt.Errorf("%w: ollama %s returned an empty completion", entity.ErrGeneration, c.config.GenerationModel)
	}

	ctxzap.Info(ctx, "answer generated successfully", zap.Int("answer_length", len(answer)))

	return answer, nil
}

func checkPromptSize(prompt string, maxTokens int) error {
	if maxTokens <= 0 {
		return nil
	}
	if n := tokenizer.Count(prompt); n > maxTokens {
		return fmt.Errorf("%w: %d tokens, limit is %d", entity.ErrPromptTooLarge, n, maxTokens)
	}
	return nil
}
