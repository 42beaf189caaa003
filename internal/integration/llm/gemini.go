package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/realty-advisor/internal/config"
	"github.com/futig/realty-advisor/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiConnector serves embeddings and completions from the Gemini API.
type GeminiConnector struct {
	config          config.GeminiConfig
	client          *genai.Client
	maxPromptTokens int
}

func NewGeminiConnector(ctx context.Context, cfg config.GeminiConfig, maxPromptTokens int) (*GeminiConnector, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiConnector{
		config:          cfg,
		client:          client,
		maxPromptTokens: maxPromptTokens,
	}, nil
}

func (c *GeminiConnector) Embed(ctx context.Context, text string) (entity.Embedding, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Models.EmbedContent(ctx, c.config.EmbeddingModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini %s: %w", entity.ErrEmbedding, c.config.EmbeddingModel, err)
	}

	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("%w: gemini %s returned an empty embedding", entity.ErrEmbedding, c.config.EmbeddingModel)
	}

	return resp.Embeddings[0].Values, nil
}

func (c *GeminiConnector) Generate(ctx context.Context, prompt string) (string, error) {
	if err := checkPromptSize(prompt, c.maxPromptTokens); err != nil {
		return "", err
	}

	ctxzap.Info(ctx, "generating answer via gemini", zap.String("model", c.config.GenerationModel))

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx, c.config.GenerationModel, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(c.config.Temperature)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: gemini %s: %w", entity.ErrGeneration, c.config.GenerationModel, err)
	}

	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return "", fmt.Errorf("%w: gemini %s returned an empty completion", entity.ErrGeneration, c.config.GenerationModel)
	}

	ctxzap.Info(ctx, "answer generated successfully", zap.Int("answer_length", len(answer)))

	return answer, nil
}

func (c *GeminiConnector) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.config.RequestTimeout)
}
