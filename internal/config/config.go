package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/realty-advisor/internal/pkg/retry"
	"github.com/joho/godotenv"
)

const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr         string        `env:"SERVER_ADDR" envDefault:"127.0.0.1:8000"`
	HTTPMaxConcurrent  int           `env:"HTTP_MAX_CONCURRENT" envDefault:"64"`
	HTTPWriteTimeout   time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"120s"`
	HTTPRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"110s"` // below HTTPWriteTimeout
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Query endpoint limits; QUERY_RATE_LIMIT=0 disables the limiter
	QueryRateLimit float64 `env:"QUERY_RATE_LIMIT" envDefault:"0"`
	QueryRateBurst int     `env:"QUERY_RATE_BURST" envDefault:"5"`
	MaxQueryLength int     `env:"MAX_QUERY_LENGTH" envDefault:"2000"`

	// RAG pipeline configuration
	RAGCfg RAGConfig `envPrefix:"RAG_"`

	// Model providers
	EmbeddingProvider  string                `env:"EMBEDDING_PROVIDER" envDefault:"ollama"`
	GenerationProvider string                `env:"GENERATION_PROVIDER" envDefault:"ollama"`
	OllamaCfg          OllamaConnectorConfig `envPrefix:"OLLAMA_"`
	GeminiCfg          GeminiConfig          `envPrefix:"GEMINI_"`

	// Collaborators
	PredictorCfg PredictorConnectorConfig `envPrefix:"PREDICTOR_"`
	ListingsCfg  ListingsConfig           `envPrefix:"LISTINGS_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// RAGConfig holds corpus, chunking, retrieval and prompt settings.
type RAGConfig struct {
	SourceURLs         []string             `env:"SOURCE_URLS" envSeparator:","`
	ChunkSize          int                  `env:"CHUNK_SIZE" envDefault:"250"`
	ChunkOverlap       int                  `env:"CHUNK_OVERLAP" envDefault:"0"`
	RetrievalK         int                  `env:"RETRIEVAL_K" envDefault:"4"`
	PromptTemplateFile string               `env:"PROMPT_TEMPLATE_FILE"`
	MaxPromptTokens    int                  `env:"MAX_PROMPT_TOKENS" envDefault:"8192"`
	MockDimension      int                  `env:"MOCK_DIMENSION" envDefault:"384"`
	FetchCfg           HTTPClientConfig     `envPrefix:"FETCH_"`
	FetchRetry         pkgRetry.RetryConfig `envPrefix:"FETCH_RETRY_"`
	EmbedRetry         pkgRetry.RetryConfig `envPrefix:"EMBED_RETRY_"`

	// PromptTemplate is read from PromptTemplateFile, empty means built-in
	PromptTemplate string
}

type OllamaConnectorConfig struct {
	HTTPClientConfig
	EmbedEndpoint    string  `env:"EMBED_ENDPOINT" envDefault:"/api/embeddings"`
	GenerateEndpoint string  `env:"GENERATE_ENDPOINT" envDefault:"/api/generate"`
	EmbeddingModel   string  `env:"EMBEDDING_MODEL" envDefault:"all-minilm:l6-v2"`
	GenerationModel  string  `env:"GENERATION_MODEL" envDefault:"gemma3:1b"`
	Temperature      float64 `env:"TEMPERATURE" envDefault:"0.7"`
	NumCtx           int     `env:"NUM_CTX" envDefault:"0"`
}

type GeminiConfig struct {
	APIKey          string        `env:"API_KEY"`
	EmbeddingModel  string        `env:"EMBEDDING_MODEL" envDefault:"text-embedding-004"`
	GenerationModel string        `env:"GENERATION_MODEL" envDefault:"gemini-2.5-flash"`
	Temperature     float64       `env:"TEMPERATURE" envDefault:"0.7"`
	RequestTimeout  time.Duration `env:"TIMEOUT" envDefault:"60s"`
}

type PredictorConnectorConfig struct {
	HTTPClientConfig
	PredictEndpoint string `env:"PREDICT_ENDPOINT" envDefault:"/predict"`
}

type ListingsConfig struct {
	CSVPath  string        `env:"CSV_PATH" envDefault:"final_cleaned.csv"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"10"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" envDefault:"3"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

const DefaultOllamaURL = "http://localhost:11434"

// DefaultSourceURLs are the property news pages the corpus is built from
// when RAG_SOURCE_URLS is not set.
var DefaultSourceURLs = []string{
	"https://www.arabianbusiness.com/industries/real-estate",
	"https://www.khaleejtimes.com/business/property",
	"https://www.propertynews.ae/",
	"https://gulfnews.com/business/property",
	"https://www.arabianbusiness.com/tags/dubai-real-estate",
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment, applies
// defaults and validates it.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if len(cfg.RAGCfg.SourceURLs) == 0 {
		cfg.RAGCfg.SourceURLs = append([]string(nil), DefaultSourceURLs...)
	}
	if cfg.OllamaCfg.Url == "" {
		cfg.OllamaCfg.Url = DefaultOllamaURL
	}
	applyRetryDefaults(&cfg.RAGCfg.FetchRetry)
	applyRetryDefaults(&cfg.RAGCfg.EmbedRetry)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := loadPromptTemplate(&cfg.RAGCfg); err != nil {
		return nil, fmt.Errorf("load prompt template: %w", err)
	}

	return cfg, nil
}

func applyRetryDefaults(rc *pkgRetry.RetryConfig) {
	def := pkgRetry.DefaultRetryConfig()
	if rc.Attempts == 0 {
		rc.Attempts = def.Attempts
	}
	if rc.Delay == 0 {
		rc.Delay = def.Delay
	}
	if rc.MaxDelay == 0 {
		rc.MaxDelay = def.MaxDelay
	}
}

func validateConfig(cfg *Config) error {
	var errors []string

	rag := cfg.RAGCfg
	if rag.ChunkSize < 1 {
		errors = append(errors, fmt.Sprintf("RAG_CHUNK_SIZE must be positive, got %d", rag.ChunkSize))
	}
	if rag.ChunkOverlap < 0 || rag.ChunkOverlap >= rag.ChunkSize {
		errors = append(errors, fmt.Sprintf("RAG_CHUNK_OVERLAP must be between 0 and RAG_CHUNK_SIZE(%d) exclusive, got %d", rag.ChunkSize, rag.ChunkOverlap))
	}
	if rag.RetrievalK < 1 {
		errors = append(errors, fmt.Sprintf("RAG_RETRIEVAL_K must be at least 1, got %d", rag.RetrievalK))
	}
	if rag.MaxPromptTokens < 1 {
		errors = append(errors, fmt.Sprintf("RAG_MAX_PROMPT_TOKENS must be positive, got %d", rag.MaxPromptTokens))
	}
	for _, u := range rag.SourceURLs {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			errors = append(errors, fmt.Sprintf("RAG_SOURCE_URLS contains a non-http url: %q", u))
		}
	}

	if !cfg.EnableMocks {
		for name, provider := range map[string]string{
			"EMBEDDING_PROVIDER":  cfg.EmbeddingProvider,
			"GENERATION_PROVIDER": cfg.GenerationProvider,
		} {
			switch provider {
			case ProviderOllama:
			case ProviderGemini:
				if cfg.GeminiCfg.APIKey == "" {
					errors = append(errors, fmt.Sprintf("%s=gemini requires GEMINI_API_KEY", name))
				}
			default:
				errors = append(errors, fmt.Sprintf("%s must be one of ollama, gemini; got %q", name, provider))
			}
		}
	}

	if cfg.OllamaCfg.Temperature < 0 || cfg.OllamaCfg.Temperature > 2 {
		errors = append(errors, fmt.Sprintf("OLLAMA_TEMPERATURE must be between 0 and 2, got %v", cfg.OllamaCfg.Temperature))
	}
	if cfg.GeminiCfg.Temperature < 0 || cfg.GeminiCfg.Temperature > 2 {
		errors = append(errors, fmt.Sprintf("GEMINI_TEMPERATURE must be between 0 and 2, got %v", cfg.GeminiCfg.Temperature))
	}

	if cfg.HTTPRequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("HTTP_REQUEST_TIMEOUT must be positive, got %v", cfg.HTTPRequestTimeout))
	}
	if cfg.QueryRateLimit < 0 {
		errors = append(errors, fmt.Sprintf("QUERY_RATE_LIMIT must not be negative, got %v", cfg.QueryRateLimit))
	}
	if cfg.QueryRateLimit > 0 && cfg.QueryRateBurst < 1 {
		errors = append(errors, fmt.Sprintf("QUERY_RATE_BURST must be at least 1 when the limiter is on, got %d", cfg.QueryRateBurst))
	}

	if cfg.HTTPMaxConcurrent < 1 {
		errors = append(errors, fmt.Sprintf("HTTP_MAX_CONCURRENT must be positive, got %d", cfg.HTTPMaxConcurrent))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// ValidateTelegram checks the settings only the bot binary needs.
func (c *Config) ValidateTelegram() error {
	t := c.TelegramCfg
	var errors []string

	if t.BotToken == "" {
		errors = append(errors, "TELEGRAM_BOT_TOKEN is required")
	}
	if t.RateLimitPerMinute < 1 || t.RateLimitPerMinute > 60 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", t.RateLimitPerMinute))
	}
	if t.RateLimitBurst < 1 || t.RateLimitBurst > 20 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", t.RateLimitBurst))
	}
	if t.ShutdownTimeout < 1 || t.ShutdownTimeout > 300 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", t.ShutdownTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("telegram configuration errors:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}

func loadPromptTemplate(cfg *RAGConfig) error {
	if cfg.PromptTemplateFile == "" {
		return nil
	}

	data, err := os.ReadFile(cfg.PromptTemplateFile)
	if err != nil {
		return fmt.Errorf("read prompt template file: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return fmt.Errorf("prompt template file is empty: %s", cfg.PromptTemplateFile)
	}

	cfg.PromptTemplate = string(data)
	fmt.Printf("Loaded prompt template from %s\n", cfg.PromptTemplateFile)
	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
