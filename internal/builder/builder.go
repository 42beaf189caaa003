package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/realty-advisor/internal/api"
	listingapi "github.com/futig/realty-advisor/internal/api/listing"
	predictionapi "github.com/futig/realty-advisor/internal/api/prediction"
	queryapi "github.com/futig/realty-advisor/internal/api/query"
	"github.com/futig/realty-advisor/internal/config"
	"github.com/futig/realty-advisor/internal/integration/predictor"
	"github.com/futig/realty-advisor/internal/metrics"
	"github.com/futig/realty-advisor/internal/pkg/formatter"
	"github.com/futig/realty-advisor/internal/pkg/validator"
	"github.com/futig/realty-advisor/internal/telegram"
	"github.com/futig/realty-advisor/internal/usecase/listing"
	"github.com/futig/realty-advisor/internal/usecase/prediction"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	m := metrics.NewMetrics(prometheus.NewRegistry())

	// RAG pipeline; the corpus is indexed before the server listens
	rag, err := buildPipeline(ctx, cfg, m, logger)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}
	if err := rag.ingestCorpus(ctx, logger); err != nil {
		return nil, err
	}

	// Initialize external service connectors (with mock support)
	var predictorConnector prediction.Predictor
	if cfg.EnableMocks {
		logger.Info("Using mock connector for the price model")
		predictorConnector = predictor.NewMockConnector(logger)
	} else {
		predictorConnector = predictor.NewConnector(cfg.PredictorCfg, logger)
	}

	// Initialize validators
	requestValidator := validator.NewValidator(cfg.MaxQueryLength)

	// Initialize use cases
	predictionUC := prediction.NewUsecase(predictorConnector)
	listingUC := listing.NewUsecase(cfg.ListingsCfg.CSVPath, cfg.ListingsCfg.CacheTTL)
	logger.Info("Use cases initialized")

	// Setup API handlers
	handlers := api.Handlers{
		Query:      queryapi.NewHandler(rag.orchestrator, formatter.NewFactory(), requestValidator),
		Prediction: predictionapi.NewHandler(predictionUC, requestValidator),
		Listing:    listingapi.NewHandler(listingUC),
	}

	routerCfg := api.RouterConfig{
		MaxConcurrent:  cfg.HTTPMaxConcurrent,
		RequestTimeout: cfg.HTTPRequestTimeout,
	}
	if cfg.QueryRateLimit > 0 {
		routerCfg.QueryLimiter = rate.NewLimiter(rate.Limit(cfg.QueryRateLimit), cfg.QueryRateBurst)
	}

	router := api.SetupRouter(handlers, routerCfg, rag.ingest, m, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:          server,
		logger:          logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}, nil
}

// BuildTelegramBot creates a bot that answers chat messages from the same
// pipeline as POST /query.
func BuildTelegramBot() (telegram.Bot, *zap.Logger, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	if err := cfg.ValidateTelegram(); err != nil {
		return nil, nil, err
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	rag, err := buildPipeline(ctx, cfg, metrics.NewMetrics(prometheus.NewRegistry()), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build pipeline: %w", err)
	}
	if err := rag.ingestCorpus(ctx, logger); err != nil {
		return nil, nil, err
	}

	bot, err := telegram.NewBot(&cfg.TelegramCfg, rag.orchestrator, validator.NewValidator(cfg.MaxQueryLength), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, logger, nil
}
