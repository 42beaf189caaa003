package predictor

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futig/realty-advisor/internal/config"
	"github.com/futig/realty-advisor/internal/entity"
	"github.com/futig/realty-advisor/internal/integration/common"
	pkghttp "github.com/futig/realty-advisor/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector calls an external model server that hosts the trained price
// regression model.
type Connector struct {
	config    config.PredictorConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.PredictorConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Predict posts the feature record and returns the predicted price
// POST {predict_endpoint} with the 17-field record as JSON
func (c *Connector) Predict(ctx context.Context, features entity.PropertyFeatures) (float64, error) {
	ctxzap.Info(ctx, "requesting price prediction",
		zap.String("neighborhood", features.Neighborhood),
		zap.String("type", features.Type),
	)

	var resp entity.PredictionResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.PredictEndpoint, features, &resp)
	if err != nil {
		ctxzap.Error(ctx, "prediction request failed", zap.Error(err))
		return 0, fmt.Errorf("%w: %w", entity.ErrPrediction, err)
	}

	ctxzap.Info(ctx, "prediction received", zap.Float64("prediction", resp.Prediction))

	return resp.Prediction, nil
}
