package predictor

import (
	"context"
	"math"

	"github.com/futig/realty-advisor/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector extrapolates one year ahead at the most recent
// year-over-year growth rate.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Predict(ctx context.Context, features entity.PropertyFeatures) (float64, error) {
	ctxzap.Info(ctx, "[MOCK] predicting price", zap.String("neighborhood", features.Neighborhood))

	history := features.PriceHistory()
	last := float64(history[len(history)-1])
	prev := float64(history[len(history)-2])

	if prev <= 0 || last <= 0 {
		return math.Max(last, 0), nil
	}

	return math.Round(last * (last / prev)), nil
}
