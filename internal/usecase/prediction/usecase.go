package prediction

import (
	"context"
	"fmt"
	"math"

	"github.com/futig/realty-advisor/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// PredictionUsecase forwards feature records to the regression model.
type PredictionUsecase struct {
	predictor Predictor
}

func NewUsecase(predictor Predictor) *PredictionUsecase {
	return &PredictionUsecase{predictor: predictor}
}

func (uc *PredictionUsecase) Predict(ctx context.Context, features entity.PropertyFeatures) (*entity.PredictionResponse, error) {
	value, err := uc.predictor.Predict(ctx, features)
	if err != nil {
		return nil, fmt.Errorf("predict price: %w", err)
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("%w: model returned %v", entity.ErrPrediction, value)
	}

	ctxzap.Info(ctx, "price predicted",
		zap.String("neighborhood", features.Neighborhood),
		zap.Float64("prediction", value),
	)

	return &entity.PredictionResponse{Prediction: value}, nil
}
