package prediction

import (
	"context"

	"github.com/futig/realty-advisor/internal/entity"
)

type PredictionUsecase interface {
	Predict(ctx context.Context, features entity.PropertyFeatures) (*entity.PredictionResponse, error)
}
