package prediction

import (
	"context"

	"github.com/futig/realty-advisor/internal/entity"
)

type Predictor interface {
	Predict(ctx context.Context, features entity.PropertyFeatures) (float64, error)
}
