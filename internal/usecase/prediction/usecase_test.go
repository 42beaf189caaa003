package prediction

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futig/realty-advisor/internal/entity"
)

type stubPredictor struct {
	value float64
	err   error
	got   entity.PropertyFeatures
}

func (s *stubPredictor) Predict(_ context.Context, f entity.PropertyFeatures) (float64, error) {
	s.got = f
	return s.value, s.err
}

func TestPredict(t *testing.T) {
	stub := &stubPredictor{value: entity.DefaultPredictionOut}
	uc := NewUsecase(stub)

	resp, err := uc.Predict(context.Background(), entity.DefaultPropertyFeatures())
	require.NoError(t, err)
	assert.Equal(t, float64(entity.DefaultPredictionOut), resp.Prediction)
	assert.Equal(t, entity.DefaultNeighborhood, stub.got.Neighborhood)
}

func TestPredict_Errors(t *testing.T) {
	uc := NewUsecase(&stubPredictor{err: errors.Join(entity.ErrPrediction, errors.New("down"))})
	_, err := uc.Predict(context.Background(), entity.DefaultPropertyFeatures())
	assert.ErrorIs(t, err, entity.ErrPrediction)

	uc = NewUsecase(&stubPredictor{value: math.NaN()})
	_, err = uc.Predict(context.Background(), entity.DefaultPropertyFeatures())
	assert.ErrorIs(t, err, entity.ErrPrediction)
}
