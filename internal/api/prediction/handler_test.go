package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futig/realty-advisor/internal/entity"
	"github.com/futig/realty-advisor/internal/pkg/validator"
)

type stubUsecase struct {
	got entity.PropertyFeatures
	err error
}

func (s *stubUsecase) Predict(_ context.Context, f entity.PropertyFeatures) (*entity.PredictionResponse, error) {
	s.got = f
	if s.err != nil {
		return nil, s.err
	}
	return &entity.PredictionResponse{Prediction: entity.DefaultPredictionOut}, nil
}

func serve(uc PredictionUsecase, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc, validator.NewValidator(0)))

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestPredict_AppliesDefaults(t *testing.T) {
	uc := &stubUsecase{}
	rec := serve(uc, `{"neighborhood": "Dubai Marina", "no_bedrooms": 2}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp entity.PredictionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(entity.DefaultPredictionOut), resp.Prediction)

	assert.Equal(t, "Dubai Marina", uc.got.Neighborhood)
	assert.Equal(t, 2, uc.got.NoBedrooms)
	assert.Equal(t, entity.DefaultBathrooms, uc.got.NoBathrooms)
	assert.Equal(t, int64(entity.DefaultPrice2015), uc.got.P2015)
}

func TestPredict_EmptyBodyUsesAllDefaults(t *testing.T) {
	uc := &stubUsecase{}
	rec := serve(uc, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.DefaultPropertyFeatures(), uc.got)
}

func TestPredict_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&stubUsecase{}, `{"area": -5}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(&stubUsecase{}, `not json`).Code)
	assert.Equal(t, http.StatusInternalServerError,
		serve(&stubUsecase{err: errors.Join(entity.ErrPrediction, errors.New("down"))}, `{}`).Code)
}
