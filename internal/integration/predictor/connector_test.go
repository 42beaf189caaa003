package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/futig/realty-advisor/internal/config"
	"github.com/futig/realty-advisor/internal/entity"
)

func newConfig(url string) config.PredictorConnectorConfig {
	return config.PredictorConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{Url: url, RequestTimeout: 5 * time.Second},
		PredictEndpoint:  "/predict",
	}
}

func TestConnector_Predict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)

		var got map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Len(t, got, 17)
		assert.Equal(t, "Downtown Dubai", got["neighborhood"])

		_, _ = w.Write([]byte(`{"prediction": 14250000.5}`))
	}))
	defer srv.Close()

	c := NewConnector(newConfig(srv.URL), zap.NewNop())
	got, err := c.Predict(context.Background(), entity.DefaultPropertyFeatures())
	require.NoError(t, err)
	assert.InDelta(t, 14250000.5, got, 1e-6)
}

func TestConnector_PredictFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewConnector(newConfig(srv.URL), zap.NewNop())
	_, err := c.Predict(context.Background(), entity.DefaultPropertyFeatures())
	assert.ErrorIs(t, err, entity.ErrPrediction)
}

func TestMockConnector_ExtrapolatesGrowth(t *testing.T) {
	m := NewMockConnector(zap.NewNop())

	f := entity.DefaultPropertyFeatures()
	f.P2023 = 1000
	f.P2024 = 1100

	got, err := m.Predict(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 1210.0, got)
}

func TestMockConnector_MissingHistory(t *testing.T) {
	m := NewMockConnector(zap.NewNop())

	f := entity.DefaultPropertyFeatures()
	f.P2023 = 0
	f.P2024 = 500

	got, err := m.Predict(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 500.0, got)
}
