package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	listingapi "github.com/futig/realty-advisor/internal/api/listing"
	predictionapi "github.com/futig/realty-advisor/internal/api/prediction"
	queryapi "github.com/futig/realty-advisor/internal/api/query"
	"github.com/futig/realty-advisor/internal/entity"
	"github.com/futig/realty-advisor/internal/metrics"
	"github.com/futig/realty-advisor/internal/pkg/formatter"
	"github.com/futig/realty-advisor/internal/pkg/validator"
)

type readiness bool

func (r readiness) Ready() bool { return bool(r) }

type echoAnswerer struct{}

func (echoAnswerer) Answer(_ context.Context, q string) (string, error) { return "echo: " + q, nil }

type noPredictor struct{}

func (noPredictor) Predict(context.Context, entity.PropertyFeatures) (*entity.PredictionResponse, error) {
	return &entity.PredictionResponse{Prediction: 1}, nil
}

type noListings struct{}

func (noListings) GetAll(context.Context) ([]entity.Listing, error) { return []entity.Listing{}, nil }

func newTestRouter(ready bool, limiter *rate.Limiter) http.Handler {
	v := validator.NewValidator(0)
	return SetupRouter(
		Handlers{
			Query:      queryapi.NewHandler(echoAnswerer{}, formatter.NewFactory(), v),
			Prediction: predictionapi.NewHandler(noPredictor{}, v),
			Listing:    listingapi.NewHandler(noListings{}),
		},
		RouterConfig{MaxConcurrent: 4, RequestTimeout: 5 * time.Second, QueryLimiter: limiter},
		readiness(ready),
		metrics.NewMetrics(prometheus.NewRegistry()),
		zap.NewNop(),
	)
}

func TestRouter_Root(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(true, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"Hello":"World"}`, rec.Body.String())
}

func TestRouter_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(true, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	newTestRouter(false, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_QueryAndMetrics(t *testing.T) {
	router := newTestRouter(true, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"query":"hi"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"answer":"echo: hi"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `advisor_http_requests_total{method="POST",route="/query`)
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/query", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	newTestRouter(true, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_QueryRateLimit(t *testing.T) {
	router := newTestRouter(true, rate.NewLimiter(rate.Every(time.Hour), 1))

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"query":"a"}`)))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"query":"b"}`)))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
