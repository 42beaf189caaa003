package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConnector_DoRequestRoundTripsJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "advisor-test", r.Header.Get("User-Agent"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": body["prompt"]})
	}))
	defer srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: srv.URL, Logger: zap.NewNop()},
		WithAuthToken("secret"),
		WithUserAgent("advisor-test"),
	)

	var out map[string]string
	err := c.DoRequest(context.Background(), http.MethodPost, "/api/embeddings", map[string]string{"prompt": "marina"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "marina", out["echo"])
}

func TestConnector_NonSuccessStatusIsHTTPError(t *testing.T) {
	tests := []struct {
		status    int
		temporary bool
	}{
		{http.StatusNotFound, false},
		{http.StatusBadRequest, false},
		{http.StatusTooManyRequests, true},
		{http.StatusBadGateway, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			c := NewConnector(&ConnectorConfig{BaseURL: srv.URL})
			_, err := c.DoRaw(context.Background(), http.MethodGet, "/")

			var httpErr *HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.temporary, httpErr.Temporary())
		})
	}
}

func TestConnector_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: url})
	_, err := c.DoRaw(context.Background(), http.MethodGet, "/")

	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestConnector_RawResponseAndBodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer srv.Close()

	c := NewConnector(&ConnectorConfig{MaxBodyBytes: 4})
	raw, err := c.DoRaw(context.Background(), http.MethodGet, "", WithURL(srv.URL+"/page"))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", raw.ContentType)
	assert.Equal(t, []byte("0123"), raw.Body)
}

func TestConnector_RedirectLimit(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: srv.URL}, WithMaxRedirects(2))
	_, err := c.DoRaw(context.Background(), http.MethodGet, "/")
	assert.True(t, errors.Is(err, ErrTooManyRedirects))
}

func TestRequestLogging_RedactsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ctxzap.ToContext(context.Background(), zap.New(core))

	c := NewConnector(&ConnectorConfig{BaseURL: srv.URL},
		WithRequestLogging(),
		WithAuthToken("secret"),
	)
	require.NoError(t, c.DoRequest(ctx, http.MethodPost, "/predict", map[string]int{"rooms": 2}, nil))

	requests := logs.FilterMessage("HTTP outbound request").All()
	require.Len(t, requests, 1)
	headers, ok := requests[0].ContextMap()["headers"].(http.Header)
	require.True(t, ok)
	assert.Equal(t, "[REDACTED]", headers.Get("Authorization"))

	responses := logs.FilterMessage("HTTP outbound response").All()
	require.Len(t, responses, 1)
	assert.EqualValues(t, http.StatusNoContent, responses[0].ContextMap()["status"])
}
