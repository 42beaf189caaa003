package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// defaultMaxBodyBytes caps how much of a response body is read.
const defaultMaxBodyBytes int64 = 16 << 20

type Connector struct {
	baseURL      string
	httpClient   *http.Client
	logger       *zap.Logger
	maxBodyBytes int64
}

type ConnectorConfig struct {
	BaseURL string
	Logger  *zap.Logger
	// MaxBodyBytes defaults to 16 MiB when zero
	MaxBodyBytes int64
}

func NewConnector(config *ConnectorConfig, options ...HttpOpts) *Connector {
	maxBody := config.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	return &Connector{
		baseURL:      config.BaseURL,
		httpClient:   newClient(options...),
		logger:       config.Logger,
		maxBodyBytes: maxBody,
	}
}

type RequestOpt func(*requestConfig)

type requestConfig struct {
	headers     map[string]string
	overrideURL string
}

func WithHeader(key, value string) RequestOpt {
	return func(c *requestConfig) {
		if c.headers == nil {
			c.headers = make(map[string]string)
		}
		c.headers[key] = value
	}
}

func WithURL(url string) RequestOpt {
	return func(c *requestConfig) {
		c.overrideURL = url
	}
}

// RawResponse is a successful response whose body was read but not decoded.
type RawResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (c *Connector) DoRequest(ctx context.Context, method, endpoint string, reqBody, respBody any, opts ...RequestOpt) error {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
		// Attach payload to context for logging transport
		ctx = context.WithValue(ctx, payloadContextKey{}, jsonData)
		opts = append(opts, WithHeader("Content-Type", "application/json"))
	}

	opts = append([]RequestOpt{WithHeader("Accept", "application/json")}, opts...)

	raw, err := c.do(ctx, method, endpoint, bodyReader, opts...)
	if err != nil {
		return err
	}

	// Decode response if needed
	if respBody != nil && len(raw.Body) > 0 {
		if err := json.Unmarshal(raw.Body, respBody); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// DoRaw performs a request without a body and returns the undecoded
// response. Non-2xx statuses are returned as *HTTPError.
func (c *Connector) DoRaw(ctx context.Context, method, endpoint string, opts ...RequestOpt) (*RawResponse, error) {
	return c.do(ctx, method, endpoint, nil, opts...)
}

func (c *Connector) do(ctx context.Context, method, endpoint string, body io.Reader, opts ...RequestOpt) (*RawResponse, error) {
	// Apply request options
	cfg := &requestConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	// Use override URL if provided, otherwise use baseURL + endpoint
	var url string
	if cfg.overrideURL != "" {
		url = cfg.overrideURL
	} else {
		url = c.baseURL + endpoint
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for key, value := range cfg.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	// Read response body
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("read response body: %w", err)}
	}

	// Check status code
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    string(bodyBytes),
		}
	}

	return &RawResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        bodyBytes,
	}, nil
}

// HTTPError represents an HTTP error response
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether a retry may succeed.
func (e *HTTPError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// NetworkError represents a network-level error (connection, timeout, etc.)
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
