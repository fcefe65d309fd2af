package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultBaseURL        = "https://rest.sensaphone.net/api/v1"
	DefaultRequestTimeout = 30 * time.Second
)

// Endpoints, relative to the API base URL.
const (
	EndpointLogin         = "login"
	EndpointDevice        = "device"
	EndpointDeviceZone    = "device/zone"
	EndpointDataLogPoints = "history/data_log_points"
	EndpointDataLog       = "history/data_log"
)

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client posts JSON requests to the Sentinel API and unwraps the result
// envelope.
type Client struct {
	baseURL string
	http    Doer
	logger  *slog.Logger
}

// NewClient creates a Client with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return NewClientWithHTTPClient(&http.Client{Timeout: timeout}, baseURL, logger)
}

// NewClientWithHTTPClient creates a Client around an existing HTTP client.
// Tests use it to point at an httptest server.
func NewClientWithHTTPClient(doer Doer, baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    doer,
		logger:  logger,
	}
}

// Post sends payload to endpoint and returns the decoded envelope when the
// result is successful. Unsuccessful results come back as *APIError and
// everything else as *TransportError.
func (c *Client) Post(ctx context.Context, endpoint string, payload any) (*Response, error) {
	url := c.baseURL + "/" + strings.TrimPrefix(endpoint, "/")
	requestID := uuid.NewString()
	logger := c.logger.With("endpoint", endpoint, "request_id", requestID)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, c.transportErr(logger, endpoint, fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, c.transportErr(logger, endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent())
	req.Header.Set("X-Request-Id", requestID)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, c.transportErr(logger, endpoint, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, c.transportErr(logger, endpoint, fmt.Errorf("read body: %w", err))
	}

	// The result block is only pulled out raw so it can be echoed back in
	// diagnostics exactly as the server sent it.
	var envelope struct {
		Result   json.RawMessage `json:"result"`
		Response json.RawMessage `json:"response"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Result) == 0 {
		if err == nil {
			err = fmt.Errorf("missing result block")
		}
		return nil, c.transportErr(logger, endpoint, fmt.Errorf("decode response (HTTP %d): %w", res.StatusCode, err))
	}

	var result Result
	if err := json.Unmarshal(envelope.Result, &result); err != nil {
		return nil, c.transportErr(logger, endpoint, fmt.Errorf("decode result (HTTP %d): %w", res.StatusCode, err))
	}

	if !result.Success {
		apiErr := &APIError{Endpoint: endpoint, Result: result, Raw: envelope.Result}
		if result.Code == CodeSessionExpired {
			logger.Warn("session expired", "code", result.Code)
		} else {
			logger.Warn("api request rejected", "code", result.Code, "result", string(envelope.Result))
		}
		return nil, apiErr
	}

	logger.Debug("api request succeeded", "path", req.URL.Path, "status", res.StatusCode)
	return &Response{Result: result, Response: envelope.Response}, nil
}

// do posts payload and decodes the response object into out.
func (c *Client) do(ctx context.Context, endpoint string, payload, out any) error {
	res, err := c.Post(ctx, endpoint, payload)
	if err != nil {
		return err
	}
	if out == nil || len(res.Response) == 0 {
		return nil
	}
	if err := json.Unmarshal(res.Response, out); err != nil {
		return c.transportErr(c.logger.With("endpoint", endpoint), endpoint, fmt.Errorf("decode response object: %w", err))
	}
	return nil
}

func (c *Client) transportErr(logger *slog.Logger, endpoint string, err error) error {
	logger.Error("api transport error", "error", err)
	return &TransportError{Endpoint: endpoint, Err: err}
}
