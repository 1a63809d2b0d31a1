package heartbeat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// HeartbeatPath is the ingestion endpoint relative to the API base URL.
	HeartbeatPath = "/api/v1/attendance/heartbeat"

	// Version is announced in the X-Client-Version header so the server can
	// refuse outdated emitters.
	Version = "1.0.0"
)

// Transport delivers one heartbeat report.
type Transport interface {
	Send(ctx context.Context, report Report) (*Result, error)
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status=%d message=%s", e.StatusCode, e.Message)
}

// IsPrecondition reports whether err means heartbeats cannot be taken until
// the user acts: no session today, not punched in, already punched out, or
// this client is too old for the server.
func IsPrecondition(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.StatusCode {
	case http.StatusNotFound, http.StatusConflict, http.StatusUpgradeRequired:
		return true
	default:
		return false
	}
}

// HTTPTransport posts heartbeats to the attendance API with a bearer token.
type HTTPTransport struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// TransportOption configures HTTPTransport.
type TransportOption func(*HTTPTransport)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) TransportOption {
	return func(t *HTTPTransport) {
		t.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) TransportOption {
	return func(t *HTTPTransport) {
		t.httpClient.Timeout = d
	}
}

// NewHTTPTransport creates a transport for the API at baseURL
// (e.g. "https://hr.example.com").
func NewHTTPTransport(baseURL, token string, opts ...TransportOption) *HTTPTransport {
	t := &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send posts report and decodes the heartbeat result.
func (t *HTTPTransport) Send(ctx context.Context, report Report) (*Result, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+HeartbeatPath, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-Version", Version)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var apiResp apiResponse[Result]
	decodeErr := json.Unmarshal(respBody, &apiResp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr == nil && apiResp.Error != nil {
			apiErr.Type = apiResp.Error.Type
			apiErr.Message = apiResp.Error.Message
		}
		return nil, apiErr
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("unmarshal response: %w", decodeErr)
	}
	if !apiResp.Success || apiResp.Data == nil {
		return nil, fmt.Errorf("api error: %s", apiResp.Message)
	}

	return apiResp.Data, nil
}
