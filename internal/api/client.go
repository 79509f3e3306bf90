package api

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

	"github.com/google/uuid"
)

const (
	// DefaultTimeout is the budget for a detect call. SHAP explanation
	// generation is slow, so the ceiling is deliberately generous and the
	// request is never retried.
	DefaultTimeout = 10 * time.Minute

	// DefaultHealthTimeout bounds the lightweight health probe.
	DefaultHealthTimeout = 10 * time.Second

	defaultUserAgent = "truthlens/1.0 (terminal client; github.com/truthlens/truthlens)"

	// TimeoutMessage is surfaced when a detect call exceeds its budget.
	TimeoutMessage = "Request timed out. The analysis took longer than the configured limit - please try again."
)

// Config carries the transport knobs the client needs.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	HealthTimeout time.Duration
	UserAgent     string
}

// Client talks to the TruthLens detection backend. A single attempt with a
// long timeout is the complete failure policy: explanation generation is not
// safe to fire twice for one article.
type Client struct {
	baseURL       string
	timeout       time.Duration
	healthTimeout time.Duration
	userAgent     string
	httpClient    *http.Client
}

// NewClient builds a client from cfg, filling in defaults for zero values.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = DefaultHealthTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		timeout:       cfg.Timeout,
		healthTimeout: cfg.HealthTimeout,
		userAgent:     cfg.UserAgent,
		httpClient:    &http.Client{},
	}
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// Detect submits an article for classification. The returned result is the
// decoded response body verbatim. ctx may be canceled to abort the in-flight
// call; the timeout uses the same path.
func (c *Client) Detect(ctx context.Context, title, text string) (*DetectionResult, error) {
	var result DetectionResult
	if err := c.do(ctx, http.MethodPost, "/api/detect", &DetectionRequest{Title: title, Text: text}, c.timeout, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health probes the backend and reports whether the model is loaded.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, c.healthTimeout, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Info fetches the informational root payload. Diagnostics only; the shape
// is implementation-defined so it stays a loose map.
func (c *Client) Info(ctx context.Context) (map[string]any, error) {
	var info map[string]any
	if err := c.do(ctx, http.MethodGet, "/", nil, c.healthTimeout, &info); err != nil {
		return nil, err
	}
	return info, nil
}

// do is the shared request funnel: one attempt, timeout and caller
// cancellation on the same context, structured error bodies surfaced
// verbatim.
func (c *Client) do(ctx context.Context, method, path string, body any, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindNetwork, Message: "could not encode request", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "could not build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Client-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return &Error{Kind: KindTimeout, Message: TimeoutMessage, Err: err}
		case errors.Is(err, context.Canceled):
			return &Error{Kind: KindCanceled, Message: "Analysis canceled.", Err: err}
		default:
			return &Error{Kind: KindNetwork, Message: "Could not reach the detection service. Check your connection and the configured base URL.", Err: err}
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindDecode, Message: "The service returned an unreadable response.", Err: err}
	}
	return nil
}

// statusError turns a non-success response into a KindHTTP error, preferring
// the backend's own message when one can be parsed out of the body.
func (c *Client) statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload errorBody
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return &Error{Kind: KindHTTP, Status: resp.StatusCode, Message: payload.Error}
	}

	// FastAPI wraps handler errors in a "detail" envelope.
	var detail struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &detail); err == nil && len(detail.Detail) > 0 {
		var inner errorBody
		if err := json.Unmarshal(detail.Detail, &inner); err == nil && inner.Error != "" {
			return &Error{Kind: KindHTTP, Status: resp.StatusCode, Message: inner.Error}
		}
		var msg string
		if err := json.Unmarshal(detail.Detail, &msg); err == nil && msg != "" {
			return &Error{Kind: KindHTTP, Status: resp.StatusCode, Message: msg}
		}
	}

	return &Error{
		Kind:    KindHTTP,
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("HTTP error! status: %d", resp.StatusCode),
	}
}
