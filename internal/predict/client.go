package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultPredictTimeout = 30 * time.Second
	DefaultHealthTimeout  = 5 * time.Second

	maxBodyBytes = 64 << 10
)

// Client talks to the external building prediction service.
type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	PredictTimeout time.Duration
	HealthTimeout  time.Duration
	Log            *slog.Logger
}

func NewClient(baseURL string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		BaseURL:        strings.TrimRight(baseURL, "/"),
		HTTPClient:     &http.Client{},
		PredictTimeout: DefaultPredictTimeout,
		HealthTimeout:  DefaultHealthTimeout,
		Log:            log,
	}
}

// Predict validates req and posts it to /predict. It never retries.
func (c *Client) Predict(ctx context.Context, req BuildingRequest) (Prediction, error) {
	if err := req.Validate(); err != nil {
		return Prediction{}, err
	}
	c.Log.Debug("calling prediction service", "url", c.BaseURL+"/predict")

	ctx, cancel := context.WithTimeout(ctx, c.PredictTimeout)
	defer cancel()

	var out Prediction
	if err := c.postJSON(ctx, "/predict", req, &out); err != nil {
		c.Log.Warn("prediction failed", "error", err)
		return Prediction{}, err
	}
	c.Log.Debug("prediction successful", "status", out.Status)
	return out, nil
}

// IsHealthy reports whether /health answered with a body containing "healthy".
func (c *Client) IsHealthy(ctx context.Context) bool {
	body, err := c.getText(ctx, "/health")
	if err != nil {
		c.Log.Warn("prediction service health check failed", "error", err)
		return false
	}
	return strings.Contains(body, "healthy")
}

// ModelInfo returns the raw /model-info body, or a string starting with
// "Error:" when the call fails.
func (c *Client) ModelInfo(ctx context.Context) string {
	body, err := c.getText(ctx, "/model-info")
	if err != nil {
		c.Log.Warn("cannot get model info", "error", err)
		return "Error: " + err.Error()
	}
	if body == "" {
		return "Model info not available"
	}
	return body
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return &UnavailableError{URL: c.BaseURL, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	body, status, err := c.do(req)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return &ServiceError{StatusCode: status, Body: body}
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return &ServiceError{StatusCode: status, Body: fmt.Sprintf("undecodable response: %v", err)}
	}
	return nil
}

func (c *Client) getText(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return "", &UnavailableError{URL: c.BaseURL, Err: err}
	}
	body, status, err := c.do(req)
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		return "", &ServiceError{StatusCode: status, Body: body}
	}
	return body, nil
}

func (c *Client) do(req *http.Request) (string, int, error) {
	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", 0, &UnavailableError{URL: c.BaseURL, Err: err}
	}
	defer res.Body.Close()

	b, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil && !errors.Is(err, io.EOF) {
		return "", res.StatusCode, &UnavailableError{URL: c.BaseURL, Err: err}
	}
	return string(b), res.StatusCode, nil
}
