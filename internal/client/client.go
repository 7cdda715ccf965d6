// Package client provides a Go client for the prediction HTTP API.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"diabetes-predict/internal/predict"
)

// Client talks to a running prediction server.
type Client struct {
	base string
	rest *resty.Client
}

// New creates a client for the server at base (e.g. "http://localhost:5000").
func New(base string, timeout time.Duration) *Client {
	r := resty.New()
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(5 * time.Second)
	}
	return &Client{base: strings.TrimRight(base, "/"), rest: r}
}

// ValidationError carries the per-field messages from a rejected request.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("request rejected: %s", strings.Join(e.Messages, " "))
}

// Health is the server's health response.
type Health struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

type apiError struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors"`
}

// Predict submits one payload and returns the server's prediction. A 422
// response comes back as *ValidationError; any other non-200 as a plain
// error.
func (c *Client) Predict(ctx context.Context, input map[string]any) (*predict.Result, error) {
	var result predict.Result
	var apiErr apiError

	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(input).
		SetResult(&result).
		SetError(&apiErr).
		Post(c.base + "/predict")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return &result, nil
	case http.StatusUnprocessableEntity:
		return nil, &ValidationError{Messages: apiErr.Errors}
	default:
		if apiErr.Error != "" {
			return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode(), apiErr.Error)
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.String())
	}
}

// Health checks the server's health endpoint.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var health Health
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&health).
		Get(c.base + "/health")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.String())
	}
	return &health, nil
}
