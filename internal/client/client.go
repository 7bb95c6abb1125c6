// Package client is a typed client for the assistant's external HTTP API.
// Every operation issues one JSON request against the /api surface and
// returns the decoded wire types from internal/api.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultPollInterval and DefaultMaxPollAttempts implement the status
	// polling convention: one check per second, bounded at 120 attempts.
	DefaultPollInterval    = time.Second
	DefaultMaxPollAttempts = 120
)

// Client talks to one assistant instance.
type Client struct {
	baseURL         string
	httpc           *http.Client
	pollInterval    time.Duration
	maxPollAttempts int
}

type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// WithPollInterval overrides the delay between status polls.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.pollInterval = interval
	}
}

// WithMaxPollAttempts overrides the status poll attempt bound.
func WithMaxPollAttempts(attempts int) Option {
	return func(c *Client) {
		c.maxPollAttempts = attempts
	}
}

// New creates a client for the assistant at baseURL (scheme://host:port,
// without the /api prefix).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimSuffix(baseURL, "/"),
		httpc:           http.DefaultClient,
		pollInterval:    DefaultPollInterval,
		maxPollAttempts: DefaultMaxPollAttempts,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured server root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping checks reachability of the assistant via the instructions endpoint.
// The response body is ignored; only transport-level success matters.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.get(ctx, "/api/instructions", nil); err != nil {
		return fmt.Errorf("failed to reach assistant API: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &ConnectionError{BaseURL: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}
