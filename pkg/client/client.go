// Package client submits pipelines to the validation backend.
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

	"github.com/aretw0/pipecanvas/pkg/domain"
)

// DefaultBaseURL is where the editor expects the backend.
const DefaultBaseURL = "http://localhost:8000"

// ParsePath is the validation route.
const ParsePath = "/pipelines/parse"

// Client talks to a validation backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a client for the backend at baseURL (DefaultBaseURL when empty).
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend location.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Submit sends the pipeline for analysis. A cyclic pipeline is a successful
// answer; check ParseResult.Warning. Transport failures and non-2xx answers
// wrap domain.ErrBackendUnavailable and name the backend location.
func (c *Client) Submit(ctx context.Context, p domain.Pipeline) (domain.ParseResult, error) {
	if p.Nodes == nil {
		p.Nodes = []domain.Node{}
	}
	if p.Edges == nil {
		p.Edges = []domain.Edge{}
	}

	body, err := json.Marshal(p)
	if err != nil {
		return domain.ParseResult{}, fmt.Errorf("failed to marshal pipeline: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ParsePath, bytes.NewReader(body))
	if err != nil {
		return domain.ParseResult{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.ParseResult{}, c.unavailable(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return domain.ParseResult{}, c.unavailable(fmt.Sprintf("HTTP error! status: %d", resp.StatusCode))
	}

	var result domain.ParseResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.ParseResult{}, c.unavailable(fmt.Sprintf("invalid response: %v", err))
	}
	return result, nil
}

func (c *Client) unavailable(reason string) error {
	return fmt.Errorf("%w: %s. Make sure the backend is running on %s", domain.ErrBackendUnavailable, reason, c.baseURL)
}
