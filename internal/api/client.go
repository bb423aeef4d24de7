// Package api is the HTTP client for the expense backend. It wraps the
// small JSON surface the dashboard needs: the aggregate stats document
// and the transaction create/update/delete/parse calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "http://localhost:8080"

// Client is a minimal expense backend client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client against the default local backend address.
func New() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewWithBaseURL creates a client with a custom base URL.
// Used for configuration overrides, tests, and local stubs.
func NewWithBaseURL(baseURL string) *Client {
	c := New()
	if baseURL != "" {
		c.baseURL = baseURL
	}
	return c
}

// Error is a failed backend call: a non-2xx response, or a 2xx body
// carrying success=false. Message is human-readable and safe to surface.
type Error struct {
	Status  int // 0 for application-level failures
	Message string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	return e.Message
}

// appError builds the application-failure error for a success=false body.
func appError(message, fallback string) *Error {
	if message == "" {
		message = fallback
	}
	return &Error{Message: message}
}

// send performs one JSON round trip. A nil body sends no payload; a nil
// out discards the response body. Non-2xx statuses return an *Error
// carrying the operation's fallback message.
func (c *Client) send(ctx context.Context, method, path string, body, out any, fallback string) error {
	var payload *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		payload = bytes.NewReader(encoded)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: fallback}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any, fallback string) error {
	return c.send(ctx, http.MethodGet, path, nil, out, fallback)
}
