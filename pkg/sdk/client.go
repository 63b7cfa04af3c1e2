// Package sdk provides a typed Go client for the nicsite HTTP API.
//
//	client := sdk.New("http://localhost:8080")
//	res, _ := client.Search(ctx, "mri safety")
//	for _, r := range res.Results {
//	    fmt.Println(r.Title, r.File)
//	}
//
// The client mints no identity of its own: the server assigns a client
// ID on first contact and the SDK replays it on every later call, which
// keeps drafts, search history, and preferences scoped to this client.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Sentinel errors mapped from API error codes. Use errors.Is() to check.
var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrSubmissionInFlight = errors.New("submission already in flight")
	ErrMailDelivery       = errors.New("mail delivery failed")
	ErrNotFound           = errors.New("not found")
)

const clientIDHeader = "X-Client-ID"

// Client talks to a nicsite API server.
type Client struct {
	baseURL string
	http    *http.Client

	mu       sync.Mutex
	clientID string
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithClientID resumes an existing client identity instead of letting
// the server mint one.
func WithClientID(id string) Option {
	return func(c *Client) { c.clientID = id }
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ClientID returns the identity in use, empty until the first call.
func (c *Client) ClientID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clientID
}

// Notice is a user-facing message returned alongside a response.
type Notice struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

type apiError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Notices []Notice `json:"notices,omitempty"`
}

// Error carries a structured API failure.
type Error struct {
	StatusCode int
	Code       string
	Message    string
	Notices    []Notice
}

func (e *Error) Error() string {
	return fmt.Sprintf("nicsite: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Unwrap maps the API code to a sentinel for errors.Is checks.
func (e *Error) Unwrap() error {
	switch e.Code {
	case "validation_failed":
		return ErrValidationFailed
	case "submission_in_flight":
		return ErrSubmissionInFlight
	case "mail_delivery_failed":
		return ErrMailDelivery
	case "not_found":
		return ErrNotFound
	default:
		return nil
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := c.ClientID(); id != "" {
		req.Header.Set(clientIDHeader, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("nicsite request: %w", err)
	}
	defer resp.Body.Close()

	if id := resp.Header.Get(clientIDHeader); id != "" {
		c.mu.Lock()
		c.clientID = id
		c.mu.Unlock()
	}

	if resp.StatusCode >= 400 {
		var ae apiError
		_ = json.NewDecoder(resp.Body).Decode(&ae)
		return &Error{
			StatusCode: resp.StatusCode,
			Code:       ae.Code,
			Message:    ae.Message,
			Notices:    ae.Notices,
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
