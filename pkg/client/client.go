// Package client is the HTTP client for the conversation server API,
// including the streaming message endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/docker/agentsync/pkg/api"
	"github.com/docker/agentsync/pkg/httpclient"
	"github.com/docker/agentsync/pkg/session"
	"github.com/docker/agentsync/pkg/stream"
)

// TransportError is a failure to open a stream or reach the server at all.
// It is distinct from an application error the server reports in-band.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client talks to the conversation server.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout for non-streaming requests.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	httpClient := httpclient.NewHTTPClient()
	httpClient.Timeout = 30 * time.Second

	client := &Client{
		baseURL:    parsedURL,
		httpClient: httpClient,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// doRequest performs a request and handles the common response patterns.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	u := *c.baseURL
	u.Path = path.Join(u.Path, endpoint)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode >= 400 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshaling response: %w", err)
		}
	}

	return nil
}

// CreateSession creates a new session on the server.
func (c *Client) CreateSession(ctx context.Context, title string) (*session.Session, error) {
	req := api.CreateSessionRequest{Title: title}
	var resp api.SessionResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/sessions", req, &resp); err != nil {
		return nil, err
	}
	return sessionFromResponse(&resp), nil
}

// GetSessions lists all sessions.
func (c *Client) GetSessions(ctx context.Context) ([]api.SessionsResponse, error) {
	var sessions []api.SessionsResponse
	err := c.doRequest(ctx, http.MethodGet, "/api/sessions", nil, &sessions)
	return sessions, err
}

// GetSession retrieves one session with its full message list.
func (c *Client) GetSession(ctx context.Context, id string) (*session.Session, error) {
	var resp api.SessionResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/sessions/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return sessionFromResponse(&resp), nil
}

// DeleteSession deletes a session by id.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.doRequest(ctx, http.MethodDelete, "/api/sessions/"+id, nil, nil)
}

// UpdateSessionTitle renames a session.
func (c *Client) UpdateSessionTitle(ctx context.Context, id, title string) error {
	req := api.UpdateSessionTitleRequest{Title: title}
	return c.doRequest(ctx, http.MethodPatch, "/api/sessions/"+id+"/title", req, nil)
}

// SendMessage posts one user message to the session and returns the stream of
// typed events for the server's response. The channel is closed when the
// stream ends; a close without a terminal event means the transport died
// mid-stream.
func (c *Client) SendMessage(ctx context.Context, sessionID, content string) (<-chan stream.Event, error) {
	jsonBody, err := json.Marshal(api.SendMessageRequest{Content: content})
	if err != nil {
		return nil, fmt.Errorf("marshaling request body: %w", err)
	}

	u := *c.baseURL
	u.Path = path.Join(u.Path, "/api/sessions/"+sessionID+"/messages")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// Streaming requests must not inherit the default client timeout.
	httpClient := &http.Client{Transport: c.httpClient.Transport}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &TransportError{Err: err}
		}

		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Error)
		}
		return nil, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(respBody))
	}

	events := make(chan stream.Event, 128)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		for ev := range stream.Decode(resp.Body) {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
			if stream.IsTerminal(ev) {
				return
			}
		}
	}()

	return events, nil
}

func sessionFromResponse(resp *api.SessionResponse) *session.Session {
	return &session.Session{
		ID:        resp.ID,
		Title:     resp.Title,
		Status:    resp.Status,
		Provider:  resp.Provider,
		Model:     resp.Model,
		Messages:  resp.Messages,
		CreatedAt: resp.CreatedAt,
	}
}
