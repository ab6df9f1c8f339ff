// Package api holds the wire types exchanged with the conversation server.
package api

import (
	"time"

	"github.com/docker/agentsync/pkg/chat"
)

// SessionsResponse is one session in the sessions list.
type SessionsResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	NumMessages int    `json:"num_messages"`
}

// SessionResponse is a detailed session, messages included. This is what the
// server returns on reload and is the only transcript persistence the client
// relies on.
type SessionResponse struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Status    string         `json:"status"`
	Provider  string         `json:"provider,omitempty"`
	Model     string         `json:"model,omitempty"`
	Messages  []chat.Message `json:"messages,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// CreateSessionRequest asks the server to create a session.
type CreateSessionRequest struct {
	Title string `json:"title,omitempty"`
}

// SendMessageRequest opens a streaming turn.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// UpdateSessionTitleRequest renames a session.
type UpdateSessionTitleRequest struct {
	Title string `json:"title"`
}

// ErrorResponse is the server's error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
