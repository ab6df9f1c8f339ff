// Package session defines the conversation session value.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/docker/agentsync/pkg/chat"
)

// Well-known session statuses. The server may report others; the client
// treats status as an opaque label outside of these.
const (
	StatusIdle    = "idle"
	StatusWorking = "working"
	StatusError   = "error"
)

// Session is one conversation with the server. The session exclusively owns
// its message list: appends happen at the tail only, except for in-place
// growth of the trailing assistant message while a response streams.
type Session struct {
	ID        string         `json:"id"`
	Title     string         `json:"title,omitempty"`
	Status    string         `json:"status,omitempty"`
	Provider  string         `json:"provider,omitempty"`
	Model     string         `json:"model,omitempty"`
	Messages  []chat.Message `json:"messages,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type Opt func(s *Session)

func WithTitle(title string) Opt {
	return func(s *Session) {
		s.Title = title
	}
}

func WithModel(provider, model string) Opt {
	return func(s *Session) {
		s.Provider = provider
		s.Model = model
	}
}

// New creates a session with a client-generated id. The server may replace
// the id on creation; callers must use the id the server returns.
func New(opts ...Opt) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		Status:    StatusIdle,
		CreatedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}
