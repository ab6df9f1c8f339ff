// Package stream decodes one live response body into a finite, ordered
// sequence of typed events.
package stream

import (
	"github.com/docker/agentsync/pkg/chat"
)

// Event is one decoded stream frame. The set of implementations is closed:
// unknown wire tags are a protocol error, never silently ignored.
type Event interface {
	isEvent()
}

// AssistantDeltaEvent carries a text fragment to append to the in-flight
// assistant message.
type AssistantDeltaEvent struct {
	Type  string `json:"type"`
	Delta string `json:"delta"`
}

func AssistantDelta(delta string) Event {
	return &AssistantDeltaEvent{
		Type:  "assistant_delta",
		Delta: delta,
	}
}

func (e *AssistantDeltaEvent) isEvent() {}

// StatusEvent carries a session status change. It has no transcript effect.
type StatusEvent struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

func Status(status string) Event {
	return &StatusEvent{
		Type:   "status",
		Status: status,
	}
}

func (e *StatusEvent) isEvent() {}

// DoneEvent terminates a successful stream and carries the server's
// authoritative final message list.
type DoneEvent struct {
	Type     string         `json:"type"`
	Messages []chat.Message `json:"messages"`
	Status   string         `json:"status"`
}

func Done(messages []chat.Message, status string) Event {
	return &DoneEvent{
		Type:     "done",
		Messages: messages,
		Status:   status,
	}
}

func (e *DoneEvent) isEvent() {}

// ErrorEvent terminates a failed stream.
type ErrorEvent struct {
	Type   string `json:"type"`
	Error  string `json:"error"`
	Status string `json:"status,omitempty"`
}

func Error(msg string) Event {
	return &ErrorEvent{
		Type:  "error",
		Error: msg,
	}
}

func (e *ErrorEvent) isEvent() {}

// IsTerminal reports whether the event ends its stream. Exactly one terminal
// event is delivered per well-formed stream; a stream that closes without one
// is a transport failure the consumer must detect.
func IsTerminal(ev Event) bool {
	switch ev.(type) {
	case *DoneEvent, *ErrorEvent:
		return true
	default:
		return false
	}
}
