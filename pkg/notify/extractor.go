package notify

import (
	"log/slog"

	"github.com/docker/agentsync/pkg/chat"
)

// Extractor is the per-session two-phase state machine deciding which
// payloads become visible notifications.
//
// The first observation after a session switch is the hydration pass: every
// payload identity in the list is registered as seen without emitting
// anything, so pre-existing history is treated as already acknowledged. Every
// later observation is live: identities not yet seen are added and emitted
// exactly once.
//
// The Extractor owns its seen set exclusively for the session's lifetime and
// is not safe for concurrent use; the single consumer loop is its only
// caller.
type Extractor struct {
	sessionID string
	hydrated  bool
	seen      map[Identity]struct{}
}

func NewExtractor() *Extractor {
	return &Extractor{
		seen: make(map[Identity]struct{}),
	}
}

// Extract scans the message list for notification payloads and returns the
// ones to emit now. Called reactively on every message-list change.
//
// A sessionID different from the previous call resets both the seen set and
// the hydration flag: the next list is history, not news.
func (x *Extractor) Extract(messages []chat.Message, sessionID string) []Event {
	if sessionID != x.sessionID {
		x.sessionID = sessionID
		x.hydrated = false
		x.seen = make(map[Identity]struct{})
	}

	hydrating := !x.hydrated
	x.hydrated = true

	var out []Event
	for i := range messages {
		msg := &messages[i]
		for j := range msg.ToolResults {
			res := &msg.ToolResults[j]
			ev, ok := parsePayload(msg, res)
			if !ok {
				continue
			}

			id := identityOf(msg, res)
			if _, dup := x.seen[id]; dup {
				continue
			}
			x.seen[id] = struct{}{}

			if hydrating {
				continue
			}

			ev.SessionID = sessionID
			slog.Debug("Emitting side-channel notification",
				"session_id", sessionID,
				"tool_call_id", id.ToolCallID,
				"level", ev.Level)
			out = append(out, ev)
		}
	}

	return out
}
