// Package transcript holds the client-side view of one session's
// conversation and the pure fold that keeps it consistent with the stream of
// server events.
package transcript

import (
	"github.com/docker/agentsync/pkg/chat"
	"github.com/docker/agentsync/pkg/stream"
)

// Transcript is the observable conversation state for one session: the
// ordered message list plus the session status. It is a value; Apply never
// mutates its input.
type Transcript struct {
	Messages []chat.Message
	Status   string
}

// Apply folds one stream event into the transcript and returns the next
// transcript. Deltas are applied strictly in arrival order; Apply performs no
// reordering or deduplication.
//
// A DoneEvent replaces the entire message list with the server's
// authoritative list. That replacement is the single reconciliation point
// overriding any divergence accumulated from deltas, including optimistic
// placeholders. An ErrorEvent leaves the message list untouched; rolling back
// speculative placeholders is the orchestrator's job, not the reducer's.
func Apply(t Transcript, ev stream.Event) Transcript {
	switch ev := ev.(type) {
	case *stream.AssistantDeltaEvent:
		if ev.Delta == "" {
			return t
		}
		return appendDelta(t, ev.Delta)

	case *stream.StatusEvent:
		t.Status = ev.Status
		return t

	case *stream.DoneEvent:
		t.Messages = append([]chat.Message(nil), ev.Messages...)
		t.Status = ev.Status
		return t

	case *stream.ErrorEvent:
		if ev.Status != "" {
			t.Status = ev.Status
		}
		return t

	default:
		return t
	}
}

// appendDelta grows the trailing assistant message by the delta, or starts a
// new assistant message seeded with it. Copy-on-write: the messages slice and
// the touched message are cloned so prior snapshots stay valid.
func appendDelta(t Transcript, delta string) Transcript {
	n := len(t.Messages)
	if n > 0 && t.Messages[n-1].Role == chat.MessageRoleAssistant {
		messages := append([]chat.Message(nil), t.Messages...)
		last := messages[n-1].Clone()
		last.Content += delta
		messages[n-1] = last
		t.Messages = messages
		return t
	}

	messages := make([]chat.Message, 0, n+1)
	messages = append(messages, t.Messages...)
	messages = append(messages, chat.AssistantMessage(delta))
	t.Messages = messages
	return t
}
