package stream

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ProtocolError is a malformed or unrecognized event frame. The decoder
// reports it as a terminal ErrorEvent; it never retries, retry policy lives
// above it.
type ProtocolError struct {
	Frame string
	Err   error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error decoding frame %q: %v", e.Frame, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// maxFrameSize bounds a single SSE data line.
const maxFrameSize = 10 * 1024 * 1024

// Decode reads server-sent events from body and delivers typed events on the
// returned channel, strictly in arrival order. The channel is closed when the
// stream ends. A well-formed stream closes the channel right after exactly
// one terminal event; if the channel closes without one, the transport died
// mid-stream and the caller must treat that as an error.
//
// The sequence is lazy, finite and non-restartable: Decode consumes body and
// does not seek back.
func Decode(body io.Reader) <-chan Event {
	events := make(chan Event, 128)

	go func() {
		defer close(events)

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 64*1024), maxFrameSize)
		for scanner.Scan() {
			line := scanner.Text()

			// SSE keep-alives and comments carry no payload.
			if line == "" || strings.HasPrefix(line, ":") {
				continue
			}

			data, ok := strings.CutPrefix(line, "data: ")
			if !ok {
				continue
			}

			ev, err := DecodeFrame([]byte(data))
			if err != nil {
				slog.Debug("Malformed stream frame", "error", err)
				events <- Error(err.Error())
				return
			}

			events <- ev
			if IsTerminal(ev) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			slog.Debug("Stream read failed", "error", err)
		}
	}()

	return events
}

// envelope is the discriminator read before a frame is decoded into its
// concrete event type.
type envelope struct {
	Type string `json:"type"`
}

// DecodeFrame decodes one JSON frame payload into its typed event. Unknown
// tags and malformed JSON return a *ProtocolError.
func DecodeFrame(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &ProtocolError{Frame: string(data), Err: err}
	}

	switch env.Type {
	case "assistant_delta":
		var ev AssistantDeltaEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, &ProtocolError{Frame: string(data), Err: err}
		}
		return &ev, nil
	case "status":
		var ev StatusEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, &ProtocolError{Frame: string(data), Err: err}
		}
		return &ev, nil
	case "done":
		var ev DoneEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, &ProtocolError{Frame: string(data), Err: err}
		}
		return &ev, nil
	case "error":
		var ev ErrorEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, &ProtocolError{Frame: string(data), Err: err}
		}
		return &ev, nil
	default:
		return nil, &ProtocolError{Frame: string(data), Err: fmt.Errorf("unknown event type %q", env.Type)}
	}
}
