// Package runtime drives outbound turns: optimistic updates, incremental
// reconciliation against the event stream, rollback on failure, and
// suppression of results for sessions that are no longer in the foreground.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/docker/agentsync/pkg/chat"
	"github.com/docker/agentsync/pkg/session"
	"github.com/docker/agentsync/pkg/stream"
	"github.com/docker/agentsync/pkg/transcript"
)

var (
	// ErrTurnInFlight is returned when a turn is started on a session that
	// already has one outbound turn running.
	ErrTurnInFlight = errors.New("a turn is already in flight for this session")

	// ErrEmptyMessage is returned when the outbound text is blank.
	ErrEmptyMessage = errors.New("message text cannot be empty")

	// ErrStreamInterrupted means the stream closed without a terminal event.
	ErrStreamInterrupted = errors.New("stream ended without a terminal event")
)

// ApplicationError is an explicit error event reported by the server.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string { return e.Message }

// Streamer is the slice of the server client the orchestrator needs.
type Streamer interface {
	CreateSession(ctx context.Context, title string) (*session.Session, error)
	SendMessage(ctx context.Context, sessionID, content string) (<-chan stream.Event, error)
}

// TurnEvent is one stream event tagged with its target session. The consumer
// loop feeds every TurnEvent back through Apply, which compares the tag
// against the foreground session and discards once they diverge.
type TurnEvent struct {
	SessionID string
	Event     stream.Event

	// Err is set instead of Event when the stream failed without delivering
	// a terminal event.
	Err error
}

// State is the explicit per-session state record. It is owned by the
// orchestrator and mutated only through Apply; reads take snapshots of the
// transcript value.
type State struct {
	Session    *session.Session
	Transcript transcript.Transcript
	InFlight   bool
	LastError  error

	// placeholderBase is the message count before the optimistic pair was
	// appended, the truncation point for rollback.
	placeholderBase int
	contentReceived bool
	priorStatus     string
}

// Orchestrator coordinates turns across sessions. It is not safe for
// concurrent use: one consumer loop calls StartTurn/Apply/SetActive, and no
// two Apply calls ever run concurrently.
type Orchestrator struct {
	client Streamer
	states map[string]*State
	active string
}

func New(client Streamer) *Orchestrator {
	return &Orchestrator{
		client: client,
		states: make(map[string]*State),
	}
}

// SetActive switches the foreground session. In-flight turns for other
// sessions keep running server-side; their remaining events are discarded by
// Apply from this point on.
func (o *Orchestrator) SetActive(sessionID string) {
	o.active = sessionID
}

// Active returns the foreground session id.
func (o *Orchestrator) Active() string { return o.active }

// State returns the state record for a session, or nil if unknown.
func (o *Orchestrator) State(sessionID string) *State {
	return o.states[sessionID]
}

// AttachSession registers a session loaded from the server, seeding its
// transcript from the server's message list.
func (o *Orchestrator) AttachSession(sess *session.Session) *State {
	st := &State{
		Session: sess,
		Transcript: transcript.Transcript{
			Messages: append([]chat.Message(nil), sess.Messages...),
			Status:   sess.Status,
		},
	}
	o.states[sess.ID] = st
	return st
}

// StartTurn sends one user message and returns the session id it landed on
// plus the tagged event stream for the consumer loop to fold through Apply.
//
// An empty sessionID creates a session first; the pending text survives that
// boundary. The optimistic user message and empty assistant placeholder are
// appended synchronously before the stream opens. If the stream fails to open
// the two placeholders are rolled back and the error surfaces here; once the
// stream is open, failures surface through Apply instead.
func (o *Orchestrator) StartTurn(ctx context.Context, sessionID, text string) (string, <-chan TurnEvent, error) {
	if strings.TrimSpace(text) == "" {
		return sessionID, nil, ErrEmptyMessage
	}

	if sessionID == "" {
		sess, err := o.client.CreateSession(ctx, "")
		if err != nil {
			return "", nil, fmt.Errorf("creating session: %w", err)
		}
		sessionID = sess.ID
		o.AttachSession(sess)
		if o.active == "" {
			o.active = sessionID
		}
		slog.Debug("Created session for first send", "session_id", sessionID)
	}

	st, ok := o.states[sessionID]
	if !ok {
		st = o.AttachSession(&session.Session{ID: sessionID})
	}
	if st.InFlight {
		return sessionID, nil, ErrTurnInFlight
	}

	st.placeholderBase = len(st.Transcript.Messages)
	st.priorStatus = st.Transcript.Status
	st.contentReceived = false
	st.LastError = nil

	messages := append([]chat.Message(nil), st.Transcript.Messages...)
	messages = append(messages, chat.UserMessage(text), chat.AssistantMessage(""))
	st.Transcript.Messages = messages
	st.Transcript.Status = session.StatusWorking
	o.mirrorStatus(st)

	events, err := o.client.SendMessage(ctx, sessionID, text)
	if err != nil {
		o.rollbackPlaceholders(st)
		st.LastError = err
		return sessionID, nil, err
	}
	st.InFlight = true

	out := make(chan TurnEvent, 128)
	go func() {
		defer close(out)

		sawTerminal := false
		for ev := range events {
			out <- TurnEvent{SessionID: sessionID, Event: ev}
			if stream.IsTerminal(ev) {
				sawTerminal = true
			}
		}
		if !sawTerminal {
			out <- TurnEvent{SessionID: sessionID, Err: ErrStreamInterrupted}
		}
	}()

	return sessionID, out, nil
}

// Apply folds one tagged event into its session's state. Events whose tag no
// longer matches the foreground session are discarded; terminal events still
// clear that session's in-flight flag so a later switch back can send again,
// but nothing else is touched.
func (o *Orchestrator) Apply(te TurnEvent) {
	st, ok := o.states[te.SessionID]
	if !ok {
		return
	}

	terminal := te.Err != nil || (te.Event != nil && stream.IsTerminal(te.Event))

	if te.SessionID != o.active {
		if terminal {
			st.InFlight = false
		}
		slog.Debug("Discarding event for background session",
			"session_id", te.SessionID, "active", o.active)
		return
	}

	if te.Err != nil {
		o.failTurn(st, te.Err)
		return
	}

	st.Transcript = transcript.Apply(st.Transcript, te.Event)

	switch ev := te.Event.(type) {
	case *stream.AssistantDeltaEvent:
		if ev.Delta != "" {
			st.contentReceived = true
		}
	case *stream.DoneEvent:
		st.contentReceived = true
		st.InFlight = false
	case *stream.ErrorEvent:
		o.failTurn(st, &ApplicationError{Message: ev.Error})
	}

	o.mirrorStatus(st)
}

// failTurn ends the in-flight turn with an error. The two optimistic
// placeholders are rolled back only when zero content was ever received;
// otherwise the partial transcript stays visible alongside the error.
func (o *Orchestrator) failTurn(st *State, err error) {
	st.InFlight = false
	st.LastError = err

	if !st.contentReceived {
		o.rollbackPlaceholders(st)
	}
	slog.Debug("Turn failed", "session_id", st.Session.ID, "error", err,
		"rolled_back", !st.contentReceived)
}

func (o *Orchestrator) rollbackPlaceholders(st *State) {
	st.Transcript.Messages = st.Transcript.Messages[:st.placeholderBase]
	st.Transcript.Status = st.priorStatus
	o.mirrorStatus(st)
}

func (o *Orchestrator) mirrorStatus(st *State) {
	if st.Session != nil {
		st.Session.Status = st.Transcript.Status
	}
}
