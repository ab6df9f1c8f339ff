package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docker/agentsync/pkg/api"
	"github.com/docker/agentsync/pkg/stream"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	require.NoError(t, err)
	return c
}

func TestNew_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := New("://not-a-url")
	require.Error(t, err)
}

func TestCreateSession(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sessions", r.URL.Path)

		var req api.CreateSessionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "my chat", req.Title)

		json.NewEncoder(w).Encode(api.SessionResponse{
			ID:     "sess-1",
			Title:  req.Title,
			Status: "idle",
		})
	})

	sess, err := c.CreateSession(context.Background(), "my chat")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", sess.ID)
	assert.Equal(t, "my chat", sess.Title)
	assert.Equal(t, "idle", sess.Status)
}

func TestGetSessions(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/sessions", r.URL.Path)

		json.NewEncoder(w).Encode([]api.SessionsResponse{
			{ID: "a", Title: "first", NumMessages: 4},
			{ID: "b", Title: "second", NumMessages: 0},
		})
	})

	sessions, err := c.GetSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "first", sessions[0].Title)
	assert.Equal(t, 4, sessions[0].NumMessages)
}

func TestUpdateSessionTitle(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/sessions/sess-1/title", r.URL.Path)

		var req api.UpdateSessionTitleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "renamed", req.Title)
	})

	require.NoError(t, c.UpdateSessionTitle(context.Background(), "sess-1", "renamed"))
}

func TestDoRequest_ServerErrorEnvelope(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(api.ErrorResponse{Error: "session not found"})
	})

	_, err := c.GetSession(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session not found")
	assert.Contains(t, err.Error(), "404")

	var transportErr *TransportError
	assert.NotErrorAs(t, err, &transportErr, "an in-band server error is not a transport error")
}

func TestDoRequest_UnreachableServerIsTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.GetSessions(context.Background())
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestSendMessage_StreamsEvents(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sessions/sess-1/messages", r.URL.Path)
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		var req api.SendMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Content)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(`data: {"type":"assistant_delta","delta":"Hi"}` + "\n\n"))
		w.Write([]byte(`data: {"type":"assistant_delta","delta":" there"}` + "\n\n"))
		w.Write([]byte(`data: {"type":"done","messages":[],"status":"idle"}` + "\n\n"))
	})

	events, err := c.SendMessage(context.Background(), "sess-1", "hello")
	require.NoError(t, err)

	var got []stream.Event
	for ev := range events {
		got = append(got, ev)
	}

	require.Len(t, got, 3)
	assert.Equal(t, stream.AssistantDelta("Hi"), got[0])
	assert.Equal(t, stream.AssistantDelta(" there"), got[1])
	assert.True(t, stream.IsTerminal(got[2]))
}

func TestSendMessage_StopsAfterTerminalEvent(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(`data: {"type":"done","messages":[],"status":"idle"}` + "\n\n"))
		w.Write([]byte(`data: {"type":"assistant_delta","delta":"after the end"}` + "\n\n"))
	})

	events, err := c.SendMessage(context.Background(), "sess-1", "hello")
	require.NoError(t, err)

	var got []stream.Event
	for ev := range events {
		got = append(got, ev)
	}

	require.Len(t, got, 1)
	assert.True(t, stream.IsTerminal(got[0]))
}

func TestSendMessage_ErrorStatusSurfacesBeforeStreaming(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(api.ErrorResponse{Error: "turn already running"})
	})

	_, err := c.SendMessage(context.Background(), "sess-1", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "turn already running")
}

func TestSendMessage_ContextCancelStopsForwarding(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(`data: {"type":"assistant_delta","delta":"x"}` + "\n\n"))
	})

	events, err := c.SendMessage(ctx, "sess-1", "hello")
	if err != nil {
		// Cancellation may already fail the request itself.
		return
	}

	// The channel must close rather than block forever.
	for range events {
	}
}
