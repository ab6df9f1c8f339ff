package stream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrame(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want Event
	}{
		{
			name: "assistant delta",
			data: `{"type":"assistant_delta","delta":"Hi"}`,
			want: &AssistantDeltaEvent{Type: "assistant_delta", Delta: "Hi"},
		},
		{
			name: "status",
			data: `{"type":"status","status":"working"}`,
			want: &StatusEvent{Type: "status", Status: "working"},
		},
		{
			name: "error with status",
			data: `{"type":"error","error":"boom","status":"error"}`,
			want: &ErrorEvent{Type: "error", Error: "boom", Status: "error"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ev, err := DecodeFrame([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev)
		})
	}
}

func TestDecodeFrame_Done(t *testing.T) {
	t.Parallel()

	ev, err := DecodeFrame([]byte(`{"type":"done","status":"idle","messages":[{"role":"user","content":"hello"}]}`))
	require.NoError(t, err)

	done, ok := ev.(*DoneEvent)
	require.True(t, ok)
	assert.Equal(t, "idle", done.Status)
	require.Len(t, done.Messages, 1)
	assert.Equal(t, "hello", done.Messages[0].Content)
	assert.True(t, IsTerminal(ev))
}

func TestDecodeFrame_UnknownType(t *testing.T) {
	t.Parallel()

	_, err := DecodeFrame([]byte(`{"type":"telemetry","payload":42}`))
	require.Error(t, err)

	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Contains(t, protoErr.Error(), "unknown event type")
}

func TestDecodeFrame_MalformedJSON(t *testing.T) {
	t.Parallel()

	_, err := DecodeFrame([]byte(`{"type":`))
	require.Error(t, err)

	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
}

func collect(events <-chan Event) []Event {
	var out []Event
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func TestDecode_FullStream(t *testing.T) {
	t.Parallel()

	body := strings.Join([]string{
		`data: {"type":"status","status":"working"}`,
		``,
		`: keep-alive`,
		`data: {"type":"assistant_delta","delta":"Hi"}`,
		``,
		`data: {"type":"assistant_delta","delta":" there"}`,
		``,
		`data: {"type":"done","messages":[],"status":"idle"}`,
		``,
	}, "\n")

	events := collect(Decode(strings.NewReader(body)))

	require.Len(t, events, 4)
	assert.Equal(t, &StatusEvent{Type: "status", Status: "working"}, events[0])
	assert.Equal(t, &AssistantDeltaEvent{Type: "assistant_delta", Delta: "Hi"}, events[1])
	assert.Equal(t, &AssistantDeltaEvent{Type: "assistant_delta", Delta: " there"}, events[2])
	assert.True(t, IsTerminal(events[3]))
}

func TestDecode_StopsAfterTerminal(t *testing.T) {
	t.Parallel()

	body := strings.Join([]string{
		`data: {"type":"done","messages":[],"status":"idle"}`,
		`data: {"type":"assistant_delta","delta":"late"}`,
	}, "\n")

	events := collect(Decode(strings.NewReader(body)))

	require.Len(t, events, 1)
	assert.True(t, IsTerminal(events[0]))
}

func TestDecode_MalformedFrameBecomesErrorEvent(t *testing.T) {
	t.Parallel()

	body := strings.Join([]string{
		`data: {"type":"assistant_delta","delta":"ok"}`,
		`data: {"type":"mystery"}`,
		`data: {"type":"assistant_delta","delta":"never seen"}`,
	}, "\n")

	events := collect(Decode(strings.NewReader(body)))

	require.Len(t, events, 2)
	errEv, ok := events[1].(*ErrorEvent)
	require.True(t, ok)
	assert.Contains(t, errEv.Error, "unknown event type")
}

func TestDecode_AbruptEndWithoutTerminal(t *testing.T) {
	t.Parallel()

	body := `data: {"type":"assistant_delta","delta":"partial"}` + "\n"

	events := collect(Decode(strings.NewReader(body)))

	// The channel closes without a terminal event; detecting that is the
	// caller's job.
	require.Len(t, events, 1)
	assert.False(t, IsTerminal(events[0]))
}

func TestDecode_NonDataLinesIgnored(t *testing.T) {
	t.Parallel()

	body := strings.Join([]string{
		`event: message`,
		`id: 7`,
		`data: {"type":"done","messages":[],"status":"idle"}`,
	}, "\n")

	events := collect(Decode(strings.NewReader(body)))

	require.Len(t, events, 1)
	assert.True(t, IsTerminal(events[0]))
}
