// Package chat defines the conversation value types shared by the wire
// protocol, the transcript engine and the TUI.
package chat

import (
	"time"
)

// MessageRole is the author of a transcript message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleTool      MessageRole = "tool"
	MessageRoleSystem    MessageRole = "system"
)

// metadata key marking a message as a history compaction marker.
const compactionMetadataKey = "compaction"

// Message is one ordered transcript entry. While a response is streaming the
// trailing assistant message's Content grows by append until a terminal event
// closes it.
type Message struct {
	Role        MessageRole    `json:"role"`
	Content     string         `json:"content"`
	ToolCalls   []ToolCall     `json:"tool_calls,omitempty"`
	ToolResults []ToolResult   `json:"tool_results,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ToolCall is a request by the assistant to run a tool. ID is the correlation
// key matched against ToolResult.ToolCallID.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"`
}

// ToolResult is the outcome of one tool call. Metadata may carry side-channel
// payloads (notifications, audio, images) that are not part of the tool's
// primary answer.
type ToolResult struct {
	ToolCallID string         `json:"tool_call_id"`
	Content    string         `json:"content"`
	IsError    bool           `json:"is_error,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// UserMessage builds a user message stamped with the current time.
func UserMessage(content string) Message {
	return Message{
		Role:      MessageRoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// AssistantMessage builds an assistant message stamped with the current time.
func AssistantMessage(content string) Message {
	return Message{
		Role:      MessageRoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// IsCompactionMarker reports whether the message marks a history compaction
// point, read from message metadata.
func (m *Message) IsCompactionMarker() bool {
	if m.Metadata == nil {
		return false
	}
	v, ok := m.Metadata[compactionMetadataKey].(bool)
	return ok && v
}

// Clone returns a deep enough copy for the reducer's copy-on-write fold:
// slices are copied, element structs are value types.
func (m Message) Clone() Message {
	out := m
	if m.ToolCalls != nil {
		out.ToolCalls = append([]ToolCall(nil), m.ToolCalls...)
	}
	if m.ToolResults != nil {
		out.ToolResults = append([]ToolResult(nil), m.ToolResults...)
	}
	return out
}
