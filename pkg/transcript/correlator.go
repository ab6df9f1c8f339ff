package transcript

import (
	"time"

	"github.com/docker/agentsync/pkg/chat"
)

// NodeKind discriminates the render nodes derived from a message list.
type NodeKind int

const (
	// NodeMessage is a plain transcript message.
	NodeMessage NodeKind = iota
	// NodeToolRecord is one tool call paired with its result, or awaiting it.
	NodeToolRecord
	// NodeToolText is a tool message with no results but non-empty text.
	NodeToolText
)

// ToolExecutionRecord pairs one tool call with zero-or-one result. It is
// derived, never stored: recomputing from the message list on every read
// avoids a second source of truth. A nil Result renders as "awaiting result";
// a nil Call is a standalone result with no visible call.
type ToolExecutionRecord struct {
	Call      *chat.ToolCall
	Result    *chat.ToolResult
	Timestamp time.Time
}

// Awaiting reports whether the call has no result yet.
func (r *ToolExecutionRecord) Awaiting() bool {
	return r.Call != nil && r.Result == nil
}

// RenderNode is one display-ordered entry derived from the transcript.
type RenderNode struct {
	Kind       NodeKind
	Message    *chat.Message
	Record     *ToolExecutionRecord
	Compaction bool
}

// DeriveRecords walks the full message list and produces display-ordered
// render nodes, pairing tool calls with their results by tool_call_id.
//
// An assistant message carrying tool calls looks ahead at most one message;
// if that message is a tool message with results, those results join the
// candidate set and the message is consumed. The depth-1 bound keeps a run of
// malformed consecutive tool messages from being absorbed wholesale: a second
// tool-only message immediately after a consumed one renders as standalone
// records instead.
func DeriveRecords(messages []chat.Message) []RenderNode {
	var nodes []RenderNode

	for i := 0; i < len(messages); i++ {
		msg := &messages[i]

		switch {
		case msg.Role == chat.MessageRoleAssistant && len(msg.ToolCalls) > 0:
			if msg.Content != "" {
				nodes = append(nodes, RenderNode{Kind: NodeMessage, Message: msg})
			}

			candidates := make(map[string]*chat.ToolResult, len(msg.ToolCalls))
			for j := range msg.ToolResults {
				res := &msg.ToolResults[j]
				candidates[res.ToolCallID] = res
			}
			if i+1 < len(messages) {
				next := &messages[i+1]
				if next.Role == chat.MessageRoleTool && len(next.ToolResults) > 0 {
					for j := range next.ToolResults {
						res := &next.ToolResults[j]
						candidates[res.ToolCallID] = res
					}
					i++
				}
			}

			for j := range msg.ToolCalls {
				call := &msg.ToolCalls[j]
				nodes = append(nodes, RenderNode{
					Kind: NodeToolRecord,
					Record: &ToolExecutionRecord{
						Call:      call,
						Result:    candidates[call.ID],
						Timestamp: msg.CreatedAt,
					},
				})
			}

		case msg.Role == chat.MessageRoleTool && len(msg.ToolResults) > 0:
			for j := range msg.ToolResults {
				res := &msg.ToolResults[j]
				nodes = append(nodes, RenderNode{
					Kind: NodeToolRecord,
					Record: &ToolExecutionRecord{
						Result:    res,
						Timestamp: msg.CreatedAt,
					},
				})
			}

		case msg.Role == chat.MessageRoleTool && msg.Content != "":
			nodes = append(nodes, RenderNode{Kind: NodeToolText, Message: msg})

		default:
			nodes = append(nodes, RenderNode{
				Kind:       NodeMessage,
				Message:    msg,
				Compaction: msg.IsCompactionMarker(),
			})
		}
	}

	return nodes
}
