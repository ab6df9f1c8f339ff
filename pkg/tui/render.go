package tui

import (
	"fmt"
	"strings"

	"github.com/docker/agentsync/pkg/chat"
	"github.com/docker/agentsync/pkg/tasklist"
	"github.com/docker/agentsync/pkg/transcript"
)

const argPreviewLen = 60

// renderTranscript turns the derived render nodes into the chat viewport
// content. All pairing and ordering decisions live in the correlator; this
// only formats.
func renderTranscript(messages []chat.Message, hideToolResults bool) string {
	var b strings.Builder

	for _, node := range transcript.DeriveRecords(messages) {
		switch node.Kind {
		case transcript.NodeToolRecord:
			b.WriteString(renderToolRecord(node.Record, hideToolResults))
		case transcript.NodeToolText:
			b.WriteString(toolStyle.Render(node.Message.Content))
			b.WriteString("\n\n")
		default:
			b.WriteString(renderMessage(node))
		}
	}

	return b.String()
}

func renderMessage(node transcript.RenderNode) string {
	msg := node.Message

	if node.Compaction {
		return markerStyle.Render("─── conversation compacted ───") + "\n\n"
	}

	switch msg.Role {
	case chat.MessageRoleUser:
		return userStyle.Render("You: ") + msg.Content + "\n\n"
	case chat.MessageRoleAssistant:
		if msg.Content == "" {
			return ""
		}
		return assistantStyle.Render(msg.Content) + "\n\n"
	case chat.MessageRoleSystem:
		return mutedStyle.Render(msg.Content) + "\n\n"
	default:
		return msg.Content + "\n\n"
	}
}

func renderToolRecord(rec *transcript.ToolExecutionRecord, hideToolResults bool) string {
	var b strings.Builder

	if rec.Call != nil {
		b.WriteString(toolStyle.Render(fmt.Sprintf("🔧 %s(%s)",
			rec.Call.Name, truncateWithEllipsis(rec.Call.Arguments, argPreviewLen))))
		b.WriteString("\n")
	}

	switch {
	case rec.Awaiting():
		b.WriteString(mutedStyle.Render("   ⋯ awaiting result"))
		b.WriteString("\n")
	case rec.Result != nil && !hideToolResults:
		prefix := "   ✔ "
		style := mutedStyle
		if rec.Result.IsError {
			prefix = "   ✘ "
			style = errorStyle
		}
		b.WriteString(style.Render(prefix + truncateWithEllipsis(rec.Result.Content, argPreviewLen)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	return b.String()
}

// renderTaskProgress renders the checkbox task tree parsed from the last
// assistant message. An empty parse renders nothing: the panel is suppressed,
// not an error.
func renderTaskProgress(messages []chat.Message) string {
	text := lastAssistantContent(messages)
	if text == "" {
		return ""
	}

	progress := tasklist.Parse(text)
	if progress.Total == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tasks %d/%d (%d%%)\n", progress.Completed, progress.Total, progress.Percent)
	renderTaskItems(&b, progress.Tasks, 0)
	return progressStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func renderTaskItems(b *strings.Builder, items []*tasklist.Item, depth int) {
	for _, item := range items {
		box := "[ ]"
		if item.Completed {
			box = "[x]"
		}
		fmt.Fprintf(b, "%s%s %s\n", strings.Repeat("  ", depth), box, item.Text)
		renderTaskItems(b, item.Children, depth+1)
	}
}

func lastAssistantContent(messages []chat.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == chat.MessageRoleAssistant {
			return messages[i].Content
		}
	}
	return ""
}

func truncateWithEllipsis(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "…"
}
