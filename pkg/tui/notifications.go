package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docker/agentsync/pkg/notify"
)

const notificationDuration = 5 * time.Second

// notificationItem is one visible notification with its expiry timer command.
type notificationItem struct {
	id    uint64
	event notify.Event
}

// notificationStack displays extracted side-channel notifications stacked in
// the top right corner until they expire.
type notificationStack struct {
	width  int
	nextID uint64
	items  []notificationItem
}

func newNotificationStack() notificationStack {
	return notificationStack{}
}

func (n *notificationStack) SetWidth(width int) {
	n.width = width
}

// Push adds one notification and returns the command that expires it.
func (n *notificationStack) Push(ev notify.Event) tea.Cmd {
	n.nextID++
	id := n.nextID
	n.items = append(n.items, notificationItem{id: id, event: ev})

	return tea.Tick(notificationDuration, func(time.Time) tea.Msg {
		return hideNotificationMsg{id: id}
	})
}

// Hide removes the notification with the given id.
func (n *notificationStack) Hide(id uint64) {
	items := n.items[:0]
	for _, item := range n.items {
		if item.id != id {
			items = append(items, item)
		}
	}
	n.items = items
}

func (n *notificationStack) Open() bool {
	return len(n.items) > 0
}

func (n *notificationStack) View() string {
	if len(n.items) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(n.items))
	for _, item := range n.items {
		rendered = append(rendered, renderNotification(item.event))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

func renderNotification(ev notify.Event) string {
	style := notificationStyle(ev.Level)

	text := ev.Message
	if ev.Title != "" {
		text = ev.Title + ": " + text
	}
	if ev.AudioClipID != "" {
		text += " ♪"
	}
	return style.Render(text)
}

func notificationStyle(level notify.Level) lipgloss.Style {
	switch level {
	case notify.LevelError:
		return notifyErrorStyle
	case notify.LevelWarning:
		return notifyWarningStyle
	case notify.LevelSuccess:
		return notifySuccessStyle
	default:
		return notifyInfoStyle
	}
}
