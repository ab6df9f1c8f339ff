package tui

import (
	"github.com/docker/agentsync/pkg/notify"
	"github.com/docker/agentsync/pkg/runtime"
)

// Message types
// Dedicated types leverage Bubble Tea's type-based message routing. They
// remain unexported as they are internal to the TUI.
type (
	// turnEventMsg carries one tagged stream event plus the channel to keep
	// reading from.
	turnEventMsg struct {
		event  runtime.TurnEvent
		events <-chan runtime.TurnEvent
	}

	// turnClosedMsg signals that the turn's event channel was drained.
	turnClosedMsg struct{}

	// turnFailedMsg surfaces a StartTurn error.
	turnFailedMsg struct{ err error }

	// notificationsMsg carries freshly extracted side-channel notifications.
	notificationsMsg []notify.Event

	// estimateMsg carries a recomputed input token estimate.
	estimateMsg int

	// hideNotificationMsg expires one displayed notification.
	hideNotificationMsg struct{ id uint64 }
)
