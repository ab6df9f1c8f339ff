// Package tui is the interactive chat surface. It renders state owned by the
// engine packages and never keeps conversation state of its own.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docker/agentsync/pkg/notify"
	"github.com/docker/agentsync/pkg/runtime"
	"github.com/docker/agentsync/pkg/userconfig"
)

// Model is the top-level TUI model wrapping one chat view.
type Model struct {
	// TUI components
	viewport  viewport.Model
	textInput textinput.Model
	spinner   spinner.Model

	// Engine state. The orchestrator owns all per-session records; the model
	// is the single consumer loop folding tagged events through it.
	orchestrator *runtime.Orchestrator
	extractor    *notify.Extractor

	notifications notificationStack

	// Input token estimate, recomputed behind a quiet period so a burst of
	// keystrokes costs one recomputation.
	estimator  *runtime.Debouncer
	estimateCh chan int
	estimate   int

	settings userconfig.Settings

	ready   bool
	width   int
	height  int
	lastErr error
}

// NewModel creates the chat model. The orchestrator must already have its
// active session attached when resuming an existing conversation.
func NewModel(orch *runtime.Orchestrator, settings userconfig.Settings) *Model {
	ti := textinput.New()
	ti.Placeholder = "Enter your message..."
	ti.Prompt = inputPromptStyle.Render("> ")
	ti.CharLimit = 0
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = toolStyle

	return &Model{
		textInput:     ti,
		spinner:       s,
		orchestrator:  orch,
		extractor:     notify.NewExtractor(),
		notifications: newNotificationStack(),
		estimator:     runtime.NewDebouncer(runtime.EstimateQuietPeriod),
		estimateCh:    make(chan int, 1),
		settings:      settings,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, listenEstimates(m.estimateCh))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateDimensions()
		m.ready = true
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case turnEventMsg:
		return m.handleTurnEvent(msg)

	case turnClosedMsg:
		return m, nil

	case turnFailedMsg:
		m.lastErr = msg.err
		m.refreshViewport()
		return m, nil

	case notificationsMsg:
		for _, ev := range msg {
			cmds = append(cmds, m.notifications.Push(ev))
		}
		return m, tea.Batch(cmds...)

	case hideNotificationMsg:
		m.notifications.Hide(msg.id)
		return m, nil

	case estimateMsg:
		m.estimate = int(msg)
		return m, listenEstimates(m.estimateCh)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.estimator.Stop()
		return m, tea.Quit

	case tea.KeyCtrlN:
		// Switch to a fresh session. An in-flight turn keeps running
		// server-side; its remaining events are discarded once the tags
		// diverge.
		m.orchestrator.SetActive("")
		m.lastErr = nil
		m.refreshViewport()
		return m, nil

	case tea.KeyEnter:
		return m, m.sendTurn()

	default:
		var cmd tea.Cmd
		before := m.textInput.Value()
		m.textInput, cmd = m.textInput.Update(msg)
		if after := m.textInput.Value(); after != before {
			m.scheduleEstimate(after)
		}
		return m, cmd
	}
}

func (m *Model) sendTurn() tea.Cmd {
	text := strings.TrimSpace(m.textInput.Value())
	if text == "" {
		return nil
	}

	sessionID, events, err := m.orchestrator.StartTurn(context.Background(), m.orchestrator.Active(), text)
	if err != nil {
		return func() tea.Msg { return turnFailedMsg{err: err} }
	}

	m.orchestrator.SetActive(sessionID)
	m.textInput.SetValue("")
	m.scheduleEstimate("")
	m.lastErr = nil
	m.refreshViewport()

	return waitForTurnEvent(events)
}

func (m *Model) handleTurnEvent(msg turnEventMsg) (tea.Model, tea.Cmd) {
	te := msg.event
	m.orchestrator.Apply(te)

	cmds := []tea.Cmd{waitForTurnEvent(msg.events)}

	if te.SessionID == m.orchestrator.Active() {
		st := m.orchestrator.State(te.SessionID)
		if st != nil {
			if st.LastError != nil {
				m.lastErr = st.LastError
			}
			if events := m.extractor.Extract(st.Transcript.Messages, te.SessionID); len(events) > 0 {
				cmds = append(cmds, func() tea.Msg { return notificationsMsg(events) })
			}
		}
		m.refreshViewport()
	}

	return m, tea.Batch(cmds...)
}

// scheduleEstimate recomputes the input token estimate after the quiet
// period; another edit within the window supersedes this one.
func (m *Model) scheduleEstimate(text string) {
	m.estimator.Trigger(func() {
		select {
		case m.estimateCh <- estimateTokens(text):
		default:
		}
	})
}

// estimateTokens is the usual rough 4-characters-per-token heuristic.
func estimateTokens(text string) int {
	return (len(text) + 3) / 4
}

func (m *Model) updateDimensions() {
	headerHeight := 1
	footerHeight := 3
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 3 {
		contentHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(m.width, contentHeight)
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = contentHeight
	}
	m.notifications.SetWidth(m.width)
	m.textInput.Width = m.width - 4
}

// refreshViewport re-derives the visible transcript from the active session's
// state snapshot.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	st := m.orchestrator.State(m.orchestrator.Active())
	if st == nil {
		m.viewport.SetContent(mutedStyle.Render("New conversation. Type a message to begin."))
		return
	}

	content := renderTranscript(st.Transcript.Messages, m.settings.HideToolResults)
	if progress := renderTaskProgress(st.Transcript.Messages); progress != "" {
		content += "\n" + progress
	}
	if m.lastErr != nil {
		content += "\n" + errorStyle.Render("Error: "+m.lastErr.Error())
	}

	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.headerView()
	footer := m.footerView()
	view := lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), footer)

	if m.notifications.Open() {
		overlay := m.notifications.View()
		return lipgloss.JoinVertical(lipgloss.Left, overlay, view)
	}
	return view
}

func (m *Model) headerView() string {
	title := "agentsync"
	st := m.orchestrator.State(m.orchestrator.Active())
	if st != nil && st.Session != nil && st.Session.Title != "" {
		title = st.Session.Title
	}

	status := ""
	if st != nil {
		status = st.Transcript.Status
		if st.InFlight {
			status = m.spinner.View() + " " + status
		}
	}
	return statusStyle.Render(fmt.Sprintf("%s  %s", title, status))
}

func (m *Model) footerView() string {
	estimate := ""
	if m.estimate > 0 {
		estimate = statusStyle.Render(fmt.Sprintf("~%d tokens", m.estimate))
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.textInput.View(), estimate)
}

// waitForTurnEvent reads the next tagged event off the turn's channel.
func waitForTurnEvent(events <-chan runtime.TurnEvent) tea.Cmd {
	return func() tea.Msg {
		te, ok := <-events
		if !ok {
			return turnClosedMsg{}
		}
		return turnEventMsg{event: te, events: events}
	}
}

// listenEstimates forwards debounced estimate recomputations into the update
// loop.
func listenEstimates(ch <-chan int) tea.Cmd {
	return func() tea.Msg {
		return estimateMsg(<-ch)
	}
}
