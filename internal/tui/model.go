// Package tui is the interactive feed viewer.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dispecer/fleetray/internal/domain"
	"github.com/dispecer/fleetray/internal/engine"
	"github.com/dispecer/fleetray/internal/errors"
	"github.com/dispecer/fleetray/internal/ports"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Read    key.Binding
	Dismiss key.Binding
	ReadAll key.Binding
	Clear   key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
	Read:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "mark read")),
	Dismiss: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dismiss")),
	ReadAll: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "read all")),
	Clear:   key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
	Refresh: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sync")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	unreadStyle   = lipgloss.NewStyle().Bold(true)
	readStyle     = lipgloss.NewStyle().Faint(true)
	categoryStyle = map[domain.Category]lipgloss.Style{
		domain.CategoryDocumentExpiration: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		domain.CategoryTransportUpdate:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		domain.CategoryDriverStatusChange: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	}
	defaultCategoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	statusStyle          = lipgloss.NewStyle().Faint(true)
	errorStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	successStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func messageStyle(kind errors.MessageType) lipgloss.Style {
	switch kind {
	case errors.MessageTypeWarning:
		return warningStyle
	case errors.MessageTypeSuccess:
		return successStyle
	case errors.MessageTypeInfo:
		return statusStyle
	default:
		return errorStyle
	}
}

// snapshotMsg refreshes the rendered feed.
type snapshotMsg engine.Snapshot

// mutationDoneMsg reports the outcome of an engine mutation.
type mutationDoneMsg struct{ err error }

// tickMsg re-polls the engine so externally ingested events show up.
type tickMsg time.Time

// Model is the bubbletea model for the feed viewer.
type Model struct {
	engine *engine.Engine
	ctx    context.Context
	// conn reports the realtime stream state for the header. nil when the
	// viewer runs without a stream.
	conn ports.ConnStateSource

	// handler collects mutation outcomes; the latest one is rendered in
	// the message line.
	handler *errors.TUIHandler

	items     []domain.Notification
	unread    int
	cursor    int
	status    errors.Message
	hasStatus bool
	height    int
}

// NewModel creates the feed viewer on top of a started engine. conn may be
// nil when no realtime stream runs.
func NewModel(ctx context.Context, eng *engine.Engine, conn ports.ConnStateSource) Model {
	return Model{engine: eng, ctx: ctx, conn: conn, handler: errors.NewTUIHandler(nil), height: 24}
}

// Init schedules the first snapshot and the poll loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.snapshotCmd(), tickCmd())
}

func (m Model) snapshotCmd() tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(m.engine.Snapshot())
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles key presses and refresh messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case snapshotMsg:
		m.items = msg.Items
		m.unread = msg.UnreadCount
		if m.cursor >= len(m.items) {
			m.cursor = len(m.items) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.snapshotCmd(), tickCmd())

	case mutationDoneMsg:
		if msg.err != nil {
			m.handler.Error(msg.err.Error())
		} else {
			m.handler.Clear()
		}
		m.status, m.hasStatus = m.handler.Latest()
		return m, m.snapshotCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, keys.Read):
		if n, ok := m.selected(); ok {
			return m, m.mutate(func(ctx context.Context) error {
				return m.engine.MarkRead(ctx, n.ID)
			})
		}
		return m, nil

	case key.Matches(msg, keys.Dismiss):
		if n, ok := m.selected(); ok {
			return m, m.mutate(func(ctx context.Context) error {
				return m.engine.Dismiss(ctx, n.ID)
			})
		}
		return m, nil

	case key.Matches(msg, keys.ReadAll):
		return m, m.mutate(m.engine.MarkAllRead)

	case key.Matches(msg, keys.Clear):
		return m, m.mutate(m.engine.DismissAll)

	case key.Matches(msg, keys.Refresh):
		return m, m.mutate(m.engine.Reconcile)
	}
	return m, nil
}

func (m Model) selected() (domain.Notification, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return domain.Notification{}, false
	}
	return m.items[m.cursor], true
}

func (m Model) mutate(fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		opCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return mutationDoneMsg{err: fn(opCtx)}
	}
}

// View renders the feed.
func (m Model) View() string {
	header := titleStyle.Render(fmt.Sprintf("fleetray  %d notifications, %d unread", len(m.items), m.unread))
	if m.conn != nil {
		header += "  " + statusStyle.Render(streamLabel(m.conn))
	}
	out := header + "\n\n"

	if len(m.items) == 0 {
		out += statusStyle.Render("No notifications") + "\n"
	}

	visible := m.height - 5
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	for i := start; i < len(m.items) && i < start+visible; i++ {
		out += m.renderRow(i) + "\n"
	}

	if m.hasStatus {
		out += "\n" + messageStyle(m.status.Type).Render("! "+m.status.Text)
	}
	out += "\n" + statusStyle.Render("j/k move  r read  d dismiss  R read all  C clear  s sync  q quit")
	return out
}

func (m Model) renderRow(i int) string {
	n := m.items[i]

	catStyle, ok := categoryStyle[n.Category]
	if !ok {
		catStyle = defaultCategoryStyle
	}
	marker := "*"
	lineStyle := unreadStyle
	if n.IsRead {
		marker = " "
		lineStyle = readStyle
	}

	line := fmt.Sprintf("%s %s %s  %s",
		marker,
		catStyle.Render(fmt.Sprintf("%-20s", n.Category)),
		n.CreatedAt.Format("01-02 15:04"),
		lineStyle.Render(n.Message))
	if i == m.cursor {
		return cursorStyle.Render(line)
	}
	return line
}

func streamLabel(conn ports.ConnStateSource) string {
	if conn.Connected() {
		return "[stream: on]"
	}
	if attempt := conn.RetryAttempt(); attempt > 0 {
		return fmt.Sprintf("[stream: reconnecting %d]", attempt)
	}
	return "[stream: off]"
}

// Run starts the interactive viewer and blocks until quit.
func Run(ctx context.Context, eng *engine.Engine, conn ports.ConnStateSource) error {
	program := tea.NewProgram(NewModel(ctx, eng, conn), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
