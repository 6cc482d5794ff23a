package tui

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispecer/fleetray/internal/domain"
	"github.com/dispecer/fleetray/internal/engine"
)

func snapshotOf(items ...domain.Notification) snapshotMsg {
	return snapshotMsg{Items: items, UnreadCount: domain.CountUnread(items)}
}

func fixture() []domain.Notification {
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	return []domain.Notification{
		{ID: "a", Category: domain.CategoryDocumentExpiration, Message: "ITP expira", CreatedAt: now},
		{ID: "b", Category: domain.CategoryTransportUpdate, Message: "Cursa alocata", CreatedAt: now.Add(-time.Hour), IsRead: true},
	}
}

func testModel() Model {
	return NewModel(context.Background(), &engine.Engine{}, nil)
}

func TestSnapshotUpdatesView(t *testing.T) {
	m := testModel()

	updated, _ := m.Update(snapshotOf(fixture()...))
	model := updated.(Model)

	view := model.View()
	assert.Contains(t, view, "2 notifications, 1 unread")
	assert.Contains(t, view, "ITP expira")
	assert.Contains(t, view, "Cursa alocata")
}

func TestCursorMovementStaysInBounds(t *testing.T) {
	m := testModel()
	updated, _ := m.Update(snapshotOf(fixture()...))
	model := updated.(Model)

	// Up at the top is a no-op.
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	model = updated.(Model)
	assert.Equal(t, 0, model.cursor)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	model = updated.(Model)
	assert.Equal(t, 1, model.cursor)

	// Down at the bottom is a no-op.
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	model = updated.(Model)
	assert.Equal(t, 1, model.cursor)
}

func TestCursorClampsWhenFeedShrinks(t *testing.T) {
	m := testModel()
	updated, _ := m.Update(snapshotOf(fixture()...))
	model := updated.(Model)
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	model = updated.(Model)
	require.Equal(t, 1, model.cursor)

	updated, _ = model.Update(snapshotOf(fixture()[0]))
	model = updated.(Model)
	assert.Equal(t, 0, model.cursor)

	updated, _ = model.Update(snapshotOf())
	model = updated.(Model)
	assert.Equal(t, 0, model.cursor)
	assert.Contains(t, model.View(), "No notifications")
}

func TestQuitKey(t *testing.T) {
	m := testModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestMutationErrorSurfacesInView(t *testing.T) {
	m := testModel()
	updated, _ := m.Update(mutationDoneMsg{err: assert.AnError})
	model := updated.(Model)
	assert.Contains(t, model.View(), assert.AnError.Error())

	updated, _ = model.Update(mutationDoneMsg{})
	model = updated.(Model)
	assert.NotContains(t, model.View(), assert.AnError.Error())
}

type stubConn struct {
	connected bool
	attempt   int
}

func (s *stubConn) Connected() bool   { return s.connected }
func (s *stubConn) RetryAttempt() int { return s.attempt }

func TestHeaderShowsStreamState(t *testing.T) {
	conn := &stubConn{connected: true}
	m := NewModel(context.Background(), &engine.Engine{}, conn)
	assert.Contains(t, m.View(), "[stream: on]")

	conn.connected = false
	conn.attempt = 2
	assert.Contains(t, m.View(), "[stream: reconnecting 2]")

	noStream := NewModel(context.Background(), &engine.Engine{}, nil)
	assert.NotContains(t, noStream.View(), "[stream:")
}

func TestLatestMutationErrorWins(t *testing.T) {
	m := testModel()
	updated, _ := m.Update(mutationDoneMsg{err: fmt.Errorf("dismiss rejected")})
	model := updated.(Model)
	updated, _ = model.Update(mutationDoneMsg{err: fmt.Errorf("read rejected")})
	model = updated.(Model)

	view := model.View()
	assert.Contains(t, view, "read rejected")
	assert.NotContains(t, view, "dismiss rejected")
}
