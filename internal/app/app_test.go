package app

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispecer/fleetray/internal/domain"
)

type memFeed struct {
	notifs  []domain.Notification
	deleted []string
	err     error
}

func (m *memFeed) ListNotifications() ([]domain.Notification, error) {
	return m.notifs, m.err
}

func (m *memFeed) DeleteNotification(id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func feedFixture() []domain.Notification {
	now := time.Now().UTC()
	return []domain.Notification{
		{ID: "a", Category: domain.CategoryDocumentExpiration, Message: "ITP expira", CreatedAt: now, ArrivalSeq: 3},
		{ID: "b", Category: domain.CategoryTransportUpdate, Message: "Cursa alocata", CreatedAt: now.Add(-time.Hour), ArrivalSeq: 2, IsRead: true},
		{ID: "c", Category: domain.CategorySystemAlert, Message: "Mentenanta", CreatedAt: now.Add(-48 * time.Hour), ArrivalSeq: 1},
	}
}

func TestListPrintsSortedFeed(t *testing.T) {
	var out bytes.Buffer
	uc := NewListUseCase(&memFeed{notifs: feedFixture()})

	require.NoError(t, uc.Execute(ListOptions{}, &out))

	text := out.String()
	assert.Contains(t, text, "3 notifications, 2 unread")
	// Newest first.
	assert.Less(t, strings.Index(text, "ITP expira"), strings.Index(text, "Cursa alocata"))
	assert.Less(t, strings.Index(text, "Cursa alocata"), strings.Index(text, "Mentenanta"))
}

func TestListUnreadOnly(t *testing.T) {
	var out bytes.Buffer
	uc := NewListUseCase(&memFeed{notifs: feedFixture()})

	require.NoError(t, uc.Execute(ListOptions{UnreadOnly: true}, &out))

	text := out.String()
	assert.Contains(t, text, "ITP expira")
	assert.NotContains(t, text, "Cursa alocata")
}

func TestListCategoryFilter(t *testing.T) {
	var out bytes.Buffer
	uc := NewListUseCase(&memFeed{notifs: feedFixture()})

	require.NoError(t, uc.Execute(ListOptions{Category: "transport_update"}, &out))
	assert.Contains(t, out.String(), "Cursa alocata")
	assert.NotContains(t, out.String(), "ITP expira")

	err := uc.Execute(ListOptions{Category: "no_such_thing"}, &out)
	require.Error(t, err)
}

func TestListEmptyFeed(t *testing.T) {
	var out bytes.Buffer
	uc := NewListUseCase(&memFeed{})

	require.NoError(t, uc.Execute(ListOptions{}, &out))
	assert.Contains(t, out.String(), "No notifications found")
}

func TestCleanupRemovesOldRecords(t *testing.T) {
	feed := &memFeed{notifs: feedFixture()}
	var out bytes.Buffer
	uc := NewCleanupUseCase(feed)

	require.NoError(t, uc.Execute(CleanupOptions{Days: 1}, &out))
	assert.Equal(t, []string{"c"}, feed.deleted)
	assert.Contains(t, out.String(), "1 records removed")
}

func TestCleanupKeepUnreadSparesUnread(t *testing.T) {
	feed := &memFeed{notifs: feedFixture()}
	var out bytes.Buffer
	uc := NewCleanupUseCase(feed)

	require.NoError(t, uc.Execute(CleanupOptions{Days: 1, KeepUnread: true}, &out))
	assert.Empty(t, feed.deleted, "record c is unread and must survive")
}

func TestCleanupDryRunTouchesNothing(t *testing.T) {
	feed := &memFeed{notifs: feedFixture()}
	var out bytes.Buffer
	uc := NewCleanupUseCase(feed)

	require.NoError(t, uc.Execute(CleanupOptions{Days: 1, DryRun: true}, &out))
	assert.Empty(t, feed.deleted)
	assert.Contains(t, out.String(), "would remove c")
}

type memKV struct {
	values map[string]string
}

func (m *memKV) SetValue(key, value string) error {
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func (m *memKV) DeleteValue(key string) error {
	delete(m.values, key)
	return nil
}

func TestLoginStoresCredential(t *testing.T) {
	kv := &memKV{}
	uc := NewLoginUseCase(kv)

	require.NoError(t, uc.Execute("tok-123", "driver-7"))
	assert.Equal(t, "tok-123", kv.values["auth_token"])
	assert.Equal(t, "driver-7", kv.values["user_id"])

	require.NoError(t, uc.Logout())
	assert.Empty(t, kv.values)
}

func TestLoginRejectsEmptyInput(t *testing.T) {
	uc := NewLoginUseCase(&memKV{})
	assert.Error(t, uc.Execute("", "driver-7"))
	assert.Error(t, uc.Execute("tok", ""))
}

type statusStore struct {
	memFeed
	badge  int
	sync   int64
	userID string
	token  string
}

func (s *statusStore) BadgeCount() (int, error) { return s.badge, nil }
func (s *statusStore) LastSync() (int64, error) { return s.sync, nil }
func (s *statusStore) UserID() (string, error)  { return s.userID, nil }
func (s *statusStore) AuthToken() (string, error) {
	if s.token == "" {
		return "", assert.AnError
	}
	return s.token, nil
}

func TestStatusSummary(t *testing.T) {
	store := &statusStore{
		memFeed: memFeed{notifs: feedFixture()},
		badge:   2,
		sync:    time.Now().Add(-time.Minute).UnixMilli(),
		userID:  "driver-7",
		token:   "tok",
	}
	var out bytes.Buffer
	uc := NewStatusUseCase(store, nil)

	require.NoError(t, uc.Execute(StatusOptions{}, &out))
	text := out.String()
	assert.Contains(t, text, "Notifications: 3 (2 unread)")
	assert.Contains(t, text, "Badge:         2")
	assert.Contains(t, text, "driver-7")
	assert.Contains(t, text, "Auth:          ok")
	assert.Contains(t, text, "Last sync:")
}

func TestStatusCountOnly(t *testing.T) {
	store := &statusStore{memFeed: memFeed{notifs: feedFixture()}}
	var out bytes.Buffer
	uc := NewStatusUseCase(store, nil)

	require.NoError(t, uc.Execute(StatusOptions{CountOnly: true}, &out))
	assert.Equal(t, "2\n", out.String())
}

type fakeConn struct {
	connected bool
	attempt   int
}

func (f *fakeConn) Connected() bool   { return f.connected }
func (f *fakeConn) RetryAttempt() int { return f.attempt }

func TestStatusReportsStreamState(t *testing.T) {
	store := &statusStore{memFeed: memFeed{notifs: nil}}

	var out bytes.Buffer
	require.NoError(t, NewStatusUseCase(store, &fakeConn{connected: true}).Execute(StatusOptions{}, &out))
	assert.Contains(t, out.String(), "Stream:        connected")

	out.Reset()
	require.NoError(t, NewStatusUseCase(store, &fakeConn{attempt: 4}).Execute(StatusOptions{}, &out))
	assert.Contains(t, out.String(), "reconnecting (attempt 4)")

	out.Reset()
	require.NoError(t, NewStatusUseCase(store, nil).Execute(StatusOptions{}, &out))
	assert.Contains(t, out.String(), "Stream:        off")
}

func TestStatusMissingAuth(t *testing.T) {
	store := &statusStore{memFeed: memFeed{notifs: nil}}
	var out bytes.Buffer
	uc := NewStatusUseCase(store, nil)

	require.NoError(t, uc.Execute(StatusOptions{}, &out))
	assert.Contains(t, out.String(), "missing")
	assert.Contains(t, out.String(), "not signed in")
}

func TestPrintAcceptedFormatsLine(t *testing.T) {
	var out bytes.Buffer
	printAccepted(&out, domain.Notification{
		ID:        "n1",
		Category:  domain.CategoryTransportUpdate,
		Title:     "Transport Nou",
		Message:   "Cursa alocata",
		CreatedAt: time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC),
	})
	assert.Contains(t, out.String(), "10:30:00")
	assert.Contains(t, out.String(), "Transport Nou")
	assert.Contains(t, out.String(), "Cursa alocata")
}
