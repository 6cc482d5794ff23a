package store

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispecer/fleetray/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "fleetray.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testNotification(id string, createdAt time.Time) domain.Notification {
	return domain.Notification{
		ID:        id,
		Category:  domain.CategoryTransportUpdate,
		Title:     "Transport",
		Message:   "Transport actualizat",
		CreatedAt: createdAt,
		UserID:    "42",
	}
}

func TestNew_RejectsEmptyPath(t *testing.T) {
	_, err := New("  ")
	assert.Error(t, err)
}

func TestUpsertAndList(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	n := testNotification("1", now)
	n.Payload = map[string]any{"transport_id": "T-9"}
	require.NoError(t, s.UpsertNotification(n))

	got, err := s.ListNotifications()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, domain.CategoryTransportUpdate, got[0].Category)
	assert.True(t, got[0].CreatedAt.Equal(now))
	assert.Equal(t, "T-9", got[0].Payload["transport_id"])
	assert.False(t, got[0].IsRead)
}

func TestUpsert_UpdatesExistingRecord(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()

	n := testNotification("1", now)
	require.NoError(t, s.UpsertNotification(n))

	n.MarkRead()
	require.NoError(t, s.UpsertNotification(n))

	got, err := s.ListNotifications()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsRead)
}

func TestUpsert_RejectsEmptyID(t *testing.T) {
	s := newTestStore(t)
	err := s.UpsertNotification(domain.Notification{})
	assert.ErrorIs(t, err, ErrInvalidNotificationID)
}

func TestList_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	base := time.Now().UTC().Add(-time.Hour)

	require.NoError(t, s.UpsertNotification(testNotification("old", base)))
	require.NoError(t, s.UpsertNotification(testNotification("new", base.Add(30*time.Minute))))

	got, err := s.ListNotifications()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "old", got[1].ID)
}

func TestTrim_KeepsNewestUpToRetention(t *testing.T) {
	s := newTestStore(t)
	s.SetRetention(5)
	base := time.Now().UTC().Add(-time.Hour)

	for i := 0; i < 8; i++ {
		n := testNotification(fmt.Sprintf("n%d", i), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.UpsertNotification(n))
	}

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	got, err := s.ListNotifications()
	require.NoError(t, err)
	assert.Equal(t, "n7", got[0].ID, "newest survives the trim")
	for _, n := range got {
		assert.NotContains(t, []string{"n0", "n1", "n2"}, n.ID, "oldest records are dropped first")
	}
}

func TestReplaceAll(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()

	require.NoError(t, s.UpsertNotification(testNotification("stale", now.Add(-time.Hour))))

	fresh := []domain.Notification{
		testNotification("a", now),
		testNotification("b", now.Add(-time.Minute)),
	}
	require.NoError(t, s.ReplaceAll(fresh))

	got, err := s.ListNotifications()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestDeleteNotification(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertNotification(testNotification("1", time.Now().UTC())))

	require.NoError(t, s.DeleteNotification("1"))

	got, err := s.ListNotifications()
	require.NoError(t, err)
	assert.Empty(t, got)

	err = s.DeleteNotification("1")
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestDeleteAll(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertNotification(testNotification("1", time.Now().UTC())))
	require.NoError(t, s.UpsertNotification(testNotification("2", time.Now().UTC())))

	require.NoError(t, s.DeleteAll())

	count, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestKV_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetValue(KeyAuthToken)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, s.SetValue(KeyAuthToken, "tok-123"))
	got, err := s.AuthToken()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", got)

	require.NoError(t, s.SetValue(KeyAuthToken, "tok-456"))
	got, err = s.AuthToken()
	require.NoError(t, err)
	assert.Equal(t, "tok-456", got)

	require.NoError(t, s.DeleteValue(KeyAuthToken))
	_, err = s.AuthToken()
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestBadgeCount(t *testing.T) {
	s := newTestStore(t)

	n, err := s.BadgeCount()
	require.NoError(t, err)
	assert.Zero(t, n, "unset badge reads as zero")

	require.NoError(t, s.SetBadgeCount(3))
	n, err = s.BadgeCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, s.SetBadgeCount(-5))
	n, err = s.BadgeCount()
	require.NoError(t, err)
	assert.Zero(t, n, "badge is floored at zero")
}
