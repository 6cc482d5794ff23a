package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotification_Validate(t *testing.T) {
	now := time.Now().UTC()
	valid := Notification{
		ID:        "42",
		Category:  CategoryTransportUpdate,
		Message:   "Transport CJ-1204 a fost actualizat",
		CreatedAt: now,
	}

	tests := []struct {
		name    string
		mutate  func(n *Notification)
		wantErr string
	}{
		{"valid", func(n *Notification) {}, ""},
		{"empty id", func(n *Notification) { n.ID = "" }, "ID cannot be empty"},
		{"zero timestamp", func(n *Notification) { n.CreatedAt = time.Time{} }, "timestamp cannot be zero"},
		{"bad category", func(n *Notification) { n.Category = "urgent" }, "invalid notification category"},
		{"empty message", func(n *Notification) { n.Message = "" }, "message cannot be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := valid
			tt.mutate(&n)
			err := n.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNotification_ReadAndDismiss(t *testing.T) {
	n := Notification{ID: "1", Category: CategorySystemAlert, Message: "m", CreatedAt: time.Now()}

	assert.False(t, n.IsRead)
	n.MarkRead()
	assert.True(t, n.IsRead)
	n.MarkUnread()
	assert.False(t, n.IsRead)

	assert.False(t, n.IsDismissed)
	n.Dismiss()
	assert.True(t, n.IsDismissed)
}

func TestNewNotification_RejectsInvalid(t *testing.T) {
	_, err := NewNotification("", CategorySystemAlert, "t", "m", nil, time.Now(), "42")
	assert.Error(t, err)

	n, err := NewNotification("abc", CategoryLeaveApproved, "t", "m", map[string]any{"transport_id": 7}, time.Now(), "42")
	require.NoError(t, err)
	assert.Equal(t, CategoryLeaveApproved, n.Category)
	assert.Equal(t, 7, n.Payload["transport_id"])
}

func TestNewClientID(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	id := NewClientID(now)

	assert.True(t, strings.HasPrefix(id, "notif_"), "client ids carry the notif_ prefix: %s", id)
	assert.Contains(t, id, "1785585600000", "client ids embed the millisecond timestamp")

	other := NewClientID(now)
	// Same instant, different random suffix (collision is possible but
	// vanishingly unlikely within one test run).
	assert.NotEqual(t, id, other)
}
