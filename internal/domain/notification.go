// Package domain provides the domain layer for notifications.
// It contains business logic, value objects, and domain services.
package domain

import (
	"fmt"
	"math/rand"
	"time"
)

// Notification represents a single notification entity with business logic.
type Notification struct {
	ID        string
	Category  Category
	Title     string
	Message   string
	// Payload carries opaque associated data (transport id, truck id, ...).
	// It is passed through untouched; nothing in the feed interprets it.
	Payload   map[string]any
	CreatedAt time.Time
	// ArrivalSeq is a local monotonic counter assigned on acceptance.
	// It breaks CreatedAt ties so the newest-arrived record sorts first.
	// Never sent to the backend.
	ArrivalSeq  int64
	IsRead      bool
	IsDismissed bool
	UserID      string
}

// MarkRead sets the read flag.
func (n *Notification) MarkRead() *Notification {
	n.IsRead = true
	return n
}

// MarkUnread clears the read flag.
func (n *Notification) MarkUnread() *Notification {
	n.IsRead = false
	return n
}

// Dismiss sets the dismissed flag.
func (n *Notification) Dismiss() *Notification {
	n.IsDismissed = true
	return n
}

// Validate validates the notification and returns an error if invalid.
func (n *Notification) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("notification ID cannot be empty")
	}
	if n.CreatedAt.IsZero() {
		return fmt.Errorf("notification timestamp cannot be zero")
	}
	if !n.Category.IsValid() {
		return fmt.Errorf("invalid notification category: %s", n.Category)
	}
	if n.Message == "" {
		return fmt.Errorf("notification message cannot be empty")
	}
	return nil
}

// NewNotification creates a new notification with validation.
func NewNotification(id string, category Category, title, message string, payload map[string]any, createdAt time.Time, userID string) (*Notification, error) {
	notif := &Notification{
		ID:        id,
		Category:  category,
		Title:     title,
		Message:   message,
		Payload:   payload,
		CreatedAt: createdAt,
		UserID:    userID,
	}

	if err := notif.Validate(); err != nil {
		return nil, err
	}

	return notif, nil
}

// NewClientID generates an identifier for a notification synthesized on the
// client before server confirmation. The backend replaces it with its own id
// once the record round-trips.
func NewClientID(now time.Time) string {
	return fmt.Sprintf("notif_%d_%06d", now.UnixMilli(), rand.Intn(1000000))
}
