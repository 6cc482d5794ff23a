package domain

import "time"

// RawEvent is a notification-shaped payload as it arrives from an input
// stream, before normalization. All fields are optional; Normalize fills
// the gaps.
type RawEvent struct {
	// ID is the backend-issued identifier when the record originated
	// server-side. Empty for client-synthesized realtime events.
	ID string
	// Type is an explicit canonical category, if the payload carried one.
	// It takes precedence over CategoryText inference.
	Type string
	// CategoryText is the free-text category label ("Documente Soferi").
	CategoryText string
	Title        string
	Message      string
	Payload      map[string]any
	UserID       string
	// CreatedAt is zero when the payload carried no timestamp.
	CreatedAt time.Time
}

// Normalize converts a raw event into a Notification. An explicit valid Type
// wins; otherwise the category is inferred from CategoryText. A missing ID is
// replaced with a client-generated one and a missing timestamp with now.
func (e RawEvent) Normalize(now time.Time) Notification {
	category := InferCategory(e.CategoryText)
	if e.Type != "" {
		if explicit, err := ParseCategory(e.Type); err == nil {
			category = explicit
		}
	}

	id := e.ID
	if id == "" {
		id = NewClientID(now)
	}

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	title := e.Title
	if title == "" {
		title = e.CategoryText
	}

	return Notification{
		ID:        id,
		Category:  category,
		Title:     title,
		Message:   e.Message,
		Payload:   e.Payload,
		CreatedAt: createdAt,
		UserID:    e.UserID,
	}
}
