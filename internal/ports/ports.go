// Package ports defines application boundary interfaces used by core services.
package ports

import (
	"context"

	"github.com/dispecer/fleetray/internal/domain"
)

// FeedStore defines the local mirror operations used by the engine and the
// command use-cases.
type FeedStore interface {
	ListNotifications() ([]domain.Notification, error)
	UpsertNotification(n domain.Notification) error
	ReplaceAll(notifs []domain.Notification) error
	DeleteNotification(id string) error
	DeleteAll() error
	SetLastSync(ms int64) error
}

// NotificationAPI defines the backend calls the engine issues.
type NotificationAPI interface {
	List(ctx context.Context, opts ListOptions) (ListResult, error)
	MarkRead(ctx context.Context, id string) error
	Dismiss(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	DismissAll(ctx context.Context) error
}

// ListOptions narrows a backend list request.
type ListOptions struct {
	Limit       int
	IncludeRead bool
	Type        domain.Category
}

// ListResult is the backend's answer to a list request.
type ListResult struct {
	Items       []domain.Notification
	UnreadCount int
}

// Deliverer surfaces an accepted notification on the desktop.
type Deliverer interface {
	Deliver(ctx context.Context, n domain.Notification) error
}

// BadgeKeeper mirrors the unread count outward. Only the engine calls it.
type BadgeKeeper interface {
	Set(ctx context.Context, count int) error
	Clear(ctx context.Context) error
}

// ConnStateSource exposes the realtime connection state for status output.
type ConnStateSource interface {
	Connected() bool
	RetryAttempt() int
}
