package push

import (
	"context"
	"strconv"

	"github.com/dispecer/fleetray/internal/logging"
)

// badgeStore persists the badge counter across restarts. The local mirror
// implements it.
type badgeStore interface {
	BadgeCount() (int, error)
	SetBadgeCount(count int) error
}

// Badge mirrors the unread count to the store and to an optional external
// command hook. Only the reconciliation engine mutates it.
type Badge struct {
	store   badgeStore
	hookCmd string
	runner  commandRunner
}

// BadgeOption configures a Badge.
type BadgeOption func(*Badge)

// WithBadgeHook sets a command invoked with the new count on every change.
func WithBadgeHook(command string) BadgeOption {
	return func(b *Badge) {
		b.hookCmd = command
	}
}

// WithBadgeRunner overrides the hook runner. Used by tests.
func WithBadgeRunner(runner commandRunner) BadgeOption {
	return func(b *Badge) {
		b.runner = runner
	}
}

// NewBadge creates the badge counter on top of the store.
func NewBadge(store badgeStore, opts ...BadgeOption) *Badge {
	badge := &Badge{store: store, runner: execRunner{}}
	for _, opt := range opts {
		opt(badge)
	}
	return badge
}

// Set updates the badge to count, floored at zero.
func (b *Badge) Set(ctx context.Context, count int) error {
	if count < 0 {
		count = 0
	}
	if err := b.store.SetBadgeCount(count); err != nil {
		return err
	}
	b.publish(ctx, count)
	return nil
}

// Clear resets the badge to zero.
func (b *Badge) Clear(ctx context.Context) error {
	return b.Set(ctx, 0)
}

// Increment bumps the badge by one.
func (b *Badge) Increment(ctx context.Context) error {
	count, err := b.store.BadgeCount()
	if err != nil {
		return err
	}
	return b.Set(ctx, count+1)
}

// Count reads the current badge value.
func (b *Badge) Count() (int, error) {
	return b.store.BadgeCount()
}

// publish runs the external hook. Hook failure only logs.
func (b *Badge) publish(ctx context.Context, count int) {
	if b.hookCmd == "" {
		return
	}
	if err := b.runner.Run(ctx, b.hookCmd, strconv.Itoa(count)); err != nil {
		logging.Warn("badge hook failed", "command", b.hookCmd, "count", count, "error", err)
	}
}
