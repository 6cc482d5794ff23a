package app

import (
	"fmt"
	"io"
	"time"

	"github.com/dispecer/fleetray/internal/colors"
	"github.com/dispecer/fleetray/internal/domain"
)

// CleanupStore provides the mirror operations cleanup needs.
type CleanupStore interface {
	ListNotifications() ([]domain.Notification, error)
	DeleteNotification(id string) error
}

// CleanupOptions holds the cleanup parameters.
type CleanupOptions struct {
	// Days is the age threshold. Records older than this are removed.
	Days int
	// KeepUnread spares unread records regardless of age.
	KeepUnread bool
	// DryRun reports what would be removed without touching the mirror.
	DryRun bool
}

// CleanupUseCase trims old records from the local mirror. The server copy is
// untouched; a later reconcile only brings back what the fetch window covers.
type CleanupUseCase struct {
	store CleanupStore
}

// NewCleanupUseCase creates the cleanup use-case.
func NewCleanupUseCase(store CleanupStore) *CleanupUseCase {
	if store == nil {
		panic("NewCleanupUseCase: store dependency cannot be nil")
	}
	return &CleanupUseCase{store: store}
}

// Execute removes mirror records older than the threshold.
func (u *CleanupUseCase) Execute(opts CleanupOptions, w io.Writer) error {
	if opts.Days <= 0 {
		opts.Days = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -opts.Days)

	notifs, err := u.store.ListNotifications()
	if err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}

	removed := 0
	for _, n := range notifs {
		if !n.CreatedAt.Before(cutoff) {
			continue
		}
		if opts.KeepUnread && !n.IsRead {
			continue
		}
		if opts.DryRun {
			_, _ = fmt.Fprintf(w, "would remove %s (%s, %s)\n", n.ID, n.Category, n.CreatedAt.Format("2006-01-02"))
			removed++
			continue
		}
		if err := u.store.DeleteNotification(n.ID); err != nil {
			return fmt.Errorf("cleanup: remove %s: %w", n.ID, err)
		}
		removed++
	}

	if opts.DryRun {
		_, _ = fmt.Fprintf(w, "%d records would be removed\n", removed)
		return nil
	}
	colors.Success(fmt.Sprintf("Removed %d records older than %d days", removed, opts.Days))
	_, _ = fmt.Fprintf(w, "%d records removed\n", removed)
	return nil
}
