package app

import (
	"fmt"
	"io"
	"time"

	"github.com/dispecer/fleetray/internal/colors"
	"github.com/dispecer/fleetray/internal/domain"
	"github.com/dispecer/fleetray/internal/ports"
)

// StatusStore provides the persisted values the status command reports.
type StatusStore interface {
	ListNotifications() ([]domain.Notification, error)
	BadgeCount() (int, error)
	LastSync() (int64, error)
	UserID() (string, error)
	AuthToken() (string, error)
}

// StatusOptions holds the status output parameters.
type StatusOptions struct {
	// CountOnly prints just the unread count, for status bar embedding.
	CountOnly bool
}

// StatusUseCase reports local feed and connection health.
type StatusUseCase struct {
	store StatusStore
	conn  ports.ConnStateSource
}

// NewStatusUseCase creates the status use-case. conn may be nil when the
// calling process runs no realtime stream.
func NewStatusUseCase(store StatusStore, conn ports.ConnStateSource) *StatusUseCase {
	if store == nil {
		panic("NewStatusUseCase: store dependency cannot be nil")
	}
	return &StatusUseCase{store: store, conn: conn}
}

// Execute prints the status summary.
func (u *StatusUseCase) Execute(opts StatusOptions, w io.Writer) error {
	notifs, err := u.store.ListNotifications()
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	unread := domain.CountUnread(notifs)

	if opts.CountOnly {
		_, _ = fmt.Fprintf(w, "%d\n", unread)
		return nil
	}

	_, _ = fmt.Fprintf(w, "Notifications: %d (%d unread)\n", len(notifs), unread)

	if badge, err := u.store.BadgeCount(); err == nil {
		_, _ = fmt.Fprintf(w, "Badge:         %d\n", badge)
	}

	if userID, err := u.store.UserID(); err == nil && userID != "" {
		_, _ = fmt.Fprintf(w, "User:          %s\n", userID)
	} else {
		_, _ = fmt.Fprintf(w, "User:          %snot signed in%s\n", colors.Yellow, colors.Reset)
	}

	if _, err := u.store.AuthToken(); err != nil {
		_, _ = fmt.Fprintf(w, "Auth:          %smissing%s\n", colors.Red, colors.Reset)
	} else {
		_, _ = fmt.Fprintf(w, "Auth:          ok\n")
	}

	switch {
	case u.conn == nil:
		_, _ = fmt.Fprintf(w, "Stream:        off (no stream in this process)\n")
	case u.conn.Connected():
		_, _ = fmt.Fprintf(w, "Stream:        connected\n")
	case u.conn.RetryAttempt() > 0:
		_, _ = fmt.Fprintf(w, "Stream:        %sreconnecting (attempt %d)%s\n", colors.Yellow, u.conn.RetryAttempt(), colors.Reset)
	default:
		_, _ = fmt.Fprintf(w, "Stream:        disconnected\n")
	}

	if ms, err := u.store.LastSync(); err == nil && ms > 0 {
		at := time.UnixMilli(ms).Local()
		_, _ = fmt.Fprintf(w, "Last sync:     %s (%s ago)\n", at.Format("2006-01-02 15:04:05"), time.Since(at).Round(time.Second))
	} else {
		_, _ = fmt.Fprintf(w, "Last sync:     never\n")
	}
	return nil
}
