package app

import (
	"fmt"
	"io"

	"github.com/dispecer/fleetray/internal/colors"
	"github.com/dispecer/fleetray/internal/domain"
)

// FeedReader provides the records the list command renders.
type FeedReader interface {
	ListNotifications() ([]domain.Notification, error)
}

// ListOptions holds the filter parameters for listing notifications.
type ListOptions struct {
	Category   string
	UserID     string
	OlderThan  int
	NewerThan  int
	ReadFilter string
	UnreadOnly bool
}

// ListUseCase renders the local notification feed.
type ListUseCase struct {
	reader FeedReader
}

// NewListUseCase creates a new list use-case.
func NewListUseCase(reader FeedReader) *ListUseCase {
	if reader == nil {
		panic("NewListUseCase: reader dependency cannot be nil")
	}
	return &ListUseCase{reader: reader}
}

// Execute prints notifications according to the provided options.
func (u *ListUseCase) Execute(opts ListOptions, w io.Writer) error {
	notifs, err := u.reader.ListNotifications()
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}

	readFilter := opts.ReadFilter
	if opts.UnreadOnly {
		readFilter = "unread"
	}
	filter, err := domain.FilterOptions{
		Category:   opts.Category,
		UserID:     opts.UserID,
		OlderThan:  opts.OlderThan,
		NewerThan:  opts.NewerThan,
		ReadFilter: readFilter,
	}.ToFilter()
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}

	notifs = domain.SortFeed(domain.FilterNotifications(notifs, filter))
	if len(notifs) == 0 {
		_, _ = fmt.Fprintf(w, "%s%s%s\n", colors.Blue, "No notifications found", colors.Reset)
		return nil
	}

	for _, n := range notifs {
		printFeedLine(w, n)
	}
	_, _ = fmt.Fprintf(w, "\n%d notifications, %d unread\n", len(notifs), domain.CountUnread(notifs))
	return nil
}

func printFeedLine(w io.Writer, n domain.Notification) {
	marker := "*"
	if n.IsRead {
		marker = " "
	}
	color := categoryColor(n.Category)
	_, _ = fmt.Fprintf(w, "%s %s%-20s%s %s  %s  %s\n",
		marker, color, n.Category, colors.Reset,
		n.CreatedAt.Format("2006-01-02 15:04"), n.ID, n.Message)
}
