package domain

import (
	"fmt"
	"time"
)

// Read filter constants.
const (
	ReadFilterRead   = "read"
	ReadFilterUnread = "unread"
)

// Filter holds filter criteria for notifications.
type Filter struct {
	Category   Category
	UserID     string
	OlderThan  time.Time // match records created before this instant
	NewerThan  time.Time // match records created after this instant
	ReadFilter string    // "read", "unread", or "" (no filter)
}

// FilterOptions holds filter parameters similar to CLI options.
type FilterOptions struct {
	Category   string
	UserID     string
	OlderThan  int    // days
	NewerThan  int    // days
	ReadFilter string // "read", "unread", or ""
}

// ToFilter converts FilterOptions to a Filter struct.
func (fo FilterOptions) ToFilter() (Filter, error) {
	var category Category
	var err error

	if fo.Category != "" {
		category, err = ParseCategory(fo.Category)
		if err != nil {
			return Filter{}, err
		}
	}

	if fo.ReadFilter != "" && fo.ReadFilter != ReadFilterRead && fo.ReadFilter != ReadFilterUnread {
		return Filter{}, fmt.Errorf("invalid read filter: %s", fo.ReadFilter)
	}

	var olderThan, newerThan time.Time
	if fo.OlderThan > 0 {
		olderThan = time.Now().UTC().AddDate(0, 0, -fo.OlderThan)
	}
	if fo.NewerThan > 0 {
		newerThan = time.Now().UTC().AddDate(0, 0, -fo.NewerThan)
	}

	return Filter{
		Category:   category,
		UserID:     fo.UserID,
		OlderThan:  olderThan,
		NewerThan:  newerThan,
		ReadFilter: fo.ReadFilter,
	}, nil
}

// Matches checks if the notification matches the given filter criteria.
func (n *Notification) Matches(filter Filter) bool {
	if filter.Category != "" && n.Category != filter.Category {
		return false
	}
	// UserID is a local display filter only, never a trust decision.
	if filter.UserID != "" && n.UserID != filter.UserID {
		return false
	}
	if !filter.OlderThan.IsZero() && !n.CreatedAt.Before(filter.OlderThan) {
		return false
	}
	if !filter.NewerThan.IsZero() && !n.CreatedAt.After(filter.NewerThan) {
		return false
	}
	if filter.ReadFilter != "" {
		if filter.ReadFilter == ReadFilterRead && !n.IsRead {
			return false
		}
		if filter.ReadFilter == ReadFilterUnread && n.IsRead {
			return false
		}
	}
	return true
}

// FilterNotifications filters a slice of notifications based on the given filter.
// Returns a new slice containing only matching notifications.
func FilterNotifications(notifs []Notification, filter Filter) []Notification {
	result := make([]Notification, 0, len(notifs))
	for _, n := range notifs {
		if n.Matches(filter) {
			result = append(result, n)
		}
	}
	return result
}
