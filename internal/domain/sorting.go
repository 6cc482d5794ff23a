package domain

import "sort"

// SortFeed orders notifications the way the feed displays them: CreatedAt
// descending, ties broken by arrival sequence descending so a newly pushed
// record with the same timestamp stays on top.
// Returns a new sorted slice without modifying the original.
func SortFeed(notifs []Notification) []Notification {
	if len(notifs) == 0 {
		return notifs
	}

	sorted := make([]Notification, len(notifs))
	copy(sorted, notifs)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ArrivalSeq > b.ArrivalSeq
	})

	return sorted
}

// CountUnread returns the number of records with IsRead == false.
func CountUnread(notifs []Notification) int {
	count := 0
	for _, n := range notifs {
		if !n.IsRead {
			count++
		}
	}
	return count
}
