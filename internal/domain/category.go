package domain

import (
	"fmt"
	"strings"
)

// Category classifies a notification. It drives the delivery profile,
// feed styling and navigation target.
type Category string

const (
	CategoryDocumentExpiration Category = "document_expiration"
	CategoryDriverStatusChange Category = "driver_status_change"
	CategoryTransportUpdate    Category = "transport_update"
	CategorySystemAlert        Category = "system_alert"
	CategoryLeaveRequest       Category = "leave_request"
	CategoryLeaveApproved      Category = "leave_approved"
	CategoryLeaveRejected      Category = "leave_rejected"
)

// IsValid checks if the category is valid.
func (c Category) IsValid() bool {
	switch c {
	case CategoryDocumentExpiration, CategoryDriverStatusChange,
		CategoryTransportUpdate, CategorySystemAlert,
		CategoryLeaveRequest, CategoryLeaveApproved, CategoryLeaveRejected:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// ParseCategory parses a string into a Category.
func ParseCategory(category string) (Category, error) {
	c := Category(category)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid notification category: %s", category)
	}
	return c, nil
}

// InferCategory maps a free-text category label to a canonical Category.
// The backend emits human-readable Romanian labels ("Documente Soferi",
// "Status Sofer", "Transport Nou") on the realtime channel; matching is by
// substring, checked in this order. Labels matching nothing fall back to
// CategorySystemAlert.
func InferCategory(label string) Category {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "document"):
		return CategoryDocumentExpiration
	case strings.Contains(lower, "sofer"), strings.Contains(lower, "status"):
		return CategoryDriverStatusChange
	case strings.Contains(lower, "transport"):
		return CategoryTransportUpdate
	default:
		return CategorySystemAlert
	}
}
