// Package push delivers accepted notifications to the desktop, keeps the
// badge counter, and registers the device token with the backend.
package push

import (
	"time"

	"github.com/dispecer/fleetray/internal/domain"
)

// Urgency maps onto the desktop notifier's urgency levels.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyNormal   Urgency = "normal"
	UrgencyCritical Urgency = "critical"
)

// Profile describes how one category of notification surfaces on the desktop.
type Profile struct {
	// Channel names the delivery channel, used as the notifier hint.
	Channel string
	Urgency Urgency
	// ExpireAfter is how long the popup stays visible. Zero means the
	// notifier's default.
	ExpireAfter time.Duration
}

var systemProfile = Profile{
	Channel:     "system-default",
	Urgency:     UrgencyNormal,
	ExpireAfter: 5 * time.Second,
}

var profiles = map[domain.Category]Profile{
	domain.CategoryDocumentExpiration: {
		Channel:     "document-expiration",
		Urgency:     UrgencyCritical,
		ExpireAfter: 10 * time.Second,
	},
	domain.CategoryTransportUpdate: {
		Channel:     "transport-update",
		Urgency:     UrgencyNormal,
		ExpireAfter: 7 * time.Second,
	},
	domain.CategoryDriverStatusChange: {
		Channel:     "driver-status",
		Urgency:     UrgencyNormal,
		ExpireAfter: 5 * time.Second,
	},
	domain.CategorySystemAlert: systemProfile,
	domain.CategoryLeaveRequest: {
		Channel:     "leave",
		Urgency:     UrgencyLow,
		ExpireAfter: 5 * time.Second,
	},
	domain.CategoryLeaveApproved: {
		Channel:     "leave",
		Urgency:     UrgencyLow,
		ExpireAfter: 5 * time.Second,
	},
	domain.CategoryLeaveRejected: {
		Channel:     "leave",
		Urgency:     UrgencyLow,
		ExpireAfter: 5 * time.Second,
	},
}

// ProfileFor returns the delivery profile for a category. Unknown categories
// fall back to the system default profile.
func ProfileFor(category domain.Category) Profile {
	if profile, ok := profiles[category]; ok {
		return profile
	}
	return systemProfile
}
