package realtime

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/dispecer/fleetray/internal/domain"
)

// ErrIgnoredFrame marks frames that are valid but carry no notification,
// such as the connection handshake acknowledgement.
var ErrIgnoredFrame = errors.New("realtime: frame carries no notification")

type wireFrame struct {
	Type                 string          `json:"type"`
	Message              json.RawMessage `json:"message"`
	NotificationCategory string          `json:"notification_category"`
	Title                string          `json:"title"`
	Data                 map[string]any  `json:"data"`
	CreatedAt            time.Time       `json:"created_at"`
}

type wireNotification struct {
	ID                   json.RawMessage `json:"id"`
	Type                 string          `json:"type"`
	NotificationCategory string          `json:"notification_category"`
	Title                string          `json:"title"`
	Message              string          `json:"message"`
	Data                 map[string]any  `json:"data"`
	User                 json.RawMessage `json:"user"`
	CreatedAt            time.Time       `json:"created_at"`
}

// parseFrame decodes one websocket text frame into a raw event. The server
// emits three notification shapes plus a handshake frame; anything else is
// an error and the frame is dropped by the caller.
func parseFrame(data []byte) (domain.RawEvent, error) {
	var frame wireFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return domain.RawEvent{}, err
	}

	switch frame.Type {
	case "connection_established":
		return domain.RawEvent{}, ErrIgnoredFrame

	case "notification":
		// The message field is either a nested notification object or a
		// plain string next to a top-level category.
		var nested wireNotification
		if len(frame.Message) > 0 && frame.Message[0] == '{' {
			if err := json.Unmarshal(frame.Message, &nested); err != nil {
				return domain.RawEvent{}, err
			}
			return domain.RawEvent{
				ID:           rawID(nested.ID),
				Type:         nested.Type,
				CategoryText: nested.NotificationCategory,
				Title:        nested.Title,
				Message:      nested.Message,
				Payload:      nested.Data,
				UserID:       rawID(nested.User),
				CreatedAt:    nested.CreatedAt,
			}, nil
		}
		var text string
		if len(frame.Message) > 0 {
			if err := json.Unmarshal(frame.Message, &text); err != nil {
				return domain.RawEvent{}, err
			}
		}
		return domain.RawEvent{
			CategoryText: frame.NotificationCategory,
			Title:        frame.Title,
			Message:      text,
			Payload:      frame.Data,
			CreatedAt:    frame.CreatedAt,
		}, nil

	case "":
		if frame.NotificationCategory == "" {
			return domain.RawEvent{}, errors.New("realtime: frame has no type and no category")
		}
		var text string
		if len(frame.Message) > 0 {
			if err := json.Unmarshal(frame.Message, &text); err != nil {
				return domain.RawEvent{}, err
			}
		}
		return domain.RawEvent{
			CategoryText: frame.NotificationCategory,
			Title:        frame.Title,
			Message:      text,
			Payload:      frame.Data,
			CreatedAt:    frame.CreatedAt,
		}, nil

	default:
		return domain.RawEvent{}, errors.New("realtime: unknown frame type " + frame.Type)
	}
}

func rawID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
