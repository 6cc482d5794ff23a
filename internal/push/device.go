package push

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dispecer/fleetray/internal/logging"
)

const registerAttempts = 3

// deviceStore persists the device push token between runs.
type deviceStore interface {
	DeviceToken() (string, error)
	SetDeviceToken(token string) error
}

// deviceRegistrar uploads the token to the backend.
type deviceRegistrar interface {
	RegisterDevice(ctx context.Context, token string) error
}

// RegisterDevice obtains the device token, persisting a freshly generated one
// when none exists, and uploads it to the backend. Upload retries up to three
// times with 1s, 2s, 4s waits. Callers treat failure as non-fatal.
func RegisterDevice(ctx context.Context, store deviceStore, registrar deviceRegistrar) (string, error) {
	token, err := store.DeviceToken()
	if err != nil || token == "" {
		token = uuid.NewString()
		if err := store.SetDeviceToken(token); err != nil {
			return "", fmt.Errorf("push: persist device token: %w", err)
		}
		logging.Info("generated device token", "token_suffix", token[len(token)-8:])
	}

	var lastErr error
	for attempt := 0; attempt < registerAttempts; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<(attempt-1)) * time.Second
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return token, ctx.Err()
			}
		}
		if lastErr = registrar.RegisterDevice(ctx, token); lastErr == nil {
			logging.Info("device token registered", "attempt", attempt+1)
			return token, nil
		}
		logging.Warn("device registration failed", "attempt", attempt+1, "error", lastErr)
	}
	return token, fmt.Errorf("push: register device after %d attempts: %w", registerAttempts, lastErr)
}
