package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// Persisted key names. All values are strings; structured values are JSON.
const (
	KeyAuthToken   = "auth_token"
	KeyUserID      = "user_id"
	KeyDeviceToken = "device_token"
	KeyBadgeCount  = "badge_count"
	KeyLastSync    = "last_sync"
)

// GetValue returns the value for a key, or ErrKeyNotFound.
func (s *Store) GetValue(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("local store: %w: %s", ErrKeyNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("local store: get %s: %w", key, err)
	}
	return value, nil
}

// SetValue stores a value under a key.
func (s *Store) SetValue(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("local store: set %s: %w", key, err)
	}
	return nil
}

// DeleteValue removes a key. Missing keys are not an error.
func (s *Store) DeleteValue(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("local store: delete %s: %w", key, err)
	}
	return nil
}

// AuthToken returns the stored bearer credential, or ErrKeyNotFound.
func (s *Store) AuthToken() (string, error) {
	return s.GetValue(KeyAuthToken)
}

// UserID returns the stored user id, or ErrKeyNotFound.
func (s *Store) UserID() (string, error) {
	return s.GetValue(KeyUserID)
}

// BadgeCount returns the mirrored badge counter, zero when unset.
func (s *Store) BadgeCount() (int, error) {
	value, err := s.GetValue(KeyBadgeCount)
	if errors.Is(err, ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("local store: parse badge count %q: %w", value, err)
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}

// SetBadgeCount mirrors the badge counter, floored at zero.
func (s *Store) SetBadgeCount(n int) error {
	if n < 0 {
		n = 0
	}
	return s.SetValue(KeyBadgeCount, strconv.Itoa(n))
}

// DeviceToken returns the stored device push token, empty when unset.
func (s *Store) DeviceToken() (string, error) {
	value, err := s.GetValue(KeyDeviceToken)
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	return value, err
}

// SetDeviceToken persists the device push token.
func (s *Store) SetDeviceToken(token string) error {
	return s.SetValue(KeyDeviceToken, token)
}

// LastSync returns the unix-ms timestamp of the last successful reconcile,
// zero when never synced.
func (s *Store) LastSync() (int64, error) {
	value, err := s.GetValue(KeyLastSync)
	if errors.Is(err, ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("local store: parse last sync %q: %w", value, err)
	}
	return ms, nil
}

// SetLastSync records the unix-ms timestamp of a successful reconcile.
func (s *Store) SetLastSync(ms int64) error {
	return s.SetValue(KeyLastSync, strconv.FormatInt(ms, 10))
}
