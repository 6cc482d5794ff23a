// Package store provides the SQLite-backed local mirror of the notification
// feed plus the small key-value state the client persists between runs.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dispecer/fleetray/internal/domain"
)

var (
	// ErrInvalidNotificationID indicates an empty or malformed notification ID.
	ErrInvalidNotificationID = errors.New("invalid notification ID")
	// ErrNotificationNotFound indicates that a notification cannot be found.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrKeyNotFound indicates a missing key-value entry.
	ErrKeyNotFound = errors.New("key not found")
)

// DefaultRetention is how many records the mirror keeps; oldest beyond the
// cap are dropped on every write.
const DefaultRetention = 100

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notifications (
	id          TEXT PRIMARY KEY,
	category    TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	message     TEXT NOT NULL,
	payload     TEXT NOT NULL DEFAULT '{}',
	created_at  TEXT NOT NULL,
	arrival_seq INTEGER NOT NULL DEFAULT 0,
	is_read     INTEGER NOT NULL DEFAULT 0,
	user_id     TEXT NOT NULL DEFAULT '',
	updated_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notifications_created_at ON notifications(created_at);

CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Store is the SQLite-backed local mirror.
type Store struct {
	db        *sql.DB
	retention int
}

// New creates a store at the provided path.
func New(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("local store: db path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("local store: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("local store: open db: %w", err)
	}

	s := &Store{db: db, retention: DefaultRetention}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SetRetention overrides the mirror retention cap.
func (s *Store) SetRetention(n int) {
	if n > 0 {
		s.retention = n
	}
}

func (s *Store) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("local store: set busy timeout: %w", err)
	}

	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("local store: create schema: %w", err)
	}

	return nil
}

// UpsertNotification writes one record to the mirror and trims to retention.
func (s *Store) UpsertNotification(n domain.Notification) error {
	if n.ID == "" {
		return ErrInvalidNotificationID
	}

	payload, err := encodePayload(n.Payload)
	if err != nil {
		return fmt.Errorf("local store: encode payload for %s: %w", n.ID, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO notifications (id, category, title, message, payload, created_at, arrival_seq, is_read, user_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			title = excluded.title,
			message = excluded.message,
			payload = excluded.payload,
			created_at = excluded.created_at,
			arrival_seq = excluded.arrival_seq,
			is_read = excluded.is_read,
			user_id = excluded.user_id,
			updated_at = excluded.updated_at`,
		n.ID, n.Category.String(), n.Title, n.Message, payload,
		n.CreatedAt.UTC().Format(time.RFC3339Nano), n.ArrivalSeq,
		boolToInt(n.IsRead), n.UserID, utcNow())
	if err != nil {
		return fmt.Errorf("local store: upsert notification %s: %w", n.ID, err)
	}

	return s.trim()
}

// ReplaceAll rewrites the mirror with the given records in one transaction.
// Used after a reconcile so the mirror matches the merged collection.
func (s *Store) ReplaceAll(notifs []domain.Notification) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("local store: begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM notifications"); err != nil {
		return fmt.Errorf("local store: clear notifications: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO notifications (id, category, title, message, payload, created_at, arrival_seq, is_read, user_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("local store: prepare insert: %w", err)
	}
	defer stmt.Close()

	now := utcNow()
	for _, n := range notifs {
		if n.ID == "" {
			continue
		}
		payload, err := encodePayload(n.Payload)
		if err != nil {
			return fmt.Errorf("local store: encode payload for %s: %w", n.ID, err)
		}
		if _, err := stmt.Exec(n.ID, n.Category.String(), n.Title, n.Message, payload,
			n.CreatedAt.UTC().Format(time.RFC3339Nano), n.ArrivalSeq,
			boolToInt(n.IsRead), n.UserID, now); err != nil {
			return fmt.Errorf("local store: insert notification %s: %w", n.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("local store: commit replace: %w", err)
	}

	return s.trim()
}

// ListNotifications returns all mirrored records, newest first.
func (s *Store) ListNotifications() ([]domain.Notification, error) {
	rows, err := s.db.Query(`
		SELECT id, category, title, message, payload, created_at, arrival_seq, is_read, user_id
		FROM notifications
		ORDER BY created_at DESC, arrival_seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("local store: list notifications: %w", err)
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var category, payload, createdAt string
		var isRead int
		if err := rows.Scan(&n.ID, &category, &n.Title, &n.Message, &payload, &createdAt, &n.ArrivalSeq, &isRead, &n.UserID); err != nil {
			return nil, fmt.Errorf("local store: scan notification: %w", err)
		}
		n.Category = domain.Category(category)
		n.IsRead = isRead != 0
		n.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("local store: parse timestamp for %s: %w", n.ID, err)
		}
		if err := decodePayload(payload, &n); err != nil {
			return nil, err
		}
		result = append(result, n)
	}

	return result, rows.Err()
}

// DeleteNotification removes one record from the mirror.
func (s *Store) DeleteNotification(id string) error {
	if id == "" {
		return ErrInvalidNotificationID
	}
	res, err := s.db.Exec("DELETE FROM notifications WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("local store: delete notification %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("local store: read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("local store: delete: %w: id %s", ErrNotificationNotFound, id)
	}
	return nil
}

// DeleteAll clears the mirror.
func (s *Store) DeleteAll() error {
	if _, err := s.db.Exec("DELETE FROM notifications"); err != nil {
		return fmt.Errorf("local store: delete all: %w", err)
	}
	return nil
}

// Count returns the number of mirrored records.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM notifications").Scan(&n); err != nil {
		return 0, fmt.Errorf("local store: count: %w", err)
	}
	return n, nil
}

// trim drops the oldest records beyond the retention cap.
func (s *Store) trim() error {
	_, err := s.db.Exec(`
		DELETE FROM notifications WHERE id NOT IN (
			SELECT id FROM notifications
			ORDER BY created_at DESC, arrival_seq DESC
			LIMIT ?
		)`, s.retention)
	if err != nil {
		return fmt.Errorf("local store: trim to %d: %w", s.retention, err)
	}
	return nil
}

func encodePayload(payload map[string]any) (string, error) {
	if len(payload) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodePayload(raw string, n *domain.Notification) error {
	if raw == "" || raw == "{}" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &n.Payload); err != nil {
		return fmt.Errorf("local store: decode payload for %s: %w", n.ID, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func utcNow() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
