// Package backend provides the authenticated HTTP client for the remote
// notification API.
package backend

import (
	"errors"
	"fmt"
)

// ErrAuthRequired indicates no bearer credential is available locally.
// The operation aborts before any network call.
var ErrAuthRequired = errors.New("authentication required")

// APIError is a non-2xx response from the notification API. The body is kept
// as diagnostic text; callers only branch on success/failure plus the id.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %s: server returned %d: %s", e.Op, e.Status, e.Body)
}

// IsAuthRequired reports whether err means a missing local credential.
func IsAuthRequired(err error) bool {
	return errors.Is(err, ErrAuthRequired)
}
