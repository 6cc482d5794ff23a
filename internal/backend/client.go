package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dispecer/fleetray/internal/domain"
	"github.com/dispecer/fleetray/internal/logging"
	"github.com/dispecer/fleetray/internal/ports"
)

// TokenSource supplies the bearer credential at call time.
// The local store implements it.
type TokenSource interface {
	AuthToken() (string, error)
}

// ListOptions narrows a notification list request.
type ListOptions = ports.ListOptions

// ListResult is the server's answer to a list request.
type ListResult = ports.ListResult

// Client talks to the remote notification API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewClient creates a backend client. The base URL is the server root,
// without the /notifications suffix.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
	}
}

// SetHTTPClient overrides the underlying HTTP client. Used by tests.
func (c *Client) SetHTTPClient(h *http.Client) {
	c.http = h
}

// notificationDTO is the wire shape of one notification record.
type notificationDTO struct {
	ID        json.RawMessage `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Data      map[string]any  `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	IsRead    bool            `json:"is_read"`
	UserID    json.RawMessage `json:"user"`
}

type listResponse struct {
	Notifications []notificationDTO `json:"notifications"`
	UnreadCount   int               `json:"unread_count"`
}

// List fetches the server-authoritative notification page, most recent first.
func (c *Client) List(ctx context.Context, opts ListOptions) (ListResult, error) {
	query := url.Values{}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	query.Set("include_read", strconv.FormatBool(opts.IncludeRead))
	if opts.Type != "" {
		query.Set("type", opts.Type.String())
	}

	body, err := c.do(ctx, http.MethodGet, "/notifications/?"+query.Encode(), nil, "list notifications")
	if err != nil {
		return ListResult{}, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ListResult{}, fmt.Errorf("backend: decode notification list: %w", err)
	}

	result := ListResult{
		Items:       make([]domain.Notification, 0, len(resp.Notifications)),
		UnreadCount: resp.UnreadCount,
	}
	for _, dto := range resp.Notifications {
		result.Items = append(result.Items, dto.toDomain())
	}
	return result, nil
}

// MarkRead marks one notification read on the server.
func (c *Client) MarkRead(ctx context.Context, id string) error {
	path := fmt.Sprintf("/notifications/%s/read/", url.PathEscape(id))
	_, err := c.do(ctx, http.MethodPatch, path, nil, "mark read "+id)
	return err
}

// Dismiss removes one notification on the server.
func (c *Client) Dismiss(ctx context.Context, id string) error {
	path := fmt.Sprintf("/notifications/%s/dismiss/", url.PathEscape(id))
	_, err := c.do(ctx, http.MethodDelete, path, nil, "dismiss "+id)
	return err
}

// MarkAllRead marks every notification read on the server.
func (c *Client) MarkAllRead(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPatch, "/notifications/read-all/", nil, "mark all read")
	return err
}

// DismissAll removes every notification on the server.
func (c *Client) DismissAll(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/notifications/dismiss-all/", nil, "dismiss all")
	return err
}

// RegisterDevice uploads the device push token.
func (c *Client) RegisterDevice(ctx context.Context, token string) error {
	payload, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return fmt.Errorf("backend: encode device token: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, "/devices/", payload, "register device")
	return err
}

// do issues one authenticated request. A missing credential aborts before
// any network I/O.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, op string) ([]byte, error) {
	token, err := c.tokens.AuthToken()
	if err != nil || token == "" {
		return nil, fmt.Errorf("backend: %s: %w", op, ErrAuthRequired)
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("backend: %s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Token "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logging.Warn("notification api request failed", "op", op, "error", err)
		return nil, fmt.Errorf("backend: %s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("backend: %s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logging.Warn("notification api rejected request", "op", op, "status", resp.StatusCode)
		return nil, &APIError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	return data, nil
}

func (dto notificationDTO) toDomain() domain.Notification {
	category := domain.Category(dto.Type)
	if !category.IsValid() {
		category = domain.InferCategory(dto.Type)
	}
	return domain.Notification{
		ID:        rawToString(dto.ID),
		Category:  category,
		Title:     dto.Title,
		Message:   dto.Message,
		Payload:   dto.Data,
		CreatedAt: dto.CreatedAt,
		IsRead:    dto.IsRead,
		UserID:    rawToString(dto.UserID),
	}
}

// rawToString accepts the backend's string-or-integer identifiers.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return strings.Trim(string(raw), `"`)
}
