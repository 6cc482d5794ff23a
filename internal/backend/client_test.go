package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispecer/fleetray/internal/domain"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) AuthToken() (string, error) {
	return s.token, s.err
}

func TestClientList(t *testing.T) {
	var gotAuth string
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		assert.Equal(t, "true", r.URL.Query().Get("include_read"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"unread_count": 3,
			"notifications": []map[string]any{
				{
					"id":         42,
					"type":       "document_expiration",
					"title":      "Documente Soferi",
					"message":    "ITP expira in 5 zile",
					"created_at": "2026-08-20T10:00:00Z",
					"is_read":    false,
					"user":       "driver-7",
				},
				{
					"id":      "srv-9",
					"type":    "Transport Nou",
					"title":   "Transport Nou",
					"message": "Cursa alocata",
					"is_read": true,
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{token: "secret-token"})
	result, err := client.List(context.Background(), ListOptions{Limit: 25, IncludeRead: true})
	require.NoError(t, err)

	assert.Equal(t, "Token secret-token", gotAuth)
	assert.Equal(t, "/notifications/", gotPath)
	assert.Equal(t, 3, result.UnreadCount)
	require.Len(t, result.Items, 2)

	first := result.Items[0]
	assert.Equal(t, "42", first.ID)
	assert.Equal(t, domain.CategoryDocumentExpiration, first.Category)
	assert.Equal(t, "driver-7", first.UserID)
	assert.False(t, first.IsRead)

	second := result.Items[1]
	assert.Equal(t, "srv-9", second.ID)
	assert.Equal(t, domain.CategoryTransportUpdate, second.Category)
	assert.True(t, second.IsRead)
}

func TestClientMissingTokenAbortsBeforeNetwork(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{token: ""})

	_, err := client.List(context.Background(), ListOptions{})
	require.Error(t, err)
	assert.True(t, IsAuthRequired(err))
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.False(t, called, "no request should be issued without a credential")

	err = client.MarkAllRead(context.Background())
	assert.True(t, IsAuthRequired(err))
	assert.False(t, called)
}

func TestClientMarkReadAndDismissPaths(t *testing.T) {
	type call struct {
		method string
		path   string
	}
	var calls []call
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{method: r.Method, path: r.URL.Path})
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{token: "tok"})
	ctx := context.Background()

	require.NoError(t, client.MarkRead(ctx, "notif_1"))
	require.NoError(t, client.Dismiss(ctx, "notif_1"))
	require.NoError(t, client.MarkAllRead(ctx))
	require.NoError(t, client.DismissAll(ctx))

	require.Len(t, calls, 4)
	assert.Equal(t, call{http.MethodPatch, "/notifications/notif_1/read/"}, calls[0])
	assert.Equal(t, call{http.MethodDelete, "/notifications/notif_1/dismiss/"}, calls[1])
	assert.Equal(t, call{http.MethodPatch, "/notifications/read-all/"}, calls[2])
	assert.Equal(t, call{http.MethodDelete, "/notifications/dismiss-all/"}, calls[3])
}

func TestClientAPIErrorCarriesStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail":"not allowed"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{token: "tok"})
	err := client.MarkRead(context.Background(), "x")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Contains(t, apiErr.Body, "not allowed")
	assert.Contains(t, apiErr.Error(), "403")
}

func TestClientRegisterDevice(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/devices/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{token: "tok"})
	require.NoError(t, client.RegisterDevice(context.Background(), "expo-push-token"))
	assert.Equal(t, "expo-push-token", gotBody["token"])
}
