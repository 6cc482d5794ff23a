package app

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispecer/fleetray/internal/domain"
	"github.com/dispecer/fleetray/internal/engine"
	"github.com/dispecer/fleetray/internal/ports"
)

type noopFeed struct{}

func (noopFeed) ListNotifications() ([]domain.Notification, error) { return nil, nil }
func (noopFeed) UpsertNotification(n domain.Notification) error    { return nil }
func (noopFeed) ReplaceAll(notifs []domain.Notification) error     { return nil }
func (noopFeed) DeleteNotification(id string) error                { return nil }
func (noopFeed) DeleteAll() error                                  { return nil }
func (noopFeed) SetLastSync(ms int64) error                        { return nil }

type stubAPI struct {
	mutateErr error
}

func (s *stubAPI) List(ctx context.Context, opts ports.ListOptions) (ports.ListResult, error) {
	return ports.ListResult{}, nil
}
func (s *stubAPI) MarkRead(ctx context.Context, id string) error { return s.mutateErr }
func (s *stubAPI) Dismiss(ctx context.Context, id string) error  { return s.mutateErr }
func (s *stubAPI) MarkAllRead(ctx context.Context) error         { return s.mutateErr }
func (s *stubAPI) DismissAll(ctx context.Context) error          { return s.mutateErr }

type recordingHandler struct {
	errors    []string
	warnings  []string
	infos     []string
	successes []string
}

func (r *recordingHandler) Error(msg string)   { r.errors = append(r.errors, msg) }
func (r *recordingHandler) Warning(msg string) { r.warnings = append(r.warnings, msg) }
func (r *recordingHandler) Info(msg string)    { r.infos = append(r.infos, msg) }
func (r *recordingHandler) Success(msg string) { r.successes = append(r.successes, msg) }

func newMutateFixture(t *testing.T, api *stubAPI) (*MutateUseCase, *recordingHandler) {
	t.Helper()
	eng := engine.New(api, noopFeed{}, nil, nil, engine.Options{ReconcileDebounce: time.Hour})
	require.NoError(t, eng.Start(context.Background()))
	t.Cleanup(eng.Stop)
	handler := &recordingHandler{}
	return NewMutateUseCase(eng, handler), handler
}

func TestMutateReportsSuccessThroughHandler(t *testing.T) {
	u, handler := newMutateFixture(t, &stubAPI{})
	var out bytes.Buffer

	require.NoError(t, u.MarkRead(context.Background(), "n1", &out))

	require.Len(t, handler.successes, 1)
	assert.Contains(t, handler.successes[0], "n1")
	assert.Empty(t, handler.warnings)
	assert.Contains(t, out.String(), "unread")
}

func TestMutateReportsRejectionThroughHandler(t *testing.T) {
	u, handler := newMutateFixture(t, &stubAPI{mutateErr: assert.AnError})
	var out bytes.Buffer

	err := u.Dismiss(context.Background(), "n2", &out)

	require.Error(t, err)
	require.Len(t, handler.warnings, 1)
	assert.Contains(t, handler.warnings[0], "n2")
	assert.Empty(t, handler.successes)
}
