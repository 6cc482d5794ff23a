/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dispecer/fleetray/internal/backend"
	"github.com/dispecer/fleetray/internal/config"
	"github.com/dispecer/fleetray/internal/engine"
	"github.com/dispecer/fleetray/internal/ports"
	"github.com/dispecer/fleetray/internal/push"
	"github.com/dispecer/fleetray/internal/realtime"
	"github.com/dispecer/fleetray/internal/store"
)

// openStore opens the local mirror under the configured state dir.
func openStore() (*store.Store, error) {
	dir := config.Get("state_dir", "")
	if err := os.MkdirAll(dir, config.FileModeDir); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	s, err := store.New(filepath.Join(dir, "fleetray.db"))
	if err != nil {
		return nil, err
	}
	s.SetRetention(config.GetInt("max_notifications", 100))
	return s, nil
}

func newBackendClient(s *store.Store) *backend.Client {
	return backend.NewClient(config.Get("server_url", ""), s)
}

func engineOptions() engine.Options {
	return engine.Options{
		MaxNotifications:  config.GetInt("max_notifications", 100),
		ReconcileDebounce: time.Duration(config.GetInt("reconcile_debounce_ms", 2000)) * time.Millisecond,
		OnFailure:         engine.FailurePolicy(config.Get("on_failure", "keep")),
		FetchLimit:        config.GetInt("fetch_limit", 50),
		IncludeRead:       config.GetBool("include_read", true),
	}
}

// startEngine wires and warm-starts the engine. Desktop delivery is attached
// only for long-running surfaces; one-shot mutations skip the popups.
func startEngine(ctx context.Context, s *store.Store, api ports.NotificationAPI, withDelivery bool) (*engine.Engine, error) {
	var deliver ports.Deliverer
	if withDelivery {
		deliver = push.NewExecNotifier(push.WithCommand(config.Get("notifier_cmd", "")))
	}
	badge := push.NewBadge(s, push.WithBadgeHook(config.Get("badge_cmd", "")))

	eng := engine.New(api, s, deliver, badge, engineOptions())
	if err := eng.Start(ctx); err != nil {
		return nil, err
	}
	return eng, nil
}

// newStream builds the per-user realtime client. The user id must have been
// stored by login.
func newStream(s *store.Store) (*realtime.Client, error) {
	userID, err := s.UserID()
	if err != nil || userID == "" {
		return nil, fmt.Errorf("no user id stored, run login first")
	}
	return realtime.NewClient(config.Get("ws_url", ""), userID, realtime.Options{
		BaseDelay: time.Duration(config.GetInt("reconnect_base_ms", 3000)) * time.Millisecond,
		MaxDelay:  time.Duration(config.GetInt("reconnect_max_ms", 30000)) * time.Millisecond,
	}), nil
}
