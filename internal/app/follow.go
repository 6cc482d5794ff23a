// Package app coordinates the command use-cases on top of the engine, the
// local mirror and the backend client.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dispecer/fleetray/internal/colors"
	"github.com/dispecer/fleetray/internal/domain"
	"github.com/dispecer/fleetray/internal/engine"
	"github.com/dispecer/fleetray/internal/logging"
	"github.com/dispecer/fleetray/internal/realtime"
)

// FollowOptions holds all parameters for follow behavior.
type FollowOptions struct {
	Engine *engine.Engine
	Stream *realtime.Client
	// Output is where accepted notifications are printed. Default os.Stdout.
	Output io.Writer
	// InitialSync fetches server truth before streaming begins.
	InitialSync bool
}

// FollowUseCase runs the live pipeline: stream events in, reconcile, print.
type FollowUseCase struct{}

// NewFollowUseCase creates a follow use-case.
func NewFollowUseCase() *FollowUseCase {
	return &FollowUseCase{}
}

// Execute runs until interruption or context cancellation.
func (u *FollowUseCase) Execute(ctx context.Context, opts FollowOptions) error {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if opts.InitialSync {
		if err := opts.Engine.Reconcile(ctx); err != nil {
			colors.Warning(fmt.Sprintf("initial sync failed, continuing with local state: %v", err))
		}
	}

	go opts.Stream.Run(ctx)
	defer opts.Stream.Close()

	colors.Info("Following notifications (Ctrl+C to stop)...")

	events := opts.Stream.Events()
	accepted := opts.Engine.Accepted()
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-sigChan:
			_, _ = fmt.Fprintf(opts.Output, "\nReceived signal %v, stopping...\n", sig)
			return nil
		case event, ok := <-events:
			if !ok {
				logging.Info("stream ended")
				return nil
			}
			opts.Engine.Ingest(event)
		case notif, ok := <-accepted:
			if !ok {
				return nil
			}
			printAccepted(opts.Output, notif)
		}
	}
}

func printAccepted(w io.Writer, n domain.Notification) {
	color := categoryColor(n.Category)
	title := n.Title
	if title == "" {
		title = string(n.Category)
	}
	_, _ = fmt.Fprintf(w, "%s[%s]%s %s %s| %s%s\n",
		color, n.CreatedAt.Format("15:04:05"), colors.Reset,
		title, color, colors.Reset, n.Message)
}

func categoryColor(c domain.Category) string {
	switch c {
	case domain.CategoryDocumentExpiration:
		return colors.Red
	case domain.CategoryTransportUpdate:
		return colors.Green
	case domain.CategoryDriverStatusChange:
		return colors.Yellow
	default:
		return colors.Blue
	}
}
