package push

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/dispecer/fleetray/internal/domain"
	"github.com/dispecer/fleetray/internal/logging"
)

// DefaultNotifierCommand is the desktop notifier used when none is configured.
const DefaultNotifierCommand = "notify-send"

const deliverTimeout = 5 * time.Second

// Notifier surfaces one notification on the desktop.
type Notifier interface {
	Deliver(ctx context.Context, n domain.Notification) error
}

// commandRunner executes external commands. Split out so tests can observe
// invocations without a desktop session.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// ExecNotifier shells out to a notifier command. Delivery failure is a soft
// failure: the error is returned for logging but the pipeline carries on.
type ExecNotifier struct {
	command string
	runner  commandRunner
}

// NotifierOption configures an ExecNotifier.
type NotifierOption func(*ExecNotifier)

// WithCommand overrides the notifier command.
func WithCommand(command string) NotifierOption {
	return func(n *ExecNotifier) {
		if command != "" {
			n.command = command
		}
	}
}

// WithRunner overrides the command runner. Used by tests.
func WithRunner(runner commandRunner) NotifierOption {
	return func(n *ExecNotifier) {
		n.runner = runner
	}
}

// NewExecNotifier creates a notifier backed by an external command.
func NewExecNotifier(opts ...NotifierOption) *ExecNotifier {
	notifier := &ExecNotifier{
		command: DefaultNotifierCommand,
		runner:  execRunner{},
	}
	for _, opt := range opts {
		opt(notifier)
	}
	return notifier
}

// Deliver surfaces the notification with the urgency and expiry of its
// category profile. notify-send gets the full flag set; any other command
// receives just title and message.
func (n *ExecNotifier) Deliver(ctx context.Context, notif domain.Notification) error {
	profile := ProfileFor(notif.Category)

	ctx, cancel := context.WithTimeout(ctx, deliverTimeout)
	defer cancel()

	args := n.arguments(notif, profile)
	if err := n.runner.Run(ctx, n.command, args...); err != nil {
		logging.Warn("desktop delivery failed",
			"command", n.command, "id", notif.ID, "channel", profile.Channel, "error", err)
		return fmt.Errorf("push: deliver %s: %w", notif.ID, err)
	}
	logging.Debug("notification delivered", "id", notif.ID, "channel", profile.Channel)
	return nil
}

func (n *ExecNotifier) arguments(notif domain.Notification, profile Profile) []string {
	if n.command != DefaultNotifierCommand {
		return []string{notif.Title, notif.Message}
	}
	args := []string{
		"--app-name", "fleetray",
		"--urgency", string(profile.Urgency),
		"--category", profile.Channel,
	}
	if profile.ExpireAfter > 0 {
		args = append(args, "--expire-time", strconv.Itoa(int(profile.ExpireAfter.Milliseconds())))
	}
	return append(args, notif.Title, notif.Message)
}
