package app

import (
	"context"
	"fmt"
	"io"

	"github.com/dispecer/fleetray/internal/engine"
	"github.com/dispecer/fleetray/internal/errors"
)

// MutateUseCase applies user-driven state changes through the engine so the
// optimistic-then-reconcile flow is the same for every surface. Outcomes go
// through the error handler, so the same use-case serves the CLI and the
// interactive viewer.
type MutateUseCase struct {
	engine *engine.Engine
	report errors.ErrorHandler
}

// NewMutateUseCase creates the mutation use-case. A nil handler reports to
// the console.
func NewMutateUseCase(eng *engine.Engine, report errors.ErrorHandler) *MutateUseCase {
	if eng == nil {
		panic("NewMutateUseCase: engine dependency cannot be nil")
	}
	if report == nil {
		report = errors.NewDefaultCLIHandler()
	}
	return &MutateUseCase{engine: eng, report: report}
}

// MarkRead marks one notification read.
func (u *MutateUseCase) MarkRead(ctx context.Context, id string, w io.Writer) error {
	if id == "" {
		return fmt.Errorf("mark-read: notification id is required")
	}
	if err := u.engine.MarkRead(ctx, id); err != nil {
		u.report.Warning(fmt.Sprintf("Server rejected mark-read for %s, local state kept: %v", id, err))
		return err
	}
	u.report.Success(fmt.Sprintf("Notification %s marked as read", id))
	u.printCount(w)
	return nil
}

// Dismiss removes one notification.
func (u *MutateUseCase) Dismiss(ctx context.Context, id string, w io.Writer) error {
	if id == "" {
		return fmt.Errorf("dismiss: notification id is required")
	}
	if err := u.engine.Dismiss(ctx, id); err != nil {
		u.report.Warning(fmt.Sprintf("Server rejected dismiss for %s, local state kept: %v", id, err))
		return err
	}
	u.report.Success(fmt.Sprintf("Notification %s dismissed", id))
	u.printCount(w)
	return nil
}

// MarkAllRead clears the unread counter.
func (u *MutateUseCase) MarkAllRead(ctx context.Context, w io.Writer) error {
	if err := u.engine.MarkAllRead(ctx); err != nil {
		u.report.Warning(fmt.Sprintf("Server rejected read-all, local state kept: %v", err))
		return err
	}
	u.report.Success("All notifications marked as read")
	u.printCount(w)
	return nil
}

// DismissAll empties the feed.
func (u *MutateUseCase) DismissAll(ctx context.Context, w io.Writer) error {
	if err := u.engine.DismissAll(ctx); err != nil {
		u.report.Warning(fmt.Sprintf("Server rejected clear, local state kept: %v", err))
		return err
	}
	u.report.Success("All notifications cleared")
	u.printCount(w)
	return nil
}

func (u *MutateUseCase) printCount(w io.Writer) {
	snap := u.engine.Snapshot()
	_, _ = fmt.Fprintf(w, "%d notifications, %d unread\n", len(snap.Items), snap.UnreadCount)
}
