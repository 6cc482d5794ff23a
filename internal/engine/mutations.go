package engine

import (
	"context"

	"github.com/dispecer/fleetray/internal/domain"
	"github.com/dispecer/fleetray/internal/logging"
)

// MarkRead marks one notification read: optimistic local apply, backend call,
// then a reconcile. On backend failure the optimistic state stays unless the
// rollback policy is "reconcile".
func (e *Engine) MarkRead(ctx context.Context, id string) error {
	e.post(func() { e.applyMarkRead(id) })
	return e.finishMutation(ctx, "mark read", id, e.api.MarkRead(ctx, id))
}

// Dismiss removes one notification: optimistic local apply, backend call,
// then a reconcile.
func (e *Engine) Dismiss(ctx context.Context, id string) error {
	e.post(func() { e.applyDismiss(id) })
	return e.finishMutation(ctx, "dismiss", id, e.api.Dismiss(ctx, id))
}

// MarkAllRead clears the unread counter: optimistic local apply, backend
// call, then a reconcile.
func (e *Engine) MarkAllRead(ctx context.Context) error {
	e.post(func() { e.applyMarkAllRead() })
	return e.finishMutation(ctx, "mark all read", "", e.api.MarkAllRead(ctx))
}

// DismissAll empties the feed: optimistic local apply, backend call, then a
// reconcile.
func (e *Engine) DismissAll(ctx context.Context) error {
	e.post(func() { e.applyDismissAll() })
	return e.finishMutation(ctx, "dismiss all", "", e.api.DismissAll(ctx))
}

// finishMutation sequences the post-mutation reconcile. Success always
// refetches server truth; failure refetches only under the reconcile policy,
// otherwise the optimistic state is kept until the next sync.
func (e *Engine) finishMutation(ctx context.Context, op, id string, err error) error {
	if err != nil {
		logging.Warn("backend mutation failed", "op", op, "id", id, "policy", e.opts.OnFailure, "error", err)
		if e.opts.OnFailure == FailureReconcile {
			if rerr := e.reconcileOnce(ctx); rerr != nil {
				logging.Warn("rollback reconcile failed", "op", op, "error", rerr)
			}
		}
		return err
	}
	if rerr := e.reconcileOnce(ctx); rerr != nil {
		logging.Warn("post-mutation reconcile failed", "op", op, "error", rerr)
	}
	return nil
}

func (e *Engine) applyMarkRead(id string) {
	for i := range e.feed {
		if e.feed[i].ID != id {
			continue
		}
		if e.feed[i].IsRead {
			return
		}
		e.feed[i].MarkRead()
		if e.unread > 0 {
			e.unread--
		}
		e.stateSeq++
		if err := e.store.UpsertNotification(e.feed[i]); err != nil {
			logging.Warn("mirror write failed", "id", id, "error", err)
		}
		e.syncBadge()
		return
	}
	logging.Debug("mark read on unknown id", "id", id)
}

func (e *Engine) applyDismiss(id string) {
	for i := range e.feed {
		if e.feed[i].ID != id {
			continue
		}
		if !e.feed[i].IsRead && e.unread > 0 {
			e.unread--
		}
		e.feed = append(e.feed[:i], e.feed[i+1:]...)
		e.stateSeq++
		if err := e.store.DeleteNotification(id); err != nil {
			logging.Warn("mirror delete failed", "id", id, "error", err)
		}
		e.syncBadge()
		return
	}
	logging.Debug("dismiss on unknown id", "id", id)
}

func (e *Engine) applyMarkAllRead() {
	changed := false
	for i := range e.feed {
		if !e.feed[i].IsRead {
			e.feed[i].MarkRead()
			changed = true
		}
	}
	e.unread = 0
	if !changed {
		e.syncBadge()
		return
	}
	e.stateSeq++
	if err := e.store.ReplaceAll(e.feed); err != nil {
		logging.Warn("mirror replace failed", "error", err)
	}
	e.syncBadge()
}

func (e *Engine) applyDismissAll() {
	e.feed = []domain.Notification{}
	e.unread = 0
	e.stateSeq++
	if err := e.store.DeleteAll(); err != nil {
		logging.Warn("mirror clear failed", "error", err)
	}
	e.syncBadge()
}
