// Package engine owns the notification collection. A single goroutine applies
// every mutation, so the feed, the unread counter and the badge can never
// disagree under concurrent inputs.
package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dispecer/fleetray/internal/domain"
	"github.com/dispecer/fleetray/internal/logging"
	"github.com/dispecer/fleetray/internal/ports"
)

// FailurePolicy decides what happens to optimistic local state when the
// backend rejects the mutation that produced it.
type FailurePolicy string

const (
	// FailureKeep leaves the optimistic state in place.
	FailureKeep FailurePolicy = "keep"
	// FailureReconcile refetches server truth, rolling the optimism back.
	FailureReconcile FailurePolicy = "reconcile"
)

// Options tunes the engine. Zero values pick the defaults.
type Options struct {
	// MaxNotifications bounds the in-memory feed.
	MaxNotifications int
	// ReconcileDebounce is the quiet period after an ingest before the
	// coalesced backend refetch fires.
	ReconcileDebounce time.Duration
	// OnFailure is the optimistic rollback policy.
	OnFailure FailurePolicy
	// FetchLimit caps the backend list request.
	FetchLimit int
	// IncludeRead asks the backend for read records too.
	IncludeRead bool
	// Clock is the time source. Tests override it.
	Clock func() time.Time
}

func (o *Options) withDefaults() {
	if o.MaxNotifications <= 0 {
		o.MaxNotifications = 100
	}
	if o.ReconcileDebounce <= 0 {
		o.ReconcileDebounce = 2 * time.Second
	}
	if o.OnFailure != FailureReconcile {
		o.OnFailure = FailureKeep
	}
	if o.FetchLimit <= 0 {
		o.FetchLimit = 100
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
}

// Snapshot is a read-only copy of the engine state.
type Snapshot struct {
	Items       []domain.Notification
	UnreadCount int
}

// Engine reconciles realtime events, backend truth and user mutations into
// one de-duplicated, ordered collection.
type Engine struct {
	api   ports.NotificationAPI
	store ports.FeedStore
	// deliver and badge may be nil when the surface runs headless.
	deliver ports.Deliverer
	badge   ports.BadgeKeeper
	opts    Options

	cmds     chan func()
	accepted chan domain.Notification

	runCtx  context.Context
	cancel  context.CancelFunc
	stopped sync.WaitGroup
	started bool

	// Everything below is touched only from the actor goroutine.
	feed       []domain.Notification
	unread     int
	arrivalSeq int64
	// stateSeq is the logical clock for the stale-response guard. Local
	// mutations advance it; a reconcile response issued before the latest
	// mutation is discarded.
	stateSeq  int64
	debounce  *time.Timer
	debounceC <-chan time.Time
}

// New assembles an engine. deliver and badge are optional.
func New(api ports.NotificationAPI, store ports.FeedStore, deliver ports.Deliverer, badge ports.BadgeKeeper, opts Options) *Engine {
	opts.withDefaults()
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	return &Engine{
		api:      api,
		store:    store,
		deliver:  deliver,
		badge:    badge,
		opts:     opts,
		cmds:     make(chan func(), 256),
		accepted: make(chan domain.Notification, 32),
		debounce: timer,
	}
}

// Start warm-starts the feed from the local mirror and launches the actor
// goroutine. It returns once the engine is serving.
func (e *Engine) Start(ctx context.Context) error {
	if e.started {
		return nil
	}
	stored, err := e.store.ListNotifications()
	if err != nil {
		logging.Warn("warm start failed, starting empty", "error", err)
		stored = nil
	}
	e.feed = domain.SortFeed(stored)
	if len(e.feed) > e.opts.MaxNotifications {
		e.feed = e.feed[:e.opts.MaxNotifications]
	}
	for _, n := range e.feed {
		if n.ArrivalSeq > e.arrivalSeq {
			e.arrivalSeq = n.ArrivalSeq
		}
	}
	e.unread = domain.CountUnread(e.feed)
	e.syncBadge()

	e.runCtx, e.cancel = context.WithCancel(ctx)
	e.started = true
	e.stopped.Add(1)
	go e.loop()
	logging.Info("engine started", "warm_items", len(e.feed), "unread", e.unread)
	return nil
}

// Stop shuts the actor down and waits for it. The accepted channel is closed.
func (e *Engine) Stop() {
	if !e.started {
		return
	}
	e.cancel()
	e.stopped.Wait()
	e.started = false
}

// Accepted exposes newly accepted notifications, in acceptance order. Slow
// consumers lose events rather than stalling the engine.
func (e *Engine) Accepted() <-chan domain.Notification {
	return e.accepted
}

func (e *Engine) loop() {
	defer e.stopped.Done()
	defer close(e.accepted)
	for {
		select {
		case cmd := <-e.cmds:
			cmd()
		case <-e.debounceC:
			e.debounceC = nil
			go e.reconcileOnce(e.runCtx)
		case <-e.runCtx.Done():
			e.debounce.Stop()
			return
		}
	}
}

// post runs fn on the actor goroutine and waits for it. Before Start there
// is no actor and no other goroutine can touch the state, so fn runs inline.
func (e *Engine) post(fn func()) {
	if e.runCtx == nil {
		fn()
		return
	}
	done := make(chan struct{})
	select {
	case e.cmds <- func() { fn(); close(done) }:
	case <-e.runCtx.Done():
		return
	}
	select {
	case <-done:
	case <-e.runCtx.Done():
	}
}

// Ingest feeds one raw event into the collection. It never blocks: when the
// command buffer is full the event is dropped and logged.
func (e *Engine) Ingest(raw domain.RawEvent) {
	select {
	case e.cmds <- func() { e.applyIngest(raw) }:
	default:
		logging.Error("ingest dropped, command buffer full", "id", raw.ID)
	}
}

// Snapshot returns a copy of the current feed and counter.
func (e *Engine) Snapshot() Snapshot {
	var snap Snapshot
	e.post(func() {
		snap.Items = make([]domain.Notification, len(e.feed))
		copy(snap.Items, e.feed)
		snap.UnreadCount = e.unread
	})
	return snap
}

// applyIngest runs on the actor goroutine.
func (e *Engine) applyIngest(raw domain.RawEvent) {
	now := e.opts.Clock()
	notif := raw.Normalize(now)

	for _, existing := range e.feed {
		if existing.ID == notif.ID {
			logging.Debug("duplicate ingest ignored", "id", notif.ID)
			return
		}
	}

	e.arrivalSeq++
	notif.ArrivalSeq = e.arrivalSeq
	e.feed = append([]domain.Notification{notif}, e.feed...)
	if !notif.IsRead {
		e.unread++
	}
	// Trimmed-off rows leave the collection, so their unread state leaves
	// the counter with them.
	for len(e.feed) > e.opts.MaxNotifications {
		last := e.feed[len(e.feed)-1]
		e.feed = e.feed[:len(e.feed)-1]
		if !last.IsRead {
			e.unread--
		}
	}
	e.stateSeq++

	if err := e.store.UpsertNotification(notif); err != nil {
		logging.Warn("mirror write failed", "id", notif.ID, "error", err)
	}
	e.syncBadge()
	e.announce(notif)
	if e.deliver != nil {
		ctx := e.runCtx
		if ctx == nil {
			ctx = context.Background()
		}
		go func() {
			if err := e.deliver.Deliver(ctx, notif); err != nil {
				logging.Debug("delivery skipped", "id", notif.ID, "error", err)
			}
		}()
	}
	e.scheduleReconcile()
	logging.Info("notification accepted", "id", notif.ID, "category", notif.Category, "unread", e.unread)
}

// scheduleReconcile arms the coalesced refetch. Bursts of ingests collapse
// into one request, fired after a quiet period.
func (e *Engine) scheduleReconcile() {
	if e.debounceC == nil {
		e.debounce.Reset(e.opts.ReconcileDebounce)
		e.debounceC = e.debounce.C
		return
	}
	if !e.debounce.Stop() {
		<-e.debounce.C
	}
	e.debounce.Reset(e.opts.ReconcileDebounce)
}

// Reconcile fetches server truth and merges it in. Safe to call from any
// goroutine; the merge itself runs on the actor.
func (e *Engine) Reconcile(ctx context.Context) error {
	return e.reconcileOnce(ctx)
}

func (e *Engine) reconcileOnce(ctx context.Context) error {
	var issued int64
	e.post(func() { issued = e.stateSeq })

	result, err := e.api.List(ctx, ports.ListOptions{
		Limit:       e.opts.FetchLimit,
		IncludeRead: e.opts.IncludeRead,
	})
	if err != nil {
		logging.Warn("reconcile fetch failed", "error", err)
		return err
	}

	e.post(func() { e.applyMerge(result, issued) })
	return nil
}

// applyMerge runs on the actor goroutine. Server rows win for read, dismiss
// and category state; rows only the client knows about survive until the
// server returns them or a bulk command clears them. Responses issued before
// the latest local mutation are stale and dropped.
func (e *Engine) applyMerge(result ports.ListResult, issued int64) {
	if issued < e.stateSeq {
		logging.Debug("stale reconcile response dropped", "issued", issued, "state", e.stateSeq)
		return
	}

	existingSeq := make(map[string]int64, len(e.feed))
	for _, n := range e.feed {
		existingSeq[n.ID] = n.ArrivalSeq
	}
	serverIDs := make(map[string]struct{}, len(result.Items))

	merged := make([]domain.Notification, 0, len(result.Items)+4)
	for _, n := range result.Items {
		if n.IsDismissed {
			continue
		}
		serverIDs[n.ID] = struct{}{}
		if seq, ok := existingSeq[n.ID]; ok {
			n.ArrivalSeq = seq
		} else {
			e.arrivalSeq++
			n.ArrivalSeq = e.arrivalSeq
		}
		merged = append(merged, n)
	}

	localOnlyUnread := 0
	for _, n := range e.feed {
		if _, ok := serverIDs[n.ID]; ok {
			continue
		}
		if !isClientID(n.ID) {
			// A server-issued row the server no longer returns was
			// dismissed elsewhere.
			continue
		}
		merged = append(merged, n)
		if !n.IsRead {
			localOnlyUnread++
		}
	}

	e.feed = domain.SortFeed(merged)
	if len(e.feed) > e.opts.MaxNotifications {
		e.feed = e.feed[:e.opts.MaxNotifications]
	}
	e.unread = result.UnreadCount + localOnlyUnread

	if err := e.store.ReplaceAll(e.feed); err != nil {
		logging.Warn("mirror replace failed", "error", err)
	}
	if err := e.store.SetLastSync(e.opts.Clock().UnixMilli()); err != nil {
		logging.Debug("last sync write failed", "error", err)
	}
	e.syncBadge()
	logging.Debug("reconciled", "items", len(e.feed), "unread", e.unread)
}

func isClientID(id string) bool {
	return strings.HasPrefix(id, "notif_")
}

func (e *Engine) syncBadge() {
	if e.badge == nil {
		return
	}
	ctx := e.runCtx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := e.badge.Set(ctx, e.unread); err != nil {
		logging.Debug("badge update failed", "error", err)
	}
}

func (e *Engine) announce(n domain.Notification) {
	select {
	case e.accepted <- n:
	default:
	}
}
