package realtime

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dispecer/fleetray/internal/domain"
	"github.com/dispecer/fleetray/internal/logging"
	"github.com/dispecer/fleetray/internal/ports"
)

var _ ports.ConnStateSource = (*Client)(nil)

// State is a read-only snapshot of the connection.
type State struct {
	Connected    bool
	UserID       string
	RetryAttempt int
}

// Options tunes the reconnect behavior. Zero values pick the defaults.
type Options struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// Client maintains one per-user websocket to the notification stream. It
// reconnects with growing delays until Close is called; decoded events are
// published on the Events channel.
type Client struct {
	url    string
	userID string
	dialer *websocket.Dialer
	base   time.Duration
	max    time.Duration

	events chan domain.RawEvent

	mu      sync.Mutex
	state   State
	conn    *websocket.Conn
	retryAt *time.Timer
	closed  bool
	done    chan struct{}
}

// NewClient prepares a client for one user's stream. The stream URL is the
// websocket root; the user id is appended as a path segment.
func NewClient(wsURL, userID string, opts Options) *Client {
	base := opts.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	max := opts.MaxDelay
	if max <= 0 {
		max = DefaultMaxDelay
	}
	return &Client{
		url:    strings.TrimRight(wsURL, "/") + "/" + userID + "/",
		userID: userID,
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		base:   base,
		max:    max,
		events: make(chan domain.RawEvent, 16),
		state:  State{UserID: userID},
		done:   make(chan struct{}),
	}
}

// Events exposes decoded notification events. The channel is closed when the
// connection loop exits.
func (c *Client) Events() <-chan domain.RawEvent {
	return c.events
}

// Snapshot returns the current connection state.
func (c *Client) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connected reports whether the socket is open right now.
func (c *Client) Connected() bool {
	return c.Snapshot().Connected
}

// RetryAttempt returns the count of consecutive failed connect attempts.
func (c *Client) RetryAttempt() int {
	return c.Snapshot().RetryAttempt
}

// Run drives the connect/read/reconnect loop until the context is cancelled
// or Close is called. It always closes the events channel on exit.
func (c *Client) Run(ctx context.Context) {
	defer close(c.events)

	for {
		if c.isClosed() || ctx.Err() != nil {
			return
		}

		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			attempt := c.bumpRetry()
			delay := reconnectDelay(attempt-1, c.base, c.max)
			logging.Warn("stream connect failed", "user", c.userID, "attempt", attempt, "retry_in", delay, "error", err)
			if !c.wait(ctx, delay) {
				return
			}
			continue
		}

		if c.isClosed() {
			_ = conn.Close()
			return
		}
		c.setConnected(conn)
		logging.Info("stream connected", "user", c.userID)
		c.readLoop(conn)
		c.setDisconnected()

		if c.isClosed() || ctx.Err() != nil {
			return
		}
		attempt := c.bumpRetry()
		delay := reconnectDelay(attempt-1, c.base, c.max)
		logging.Info("stream closed, reconnecting", "user", c.userID, "attempt", attempt, "retry_in", delay)
		if !c.wait(ctx, delay) {
			return
		}
	}
}

// Close tears the connection down and stops any pending reconnect. Safe to
// call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.retryAt != nil {
		c.retryAt.Stop()
	}
	conn := c.conn
	done := c.done
	c.mu.Unlock()

	close(done)
	if conn != nil {
		_ = conn.Close()
	}
}

// readLoop consumes frames until the peer closes or a read fails. Read
// errors end the connection; decode errors only drop the frame.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !c.isClosed() {
				logging.Debug("stream read ended", "user", c.userID, "error", err)
			}
			_ = conn.Close()
			return
		}

		event, err := parseFrame(data)
		if err != nil {
			if err != ErrIgnoredFrame {
				logging.Warn("malformed stream frame dropped", "user", c.userID, "error", err)
			}
			continue
		}

		select {
		case c.events <- event:
		case <-c.done:
			_ = conn.Close()
			return
		}
	}
}

func (c *Client) wait(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	c.mu.Lock()
	c.retryAt = timer
	c.mu.Unlock()
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	case <-c.done:
		return false
	}
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Client) bumpRetry() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.RetryAttempt++
	return c.state.RetryAttempt
}

func (c *Client) setConnected(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn = conn
	c.state.Connected = true
	c.state.RetryAttempt = 0
}

func (c *Client) setDisconnected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn = nil
	c.state.Connected = false
}
