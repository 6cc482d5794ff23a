package errors

import (
	"sync"
	"time"
)

// historyCap bounds the stored message history. The viewer only ever shows
// the latest message; older ones are kept for a short scrollback and then
// discarded rather than growing without bound during a long session.
const historyCap = 64

// MessageType classifies a collected message for styling.
type MessageType int

const (
	MessageTypeError MessageType = iota
	MessageTypeWarning
	MessageTypeInfo
	MessageTypeSuccess
)

// Message is one user-facing message collected for the viewer.
type Message struct {
	Text string
	Type MessageType
	At   time.Time
}

// TUIHandler collects messages instead of printing them, so the interactive
// viewer can render them in its own frame. An optional notify callback fires
// on every collected message.
type TUIHandler struct {
	mu      sync.RWMutex
	history []Message
	notify  func(msg Message)
}

// NewTUIHandler creates a collecting handler. notify may be nil.
func NewTUIHandler(notify func(msg Message)) *TUIHandler {
	return &TUIHandler{notify: notify}
}

func (h *TUIHandler) Error(msg string)   { h.collect(msg, MessageTypeError) }
func (h *TUIHandler) Warning(msg string) { h.collect(msg, MessageTypeWarning) }
func (h *TUIHandler) Info(msg string)    { h.collect(msg, MessageTypeInfo) }
func (h *TUIHandler) Success(msg string) { h.collect(msg, MessageTypeSuccess) }

func (h *TUIHandler) collect(text string, kind MessageType) {
	h.mu.Lock()
	message := Message{Text: text, Type: kind, At: time.Now()}
	h.history = append(h.history, message)
	if len(h.history) > historyCap {
		h.history = h.history[len(h.history)-historyCap:]
	}
	h.mu.Unlock()

	if h.notify != nil {
		h.notify(message)
	}
}

// Latest returns the most recent message, if any.
func (h *TUIHandler) Latest() (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.history) == 0 {
		return Message{}, false
	}
	return h.history[len(h.history)-1], true
}

// All returns a copy of the collected history, oldest first.
func (h *TUIHandler) All() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Message, len(h.history))
	copy(out, h.history)
	return out
}

// Clear drops the collected history.
func (h *TUIHandler) Clear() {
	h.mu.Lock()
	h.history = nil
	h.mu.Unlock()
}
