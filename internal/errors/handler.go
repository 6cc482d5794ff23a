// Package errors routes user-facing failure and progress messages to the
// active surface: console output for one-shot commands, collected messages
// for the interactive viewer.
package errors

import (
	"sync"
)

// ErrorHandler receives user-facing messages from the use-cases. The call
// sites stay surface-agnostic; the surface decides how a rejected mutation
// or a finished sync is shown.
type ErrorHandler interface {
	Error(msg string)
	Warning(msg string)
	Info(msg string)
	Success(msg string)
}

// ColorOutput is the console sink the CLI handler writes through.
type ColorOutput interface {
	Error(msgs ...string)
	Warning(msgs ...string)
	Info(msgs ...string)
	Success(msgs ...string)
}

// CLIHandler prints messages to the console. Errors are guarded against
// re-entry so a sink that itself fails while printing cannot recurse.
type CLIHandler struct {
	colors     ColorOutput
	mu         sync.Mutex
	inHandling bool
}

// NewCLIHandler creates a console handler writing through the given sink.
func NewCLIHandler(colors ColorOutput) *CLIHandler {
	return &CLIHandler{colors: colors}
}

func (h *CLIHandler) enter() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.inHandling {
		return false
	}
	h.inHandling = true
	return true
}

func (h *CLIHandler) leave() {
	h.mu.Lock()
	h.inHandling = false
	h.mu.Unlock()
}

func (h *CLIHandler) Error(msg string) {
	if !h.enter() {
		// Nested failure while reporting one: print it flat.
		h.colors.Error(msg)
		return
	}
	defer h.leave()
	h.colors.Error(msg)
}

func (h *CLIHandler) Warning(msg string) {
	h.colors.Warning(msg)
}

func (h *CLIHandler) Info(msg string) {
	h.colors.Info(msg)
}

func (h *CLIHandler) Success(msg string) {
	h.colors.Success(msg)
}
