package tui

import "sync"

// ListUpdatedMsg is sent into the program when the list controller changed
// state off the event loop (a debounced search landed).
type ListUpdatedMsg struct{}

// refreshDoneMsg signals that a background refresh command finished.
type refreshDoneMsg struct{}

// StatusNotifier renders operation outcomes on the status line. It is the
// console's toast surface. Safe for use from the debounce goroutine.
type StatusNotifier struct {
	mu      sync.Mutex
	message string
	isError bool
}

// NewStatusNotifier creates an empty notifier.
func NewStatusNotifier() *StatusNotifier {
	return &StatusNotifier{}
}

// Success records a success message, replacing the previous one.
func (n *StatusNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.message = msg
	n.isError = false
}

// Error records an error message, replacing the previous one.
func (n *StatusNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.message = msg
	n.isError = true
}

// Current returns the last message and whether it was an error.
func (n *StatusNotifier) Current() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.message, n.isError
}

// Clear drops the current message.
func (n *StatusNotifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.message = ""
	n.isError = false
}
