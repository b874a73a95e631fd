package testutil

import "sync"

// Notification is one captured user-visible failure report.
type Notification struct {
	Op  string
	Err error
}

// CollectingNotifier captures notifications for assertion.
type CollectingNotifier struct {
	mu     sync.Mutex
	events []Notification
}

// Notify implements the coordinator's Notifier interface.
func (n *CollectingNotifier) Notify(op string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, Notification{Op: op, Err: err})
}

// Events returns a copy of the captured notifications in order.
func (n *CollectingNotifier) Events() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.events))
	copy(out, n.events)
	return out
}
