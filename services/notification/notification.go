package notification

import (
	"sync"

	"go.uber.org/zap"
)

// Notification is a user-visible message raised by the dispatch engine.
// Backend and network errors never crash a session; they end up here.
type Notification struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // "info" or "error"
}

// Notifier delivers notifications for a dispatch session.
type Notifier interface {
	Notify(sessionID string, n Notification)
}

// InboxNotifier queues notifications per session until the dashboard
// drains them. This stands in for the client-side toast channel.
type InboxNotifier struct {
	Logger *zap.Logger

	mu    sync.Mutex
	inbox map[string][]Notification
}

func NewInboxNotifier(logger *zap.Logger) *InboxNotifier {
	return &InboxNotifier{
		Logger: logger,
		inbox:  make(map[string][]Notification),
	}
}

func (n *InboxNotifier) Notify(sessionID string, msg Notification) {
	n.mu.Lock()
	n.inbox[sessionID] = append(n.inbox[sessionID], msg)
	n.mu.Unlock()

	if n.Logger != nil {
		n.Logger.Info("notification",
			zap.String("session", sessionID),
			zap.String("title", msg.Title),
			zap.String("severity", msg.Severity),
		)
	}
}

// Drain returns and clears the pending notifications for a session.
func (n *InboxNotifier) Drain(sessionID string) []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	msgs := n.inbox[sessionID]
	delete(n.inbox, sessionID)
	return msgs
}

// Forget drops any queued notifications for a closed session.
func (n *InboxNotifier) Forget(sessionID string) {
	n.mu.Lock()
	delete(n.inbox, sessionID)
	n.mu.Unlock()
}
