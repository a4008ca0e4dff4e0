package mocks

import (
	"context"
	"sync"

	notificationDomain "github.com/davicafu/autostock/internal/notification/domain"
)

// RecordingNotifier guarda todas las notificaciones emitidas.
type RecordingNotifier struct {
	mu   sync.Mutex
	sent []notificationDomain.Notification
}

var _ notificationDomain.Notifier = (*RecordingNotifier)(nil)

func (n *RecordingNotifier) Notify(ctx context.Context, msg notificationDomain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *RecordingNotifier) Sent() []notificationDomain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notificationDomain.Notification(nil), n.sent...)
}

// BySeverity devuelve las notificaciones de una severidad.
func (n *RecordingNotifier) BySeverity(s notificationDomain.Severity) []notificationDomain.Notification {
	var out []notificationDomain.Notification
	for _, msg := range n.Sent() {
		if msg.Severity == s {
			out = append(out, msg)
		}
	}
	return out
}
