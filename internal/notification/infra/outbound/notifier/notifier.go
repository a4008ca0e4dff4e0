package notifier

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/autostock/internal/notification/domain"
)

// LogNotifier escribe cada notificación en el log estructurado.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, msg domain.Notification) {
	fields := []zap.Field{
		zap.String("user_id", msg.UserID),
		zap.String("severity", string(msg.Severity)),
		zap.String("message", msg.Message),
	}
	switch msg.Severity {
	case domain.SeverityError:
		n.log.Error("🔔 "+msg.Title, fields...)
	case domain.SeverityWarning:
		n.log.Warn("🔔 "+msg.Title, fields...)
	default:
		n.log.Info("🔔 "+msg.Title, fields...)
	}
}

// StoreNotifier persiste la notificación para que el usuario la lea después.
// Los mensajes de sistema (sin usuario) no se guardan.
type StoreNotifier struct {
	repo domain.Repository
	log  *zap.Logger
}

func NewStoreNotifier(repo domain.Repository, log *zap.Logger) *StoreNotifier {
	return &StoreNotifier{repo: repo, log: log}
}

func (n *StoreNotifier) Notify(ctx context.Context, msg domain.Notification) {
	if msg.UserID == "" {
		return
	}
	// La petición original puede haber terminado; la notificación no.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := n.repo.Save(saveCtx, msg); err != nil {
		n.log.Warn("Failed to persist notification", zap.String("user_id", msg.UserID), zap.Error(err))
	}
}

// Fanout reparte cada notificación entre varios notifiers.
type Fanout []domain.Notifier

func (f Fanout) Notify(ctx context.Context, msg domain.Notification) {
	for _, n := range f {
		n.Notify(ctx, msg)
	}
}

var (
	_ domain.Notifier = (*LogNotifier)(nil)
	_ domain.Notifier = (*StoreNotifier)(nil)
	_ domain.Notifier = Fanout(nil)
)
