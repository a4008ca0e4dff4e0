package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Notification es un mensaje para un usuario. UserID vacío = mensaje de sistema.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Severity  Severity  `json:"severity"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// New crea una notificación con id y fecha.
func New(userID string, severity Severity, title, message string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Severity:  severity,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

// Notifier es el canal "dispara y olvida": nunca devuelve error al llamador.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Repository persiste las notificaciones de la tabla notifications.
type Repository interface {
	Save(ctx context.Context, n Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]Notification, error)
	// Debe devolver ErrNotificationNotFound si no existe o no es del usuario.
	MarkRead(ctx context.Context, id, userID string) error
}
