package application

import (
	"context"

	"github.com/davicafu/autostock/internal/notification/domain"
)

// NotificationService expone las notificaciones persistidas de cada usuario.
type NotificationService struct {
	repo domain.Repository
}

func NewNotificationService(repo domain.Repository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly, limit, offset)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}
