package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/autostock/internal/productivity/domain"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
)

type ProductivityService struct {
	repo domain.Repository
	log  *zap.Logger
}

func NewProductivityService(repo domain.Repository, log *zap.Logger) *ProductivityService {
	return &ProductivityService{repo: repo, log: log}
}

// DailyTrend devuelve un punto por día de [start, end), con ceros en los días
// sin actividad.
func (s *ProductivityService) DailyTrend(ctx context.Context, start, end time.Time, store sharedDomain.Store) ([]domain.DailyActivity, error) {
	start, end, err := domain.ValidateRange(start, end)
	if err != nil {
		return nil, err
	}
	points, err := s.repo.DailyTrend(ctx, start, end, store)
	if err != nil {
		s.log.Error("Failed to load productivity trend", zap.Error(err))
		return nil, err
	}
	return domain.FillDays(points, start, end), nil
}

func (s *ProductivityService) ByUser(ctx context.Context, start, end time.Time, store sharedDomain.Store) ([]domain.UserActivity, error) {
	start, end, err := domain.ValidateRange(start, end)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.ByUser(ctx, start, end, store)
	if err != nil {
		s.log.Error("Failed to load productivity by user", zap.Error(err))
		return nil, err
	}
	return users, nil
}
