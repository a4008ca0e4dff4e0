package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/autostock/internal/pending/domain"
)

// InsightService expone la mutación de resolución que usa el ejecutor.
type InsightService struct {
	repo domain.InsightRepository
	log  *zap.Logger
}

func NewInsightService(repo domain.InsightRepository, log *zap.Logger) *InsightService {
	return &InsightService{repo: repo, log: log}
}

// ResolveInsight es idempotente: repetirla conserva el resolved_at original.
func (s *InsightService) ResolveInsight(ctx context.Context, id, userID string, at time.Time) error {
	insight, err := s.repo.Resolve(ctx, id, userID, at)
	if err != nil {
		s.log.Warn("Resolve rejected", zap.String("insight_id", id), zap.Error(err))
		return err
	}
	s.log.Info("✅ Insight resolved",
		zap.String("insight_id", insight.ID),
		zap.String("user_id", userID))
	return nil
}
