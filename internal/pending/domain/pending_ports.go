package domain

import (
	"context"
	"time"

	sharedDomain "github.com/davicafu/autostock/shared/domain"
	sharedQuery "github.com/davicafu/autostock/shared/platform/query"
)

type TaskRepository interface {
	ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]PendingTask, error)
}

type InsightRepository interface {
	ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]Insight, error)

	// Resolve es idempotente: una segunda resolución conserva resolved_at.
	// Debe devolver ErrInsightNotFound si no existe.
	Resolve(ctx context.Context, id, userID string, at time.Time) (*Insight, error)
}
