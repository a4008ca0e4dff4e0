package domain

import (
	"context"
	"time"
)

// AdvertisementPublisher es la mutación remota de publicación.
type AdvertisementPublisher interface {
	PublishAdvertisement(ctx context.Context, id, userID string, at time.Time) error
}

// InsightResolver es la mutación remota de resolución (idempotente).
type InsightResolver interface {
	ResolveInsight(ctx context.Context, id, userID string, at time.Time) error
}
