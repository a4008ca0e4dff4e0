package application

import (
	pendingDomain "github.com/davicafu/autostock/internal/pending/domain"
	"github.com/davicafu/autostock/internal/workflow/domain"
	"github.com/davicafu/autostock/shared/platform/cache"
)

// Plan dice qué listas cacheadas se parchean en optimista y qué claves se
// invalidan al terminar (tanto si falla como si no).
type Plan struct {
	Patch        []cache.Key
	Invalidate   []cache.Key
	SuccessTitle string
	FailureTitle string
}

func root(name string) cache.Key { return cache.Key{name} }

// PlanFor devuelve el plan de cada tipo de acción.
func PlanFor(action domain.Action) Plan {
	switch action.(type) {
	case domain.PublishAdvertisement:
		return Plan{
			Patch: []cache.Key{root(pendingDomain.QueryUnpublishedAds)},
			Invalidate: []cache.Key{
				root(pendingDomain.QueryUnpublishedAds),
				root(pendingDomain.QueryAdvertisements),
				root(pendingDomain.QueryPendingAnalytics),
				root(pendingDomain.QuerySystemHealth),
				root(pendingDomain.QueryPendingTasks),
			},
			SuccessTitle: "Advertisement published",
			FailureTitle: "Failed to publish advertisement",
		}
	case domain.ResolveInsight:
		return Plan{
			Patch: []cache.Key{root(pendingDomain.QueryPendingInsights)},
			Invalidate: []cache.Key{
				root(pendingDomain.QueryPendingInsights),
				root(pendingDomain.QueryPendingAnalytics),
				root(pendingDomain.QuerySystemHealth),
			},
			SuccessTitle: "Insight resolved",
			FailureTitle: "Failed to resolve insight",
		}
	default:
		return Plan{
			Invalidate: []cache.Key{
				root(pendingDomain.QueryPendingTasks),
				root(pendingDomain.QueryPendingAnalytics),
			},
			SuccessTitle: "Task created",
			FailureTitle: "Failed to create task",
		}
	}
}
