package domain

import (
	sharedDomain "github.com/davicafu/autostock/shared/domain"
	"github.com/davicafu/autostock/shared/platform/cache"
)

// Raíces de las claves de la caché de consultas. Cada lista por tienda
// cuelga de su raíz: invalidar la raíz invalida todas las tiendas.
const (
	QueryPendingTasks      = "pending-tasks"
	QueryPendingInsights   = "pending-insights"
	QueryUnpublishedAds    = "unpublished-ads"
	QueryAdvertisements    = "advertisements"
	QueryPendingAnalytics  = "pending-analytics"
	QuerySystemHealth      = "system-health"
	QueryConsolidatedState = "consolidated-state"
)

func PendingTasksKey(store sharedDomain.Store) cache.Key {
	return cache.Key{QueryPendingTasks, string(store)}
}

func PendingInsightsKey(store sharedDomain.Store) cache.Key {
	return cache.Key{QueryPendingInsights, string(store)}
}

func UnpublishedAdsKey(store sharedDomain.Store) cache.Key {
	return cache.Key{QueryUnpublishedAds, string(store)}
}

func PendingAnalyticsKey(store sharedDomain.Store) cache.Key {
	return cache.Key{QueryPendingAnalytics, string(store)}
}

func SystemHealthKey() cache.Key {
	return cache.Key{QuerySystemHealth}
}
