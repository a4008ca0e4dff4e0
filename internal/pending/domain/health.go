package domain

// Penalizaciones del health score por cada inconsistencia abierta.
const (
	penaltyOrphanedAd       = 10
	penaltyPriceMismatch    = 8
	penaltyVehicleWithoutAd = 5
	penaltyOtherPendingTask = 2
	maxHealthScore          = 100
)

// HealthMetrics es derivado; se recalcula en cada consulta.
type HealthMetrics struct {
	OrphanedAds          int `json:"orphaned_ads"`
	VehiclesWithoutAds   int `json:"vehicles_without_ads"`
	PriceInconsistencies int `json:"price_inconsistencies"`
	PendingTasks         int `json:"pending_tasks"`
	UnresolvedInsights   int `json:"unresolved_insights"`
	HealthScore          int `json:"health_score"`
}

// ComputeHealth ignora tareas completadas e insights resueltos.
func ComputeHealth(tasks []PendingTask, insights []Insight) HealthMetrics {
	var m HealthMetrics
	otherTasks := 0

	for _, t := range tasks {
		if !t.IsPending() {
			continue
		}
		m.PendingTasks++
		if t.Kind == KindMissingAdvertisement {
			m.VehiclesWithoutAds++
		} else {
			otherTasks++
		}
	}
	for _, i := range insights {
		if i.Resolved {
			continue
		}
		m.UnresolvedInsights++
		switch i.InsightType {
		case InsightOrphanedAdvertisement, InsightSoldVehicleAdvertised:
			m.OrphanedAds++
		case InsightPriceMismatch:
			m.PriceInconsistencies++
		}
	}

	score := maxHealthScore -
		penaltyOrphanedAd*m.OrphanedAds -
		penaltyPriceMismatch*m.PriceInconsistencies -
		penaltyVehicleWithoutAd*m.VehiclesWithoutAds -
		penaltyOtherPendingTask*otherTasks
	m.HealthScore = clamp(score, 0, maxHealthScore)
	return m
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
