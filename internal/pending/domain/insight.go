package domain

import (
	"time"

	sharedDomain "github.com/davicafu/autostock/shared/domain"
	sharedEvents "github.com/davicafu/autostock/shared/events"
)

type InsightType string

const (
	InsightOrphanedAdvertisement InsightType = "orphaned_advertisement"
	InsightPriceMismatch         InsightType = "price_mismatch"
	InsightSoldVehicleAdvertised InsightType = "sold_vehicle_advertised"
	InsightOther                 InsightType = "other"
)

// Insight es una inconsistencia detectada en un anuncio.
type Insight struct {
	ID              string              `json:"id"`
	AdvertisementID *string             `json:"advertisement_id,omitempty"`
	InsightType     InsightType         `json:"insight_type"`
	Description     string              `json:"description"`
	Store           *sharedDomain.Store `json:"store,omitempty"`
	Resolved        bool                `json:"resolved"`
	CreatedAt       time.Time           `json:"created_at"`
	ResolvedAt      *time.Time          `json:"resolved_at,omitempty"`
}

// ResolvedEvent es el contrato de integración de la resolución.
func (i Insight) ResolvedEvent(userID string) sharedDomain.OutboxEvent {
	payload := sharedEvents.InsightResolved{InsightID: i.ID, ResolvedBy: userID}
	if i.Store != nil {
		payload.Store = string(*i.Store)
	}
	if i.ResolvedAt != nil {
		payload.ResolvedAt = *i.ResolvedAt
	}
	return sharedDomain.NewOutboxEvent("insight", i.ID, sharedEvents.InsightResolvedType, payload)
}
