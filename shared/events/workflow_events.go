package events

import (
	"reflect"
	"time"
)

// Contratos de integración publicados por el flujo de pendencias.
// Los consumidores no dependen de las entidades de dominio.

type AdvertisementPublished struct {
	AdvertisementID string    `json:"advertisement_id"`
	Store           string    `json:"store"`
	PublishedBy     string    `json:"published_by"`
	PublishedAt     time.Time `json:"published_at"`
}

type InsightResolved struct {
	InsightID  string    `json:"insight_id"`
	Store      string    `json:"store"`
	ResolvedBy string    `json:"resolved_by"`
	ResolvedAt time.Time `json:"resolved_at"`
}

type VehicleSold struct {
	VehicleID string    `json:"vehicle_id"`
	Store     string    `json:"store"`
	SellerID  string    `json:"seller_id"`
	Price     float64   `json:"price"`
	SoldAt    time.Time `json:"sold_at"`
}

// Tipos de evento publicados en el topic común.
const (
	AdvertisementPublishedType = "advertisement.published"
	InsightResolvedType        = "insight.resolved"
	VehicleSoldType            = "vehicle.sold"
)

const Topic = "autostock-events"

// NewEventRegistry mapea cada tipo de evento a su contrato para el relayer.
func NewEventRegistry() map[string]EventMetadata {
	return map[string]EventMetadata{
		AdvertisementPublishedType: {Type: reflect.TypeOf(AdvertisementPublished{}), Topic: Topic},
		InsightResolvedType:        {Type: reflect.TypeOf(InsightResolved{}), Topic: Topic},
		VehicleSoldType:            {Type: reflect.TypeOf(VehicleSold{}), Topic: Topic},
	}
}
