package domain

import (
	"context"

	sharedDomain "github.com/davicafu/autostock/shared/domain"
	sharedQuery "github.com/davicafu/autostock/shared/platform/query"
)

// --- Repositorio de vehículos ---
type VehicleRepository interface {
	Create(ctx context.Context, v *Vehicle) error
	Update(ctx context.Context, v *Vehicle) error
	GetByID(ctx context.Context, id string) (*Vehicle, error)
	ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]Vehicle, error)
	// RecordSale marca el vehículo como vendido, inserta la venta y el
	// evento outbox en una sola transacción.
	RecordSale(ctx context.Context, v *Vehicle, sale *Sale) error
}

// ChangeHistoryRepository guarda el historial campo a campo (SQL o MongoDB).
type ChangeHistoryRepository interface {
	Append(ctx context.Context, changes []VehicleChange) error
	ListByVehicle(ctx context.Context, vehicleID string) ([]VehicleChange, error)
}
