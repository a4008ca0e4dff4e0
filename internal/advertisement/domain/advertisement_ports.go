package domain

import (
	"context"
	"time"

	sharedDomain "github.com/davicafu/autostock/shared/domain"
	sharedQuery "github.com/davicafu/autostock/shared/platform/query"
)

// AdvertisementRepository define las operaciones persistentes de anuncios.
type AdvertisementRepository interface {
	Create(ctx context.Context, a *Advertisement) error

	// Debe devolver ErrAdvertisementNotFound si no existe.
	GetByID(ctx context.Context, id string) (*Advertisement, error)

	// Debe devolver ErrAdvertisementNotFound si no existe.
	DeleteByID(ctx context.Context, id string) error

	// Update persiste los campos editables. Debe devolver ErrAdvertisementNotFound si no existe.
	Update(ctx context.Context, a *Advertisement) error

	ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]Advertisement, error)

	// Publish marca el anuncio como publicado y escribe el evento outbox en la
	// misma transacción. Debe devolver ErrAdvertisementNotFound si no existe.
	Publish(ctx context.Context, id, userID string, at time.Time) (*Advertisement, error)
}
