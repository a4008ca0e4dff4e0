package domain

import (
	"context"
	"io"

	inventoryDomain "github.com/davicafu/autostock/internal/inventory/domain"
)

// ObjectStorage abstrae MinIO/S3 y el disco local.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PublicURL(key string) string
	Delete(ctx context.Context, key string) error
}

type ImageRepository interface {
	Create(ctx context.Context, img VehicleImage) error
	GetByID(ctx context.Context, id string) (*VehicleImage, error)
	ListByVehicle(ctx context.Context, vehicleID string) ([]VehicleImage, error)
	DeleteByID(ctx context.Context, id string) error
}

// VehicleCatalog es lo que media necesita del inventario.
type VehicleCatalog interface {
	GetVehicle(ctx context.Context, id string) (*inventoryDomain.Vehicle, error)
	SetPhotosComplete(ctx context.Context, id string, complete bool, userID string) error
}

// AvatarUpdater guarda la URL del avatar en user_profiles.
type AvatarUpdater interface {
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
}
