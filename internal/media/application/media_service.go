package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/davicafu/autostock/internal/media/domain"
)

// MediaService sube y borra imágenes de vehículos y avatares.
type MediaService struct {
	storage  domain.ObjectStorage
	images   domain.ImageRepository
	vehicles domain.VehicleCatalog
	profiles domain.AvatarUpdater
	log      *zap.Logger
}

func NewMediaService(storage domain.ObjectStorage, images domain.ImageRepository, vehicles domain.VehicleCatalog, profiles domain.AvatarUpdater, log *zap.Logger) *MediaService {
	return &MediaService{storage: storage, images: images, vehicles: vehicles, profiles: profiles, log: log}
}

// UploadVehicleImage guarda el objeto, registra la imagen y marca el vehículo
// con fotos completas. Si el registro falla el objeto se borra.
func (s *MediaService) UploadVehicleImage(ctx context.Context, vehicleID, userID string, upload domain.Upload) (*domain.VehicleImage, error) {
	if err := upload.Validate(); err != nil {
		return nil, err
	}
	v, err := s.vehicles.GetVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	key := domain.VehicleObjectKey(v.ID, upload)
	if err := s.storage.Upload(ctx, key, upload.Body, upload.Size, upload.ContentType); err != nil {
		s.log.Error("Failed to upload vehicle image", zap.String("vehicle_id", v.ID), zap.Error(err))
		return nil, err
	}

	img := domain.NewVehicleImage(v.ID, key, s.storage.PublicURL(key))
	if err := s.images.Create(ctx, img); err != nil {
		s.removeObject(key)
		return nil, err
	}

	if !v.PhotosComplete {
		if err := s.vehicles.SetPhotosComplete(ctx, v.ID, true, userID); err != nil {
			s.log.Warn("Failed to mark photos complete", zap.String("vehicle_id", v.ID), zap.Error(err))
		}
	}

	s.log.Info("📷 Vehicle image uploaded", zap.String("vehicle_id", v.ID), zap.String("key", key))
	return &img, nil
}

func (s *MediaService) ListVehicleImages(ctx context.Context, vehicleID string) ([]domain.VehicleImage, error) {
	if _, err := s.vehicles.GetVehicle(ctx, vehicleID); err != nil {
		return nil, err
	}
	return s.images.ListByVehicle(ctx, vehicleID)
}

// DeleteImage borra fila y objeto. Sin imágenes restantes el vehículo vuelve a
// quedar sin fotos.
func (s *MediaService) DeleteImage(ctx context.Context, vehicleID, imageID, userID string) error {
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if img.VehicleID != vehicleID {
		return domain.ErrImageNotFound
	}

	if err := s.images.DeleteByID(ctx, img.ID); err != nil {
		return err
	}
	s.removeObject(img.ObjectKey)

	remaining, err := s.images.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return fmt.Errorf("image deleted but could not list remaining: %w", err)
	}
	if len(remaining) == 0 {
		if err := s.vehicles.SetPhotosComplete(ctx, vehicleID, false, userID); err != nil {
			s.log.Warn("Failed to clear photos complete", zap.String("vehicle_id", vehicleID), zap.Error(err))
		}
	}
	return nil
}

// UploadAvatar sube el avatar y guarda la URL pública en el perfil.
func (s *MediaService) UploadAvatar(ctx context.Context, userID string, upload domain.Upload) (string, error) {
	if err := upload.Validate(); err != nil {
		return "", err
	}

	key := domain.AvatarObjectKey(userID, upload)
	if err := s.storage.Upload(ctx, key, upload.Body, upload.Size, upload.ContentType); err != nil {
		s.log.Error("Failed to upload avatar", zap.String("user_id", userID), zap.Error(err))
		return "", err
	}

	url := s.storage.PublicURL(key)
	if err := s.profiles.UpdateAvatar(ctx, userID, url); err != nil {
		s.removeObject(key)
		return "", err
	}
	return url, nil
}

// removeObject limpia un objeto huérfano; un fallo solo se registra.
func (s *MediaService) removeObject(key string) {
	ctx := context.Background()
	if err := s.storage.Delete(ctx, key); err != nil {
		s.log.Warn("Failed to delete object", zap.String("key", key), zap.Error(err))
	}
}
