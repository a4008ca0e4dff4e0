package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/autostock/internal/advertisement/domain"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
	sharedQuery "github.com/davicafu/autostock/shared/platform/query"
	sharedUtils "github.com/davicafu/autostock/shared/utils"
)

// AdvertisementService agrupa los casos de uso de anuncios.
type AdvertisementService struct {
	repo domain.AdvertisementRepository
	log  *zap.Logger
}

func NewAdvertisementService(repo domain.AdvertisementRepository, log *zap.Logger) *AdvertisementService {
	return &AdvertisementService{repo: repo, log: log}
}

type CreateAdvertisementInput struct {
	Platform        domain.Platform
	VehiclePlates   []string
	AdvertisedPrice float64
	Store           sharedDomain.Store
	Description     string
}

func (s *AdvertisementService) CreateAdvertisement(ctx context.Context, in CreateAdvertisementInput) (*domain.Advertisement, error) {
	ad, err := domain.NewAdvertisement(in.Platform, in.VehiclePlates, in.AdvertisedPrice, in.Store, in.Description)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, ad); err != nil {
		s.log.Error("Failed to create advertisement", zap.Error(err))
		return nil, err
	}
	return ad, nil
}

// GetAdvertisement lee con reintentos; el not-found no se reintenta.
func (s *AdvertisementService) GetAdvertisement(ctx context.Context, id string) (*domain.Advertisement, error) {
	var ad *domain.Advertisement
	err := sharedUtils.Retry(ctx, 3, 100*time.Millisecond, func() error {
		var errRetry error
		ad, errRetry = s.repo.GetByID(ctx, id)
		if errors.Is(errRetry, domain.ErrAdvertisementNotFound) {
			return sharedUtils.Permanent{Err: errRetry}
		}
		return errRetry
	})
	if err != nil {
		if !errors.Is(err, domain.ErrAdvertisementNotFound) {
			s.log.Error("Failed to fetch advertisement", zap.String("advertisement_id", id), zap.Error(err))
		}
		return nil, err
	}
	return ad, nil
}

func (s *AdvertisementService) ListAdvertisements(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]domain.Advertisement, error) {
	return s.repo.ListByCriteria(ctx, criteria, pagination, sort)
}

// UpdateAdvertisement edita precio, plataforma, matrículas o descripción.
func (s *AdvertisementService) UpdateAdvertisement(ctx context.Context, id string, patch domain.AdvertisementPatch) (*domain.Advertisement, error) {
	ad, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ad.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, ad); err != nil {
		s.log.Error("Failed to update advertisement", zap.String("advertisement_id", id), zap.Error(err))
		return nil, err
	}
	return ad, nil
}

func (s *AdvertisementService) DeleteAdvertisement(ctx context.Context, id string) error {
	return s.repo.DeleteByID(ctx, id)
}

// PublishAdvertisement es la mutación remota que usa el ejecutor de acciones.
func (s *AdvertisementService) PublishAdvertisement(ctx context.Context, id, userID string, at time.Time) error {
	ad, err := s.repo.Publish(ctx, id, userID, at)
	if err != nil {
		s.log.Warn("Publish rejected", zap.String("advertisement_id", id), zap.Error(err))
		return err
	}
	s.log.Info("📣 Advertisement published",
		zap.String("advertisement_id", ad.ID),
		zap.String("store", string(ad.Store)),
		zap.String("user_id", userID))
	return nil
}
