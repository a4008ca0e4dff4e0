package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/autostock/internal/inventory/domain"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
	sharedCache "github.com/davicafu/autostock/shared/platform/cache"
	sharedQuery "github.com/davicafu/autostock/shared/platform/query"
	sharedUtils "github.com/davicafu/autostock/shared/utils"
)

const vehicleCacheTTL = 60 // segundos

// InventoryService define los casos de uso del inventario.
type InventoryService struct {
	repo    domain.VehicleRepository
	history domain.ChangeHistoryRepository
	cache   sharedCache.Cache
	log     *zap.Logger
	now     func() time.Time
}

func NewInventoryService(repo domain.VehicleRepository, history domain.ChangeHistoryRepository, cache sharedCache.Cache, log *zap.Logger) *InventoryService {
	return &InventoryService{repo: repo, history: history, cache: cache, log: log, now: time.Now}
}

func (s *InventoryService) WithClock(now func() time.Time) *InventoryService {
	s.now = now
	return s
}

type CreateVehicleInput struct {
	Plate   string
	Model   string
	Year    int
	Mileage int
	Price   float64
	Store   sharedDomain.Store
}

func (s *InventoryService) CreateVehicle(ctx context.Context, in CreateVehicleInput) (*domain.Vehicle, error) {
	v, err := domain.NewVehicle(in.Plate, in.Model, in.Year, in.Mileage, in.Price, in.Store)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, v); err != nil {
		if !errors.Is(err, domain.ErrVehicleAlreadyExists) {
			s.log.Error("Failed to create vehicle", zap.String("plate", v.Plate), zap.Error(err))
		}
		return nil, err
	}
	s.log.Info("🚗 Vehicle created", zap.String("vehicle_id", v.ID), zap.String("store", string(v.Store)))
	return v, nil
}

// GetVehicle obtiene un vehículo (primero intenta desde cache).
func (s *InventoryService) GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error) {
	// 1. Intentar cache
	if s.cache != nil {
		var v domain.Vehicle
		if ok, _ := s.cache.Get(ctx, domain.CacheKeyByID(id), &v); ok {
			return &v, nil
		}
	}

	// 2. Ir al repo con reintentos; "no encontrado" no se reintenta
	var vehicle *domain.Vehicle
	err := sharedUtils.Retry(ctx, 3, 100*time.Millisecond, func() error {
		var errRetry error
		vehicle, errRetry = s.repo.GetByID(ctx, id)
		if errors.Is(errRetry, domain.ErrVehicleNotFound) {
			return sharedUtils.Permanent{Err: errRetry}
		}
		return errRetry
	})
	if err != nil {
		return nil, err
	}

	// 3. Actualizar cache en background sin bloquear la respuesta
	sharedCache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByID(id), vehicle, vehicleCacheTTL, s.log)
	return vehicle, nil
}

func (s *InventoryService) ListVehicles(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]domain.Vehicle, error) {
	return s.repo.ListByCriteria(ctx, criteria, pagination, sort)
}

// UpdateVehicle aplica los cambios y guarda el historial campo a campo.
func (s *InventoryService) UpdateVehicle(ctx context.Context, id string, update domain.VehicleUpdate, userID string) (*domain.Vehicle, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	changes := v.Apply(update, userID, s.now())
	if len(changes) == 0 {
		return v, nil
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	s.afterChange(ctx, v.ID, changes...)
	return v, nil
}

func (s *InventoryService) ChangeStatus(ctx context.Context, id string, status domain.VehicleStatus, userID string) (*domain.Vehicle, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	change, err := v.ChangeStatus(status, userID, s.now())
	if err != nil || change == nil {
		return v, err
	}
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	s.afterChange(ctx, v.ID, *change)
	return v, nil
}

// SetPhotosComplete lo usa la gestión de imágenes.
func (s *InventoryService) SetPhotosComplete(ctx context.Context, id string, complete bool, userID string) error {
	_, err := s.UpdateVehicle(ctx, id, domain.VehicleUpdate{PhotosComplete: &complete}, userID)
	return err
}

// RecordSale registra la venta (vehículo vendido + vendidos + outbox).
func (s *InventoryService) RecordSale(ctx context.Context, id string, price float64, sellerID string) (*domain.Sale, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.Status == domain.StatusSold {
		return nil, domain.ErrVehicleAlreadySold
	}
	previous := v.Status

	sale, err := domain.NewSale(v, price, sellerID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.RecordSale(ctx, v, sale); err != nil {
		if !errors.Is(err, domain.ErrVehicleAlreadySold) {
			s.log.Error("Failed to record sale", zap.String("vehicle_id", id), zap.Error(err))
		}
		return nil, err
	}

	s.afterChange(ctx, v.ID,
		domain.NewVehicleChange(v.ID, "status", string(previous), string(domain.StatusSold), sellerID, sale.SoldAt))
	s.log.Info("💰 Vehicle sold",
		zap.String("vehicle_id", v.ID),
		zap.String("store", string(v.Store)),
		zap.Float64("price", sale.SalePrice))
	return sale, nil
}

func (s *InventoryService) History(ctx context.Context, id string) ([]domain.VehicleChange, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.history.ListByVehicle(ctx, id)
}

// afterChange guarda el historial e invalida la caché del vehículo. Un fallo
// del historial no deshace la actualización ya confirmada.
func (s *InventoryService) afterChange(ctx context.Context, id string, changes ...domain.VehicleChange) {
	if err := s.history.Append(ctx, changes); err != nil {
		s.log.Error("Failed to store vehicle history",
			zap.String("vehicle_id", id),
			zap.Int("changes", len(changes)),
			zap.Error(err))
	}
	sharedCache.AsyncCacheDelete(ctx, s.cache, domain.CacheKeyByID(id), s.log)
}
