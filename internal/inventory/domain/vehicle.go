package domain

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/autostock/shared/domain"
	sharedEvents "github.com/davicafu/autostock/shared/events"
)

// ---------- Errores de dominio ----------
var (
	ErrVehicleNotFound      = errors.New("vehicle not found")
	ErrVehicleAlreadyExists = errors.New("vehicle plate already registered in store")
	ErrVehicleAlreadySold   = errors.New("vehicle already sold")
	ErrInvalidVehicle       = errors.New("invalid vehicle")
	ErrInvalidSale          = errors.New("invalid sale")
	ErrSaleRequired         = errors.New("a vehicle is marked as sold only by recording a sale")
)

type VehicleStatus string

const (
	StatusAvailable VehicleStatus = "available"
	StatusReserved  VehicleStatus = "reserved"
	StatusSold      VehicleStatus = "sold"
)

func (s VehicleStatus) Valid() bool {
	return s == StatusAvailable || s == StatusReserved || s == StatusSold
}

// Vehicle es una unidad del inventario de una sede.
type Vehicle struct {
	ID                    string             `json:"id"`
	Plate                 string             `json:"plate"`
	Model                 string             `json:"model"`
	Year                  int                `json:"year"`
	Mileage               int                `json:"mileage"`
	Price                 float64            `json:"price"`
	Store                 sharedDomain.Store `json:"store"`
	Status                VehicleStatus      `json:"status"`
	DocumentationComplete bool               `json:"documentation_complete"`
	PhotosComplete        bool               `json:"photos_complete"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

// NewVehicle crea un vehículo disponible con la matrícula normalizada.
func NewVehicle(plate, model string, year, mileage int, price float64, store sharedDomain.Store) (*Vehicle, error) {
	now := time.Now().UTC()
	v := &Vehicle{
		ID:        uuid.NewString(),
		Plate:     sharedDomain.NormalizePlate(plate),
		Model:     model,
		Year:      year,
		Mileage:   mileage,
		Price:     price,
		Store:     store,
		Status:    StatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Vehicle) Validate() error {
	switch {
	case v.Plate == "":
		return fmt.Errorf("%w: plate is required", ErrInvalidVehicle)
	case v.Model == "":
		return fmt.Errorf("%w: model is required", ErrInvalidVehicle)
	case v.Year < 1900:
		return fmt.Errorf("%w: year %d out of range", ErrInvalidVehicle, v.Year)
	case v.Mileage < 0:
		return fmt.Errorf("%w: mileage cannot be negative", ErrInvalidVehicle)
	case v.Price < 0:
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidVehicle)
	case !v.Store.Valid():
		return fmt.Errorf("%w: unknown store %q", ErrInvalidVehicle, v.Store)
	case !v.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalidVehicle, v.Status)
	}
	return nil
}

// VehicleUpdate lleva solo los campos que cambian (nil = sin cambio).
type VehicleUpdate struct {
	Model                 *string
	Year                  *int
	Mileage               *int
	Price                 *float64
	DocumentationComplete *bool
	PhotosComplete        *bool
}

// Apply aplica los cambios y devuelve el historial campo a campo.
// Un campo con el mismo valor no genera entrada.
func (v *Vehicle) Apply(u VehicleUpdate, changedBy string, at time.Time) []VehicleChange {
	var changes []VehicleChange
	track := func(field, oldValue, newValue string) {
		if oldValue != newValue {
			changes = append(changes, NewVehicleChange(v.ID, field, oldValue, newValue, changedBy, at))
		}
	}

	if u.Model != nil {
		track("model", v.Model, *u.Model)
		v.Model = *u.Model
	}
	if u.Year != nil {
		track("year", strconv.Itoa(v.Year), strconv.Itoa(*u.Year))
		v.Year = *u.Year
	}
	if u.Mileage != nil {
		track("mileage", strconv.Itoa(v.Mileage), strconv.Itoa(*u.Mileage))
		v.Mileage = *u.Mileage
	}
	if u.Price != nil {
		track("price", formatPrice(v.Price), formatPrice(*u.Price))
		v.Price = *u.Price
	}
	if u.DocumentationComplete != nil {
		track("documentation_complete", strconv.FormatBool(v.DocumentationComplete), strconv.FormatBool(*u.DocumentationComplete))
		v.DocumentationComplete = *u.DocumentationComplete
	}
	if u.PhotosComplete != nil {
		track("photos_complete", strconv.FormatBool(v.PhotosComplete), strconv.FormatBool(*u.PhotosComplete))
		v.PhotosComplete = *u.PhotosComplete
	}
	if len(changes) > 0 {
		v.UpdatedAt = at.UTC()
	}
	return changes
}

// ChangeStatus cambia el estado. Un vehículo vendido no vuelve atrás y
// "sold" solo se alcanza con una venta.
func (v *Vehicle) ChangeStatus(status VehicleStatus, changedBy string, at time.Time) (*VehicleChange, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidVehicle, status)
	}
	if status == StatusSold {
		return nil, ErrSaleRequired
	}
	if v.Status == StatusSold {
		return nil, ErrVehicleAlreadySold
	}
	if v.Status == status {
		return nil, nil
	}
	change := NewVehicleChange(v.ID, "status", string(v.Status), string(status), changedBy, at)
	v.Status = status
	v.UpdatedAt = at.UTC()
	return &change, nil
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

// ---------- Venta ----------

// Sale es una fila de vendidos.
type Sale struct {
	ID        string             `json:"id"`
	VehicleID string             `json:"vehicle_id"`
	SalePrice float64            `json:"sale_price"`
	SellerID  string             `json:"seller_id"`
	SoldAt    time.Time          `json:"sold_at"`
	Store     sharedDomain.Store `json:"store"`
}

func NewSale(v *Vehicle, price float64, sellerID string, at time.Time) (*Sale, error) {
	switch {
	case price <= 0:
		return nil, fmt.Errorf("%w: sale price must be positive", ErrInvalidSale)
	case sellerID == "":
		return nil, fmt.Errorf("%w: seller is required", ErrInvalidSale)
	}
	return &Sale{
		ID:        uuid.NewString(),
		VehicleID: v.ID,
		SalePrice: price,
		SellerID:  sellerID,
		SoldAt:    at.UTC(),
		Store:     v.Store,
	}, nil
}

// SoldEvent es el contrato de integración de la venta.
func (s *Sale) SoldEvent() sharedDomain.OutboxEvent {
	return sharedDomain.NewOutboxEvent("vehicle", s.VehicleID, sharedEvents.VehicleSoldType, sharedEvents.VehicleSold{
		VehicleID: s.VehicleID,
		Store:     string(s.Store),
		SellerID:  s.SellerID,
		Price:     s.SalePrice,
		SoldAt:    s.SoldAt,
	})
}

// ---------- Historial ----------

// VehicleChange es una entrada de vehicle_change_history.
type VehicleChange struct {
	ID        string    `json:"id"`
	VehicleID string    `json:"vehicle_id"`
	Field     string    `json:"field"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

func NewVehicleChange(vehicleID, field, oldValue, newValue, changedBy string, at time.Time) VehicleChange {
	return VehicleChange{
		ID:        uuid.NewString(),
		VehicleID: vehicleID,
		Field:     field,
		OldValue:  oldValue,
		NewValue:  newValue,
		ChangedBy: changedBy,
		ChangedAt: at.UTC(),
	}
}

func CacheKeyByID(id string) string {
	return fmt.Sprintf("vehicle:id:%s", id)
}
