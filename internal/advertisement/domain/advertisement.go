package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/autostock/shared/domain"
	sharedEvents "github.com/davicafu/autostock/shared/events"
)

// ---------- Errores de dominio ----------
var (
	ErrAdvertisementNotFound = errors.New("advertisement not found")
	ErrInvalidAdvertisement  = errors.New("invalid advertisement")
)

type Platform string

const (
	PlatformOLX          Platform = "olx"
	PlatformWebmotors    Platform = "webmotors"
	PlatformMercadoLivre Platform = "mercado_livre"
	PlatformICarros      Platform = "icarros"
	PlatformFacebook     Platform = "facebook"
	PlatformInstagram    Platform = "instagram"
	PlatformSite         Platform = "site"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformOLX, PlatformWebmotors, PlatformMercadoLivre, PlatformICarros,
		PlatformFacebook, PlatformInstagram, PlatformSite:
		return true
	}
	return false
}

// Advertisement es un anuncio de uno o más vehículos en una plataforma.
// Invariante: Publicado ⇒ DataPublicacao != nil.
type Advertisement struct {
	ID              string             `json:"id"`
	Platform        Platform           `json:"platform"`
	VehiclePlates   []string           `json:"vehicle_plates"`
	AdvertisedPrice float64            `json:"advertised_price"`
	Store           sharedDomain.Store `json:"store"`
	Publicado       bool               `json:"publicado"`
	DataPublicacao  *time.Time         `json:"data_publicacao,omitempty"`
	PublishedBy     *string            `json:"published_by,omitempty"`
	Description     string             `json:"description"`
	CreatedAt       time.Time          `json:"created_at"`
}

// NewAdvertisement crea un anuncio sin publicar con las matrículas normalizadas.
func NewAdvertisement(platform Platform, plates []string, price float64, store sharedDomain.Store, description string) (*Advertisement, error) {
	ad := &Advertisement{
		ID:              uuid.NewString(),
		Platform:        platform,
		VehiclePlates:   normalizePlates(plates),
		AdvertisedPrice: price,
		Store:           store,
		Description:     description,
		CreatedAt:       time.Now().UTC(),
	}
	if err := ad.Validate(); err != nil {
		return nil, err
	}
	return ad, nil
}

func (a *Advertisement) Validate() error {
	switch {
	case !a.Platform.Valid():
		return fmt.Errorf("%w: unknown platform %q", ErrInvalidAdvertisement, a.Platform)
	case len(a.VehiclePlates) == 0:
		return fmt.Errorf("%w: at least one vehicle plate is required", ErrInvalidAdvertisement)
	case a.AdvertisedPrice <= 0:
		return fmt.Errorf("%w: advertised price must be positive", ErrInvalidAdvertisement)
	case !a.Store.Valid():
		return fmt.Errorf("%w: unknown store %q", ErrInvalidAdvertisement, a.Store)
	case a.Publicado && a.DataPublicacao == nil:
		return fmt.Errorf("%w: published advertisement without publication date", ErrInvalidAdvertisement)
	}
	return nil
}

// AdvertisementPatch son los campos editables; nil deja el valor actual.
type AdvertisementPatch struct {
	Platform        *Platform
	VehiclePlates   []string
	AdvertisedPrice *float64
	Description     *string
}

// Apply aplica el parche y valida el resultado. La publicación no se edita aquí.
func (a *Advertisement) Apply(p AdvertisementPatch) error {
	next := *a
	if p.Platform != nil {
		next.Platform = *p.Platform
	}
	if p.VehiclePlates != nil {
		next.VehiclePlates = normalizePlates(p.VehiclePlates)
	}
	if p.AdvertisedPrice != nil {
		next.AdvertisedPrice = *p.AdvertisedPrice
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*a = next
	return nil
}

// MarkPublished aplica los campos de publicación.
func (a *Advertisement) MarkPublished(userID string, at time.Time) {
	at = at.UTC()
	a.Publicado = true
	a.DataPublicacao = &at
	a.PublishedBy = &userID
}

// PublishedEvent es el contrato de integración de la publicación.
func (a *Advertisement) PublishedEvent() sharedDomain.OutboxEvent {
	payload := sharedEvents.AdvertisementPublished{
		AdvertisementID: a.ID,
		Store:           string(a.Store),
	}
	if a.PublishedBy != nil {
		payload.PublishedBy = *a.PublishedBy
	}
	if a.DataPublicacao != nil {
		payload.PublishedAt = *a.DataPublicacao
	}
	return sharedDomain.NewOutboxEvent("advertisement", a.ID, sharedEvents.AdvertisementPublishedType, payload)
}

func normalizePlates(plates []string) []string {
	normalized := make([]string, 0, len(plates))
	for _, p := range plates {
		if n := sharedDomain.NormalizePlate(p); n != "" {
			normalized = append(normalized, n)
		}
	}
	return normalized
}
