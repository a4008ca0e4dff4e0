package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/autostock/internal/advertisement/application"
	"github.com/davicafu/autostock/internal/advertisement/domain"
	"github.com/davicafu/autostock/pkg/utils"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
	sharedQuery "github.com/davicafu/autostock/shared/platform/query"
)

// AdvertisementHandler expone el CRUD de anuncios.
// La publicación va por /workflow para pasar por el coordinador.
type AdvertisementHandler struct {
	service *application.AdvertisementService
}

func NewAdvertisementHandler(service *application.AdvertisementService) *AdvertisementHandler {
	return &AdvertisementHandler{service: service}
}

// CreateAdvertisement endpoint POST /advertisements
func (h *AdvertisementHandler) CreateAdvertisement(c *gin.Context) {
	var req struct {
		Platform        string   `json:"platform" binding:"required"`
		VehiclePlates   []string `json:"vehicle_plates" binding:"required"`
		AdvertisedPrice float64  `json:"advertised_price" binding:"required"`
		Store           string   `json:"store" binding:"required"`
		Description     string   `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	ad, err := h.service.CreateAdvertisement(c.Request.Context(), application.CreateAdvertisementInput{
		Platform:        domain.Platform(req.Platform),
		VehiclePlates:   req.VehiclePlates,
		AdvertisedPrice: req.AdvertisedPrice,
		Store:           sharedDomain.Store(req.Store),
		Description:     req.Description,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAdvertisement) {
			utils.SendBadRequest(c, err.Error())
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusCreated, ad)
}

// GetAdvertisement endpoint GET /advertisements/:id
func (h *AdvertisementHandler) GetAdvertisement(c *gin.Context) {
	ad, err := h.service.GetAdvertisement(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrAdvertisementNotFound) {
			utils.SendNotFound(c, "advertisement not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, ad)
}

// UpdateAdvertisement endpoint PATCH /advertisements/:id
func (h *AdvertisementHandler) UpdateAdvertisement(c *gin.Context) {
	var req struct {
		Platform        *string  `json:"platform"`
		VehiclePlates   []string `json:"vehicle_plates"`
		AdvertisedPrice *float64 `json:"advertised_price"`
		Description     *string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	patch := domain.AdvertisementPatch{
		VehiclePlates:   req.VehiclePlates,
		AdvertisedPrice: req.AdvertisedPrice,
		Description:     req.Description,
	}
	if req.Platform != nil {
		platform := domain.Platform(*req.Platform)
		patch.Platform = &platform
	}

	ad, err := h.service.UpdateAdvertisement(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAdvertisementNotFound):
			utils.SendNotFound(c, "advertisement not found")
		case errors.Is(err, domain.ErrInvalidAdvertisement):
			utils.SendBadRequest(c, err.Error())
		default:
			utils.SendInternalServerError(c, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, ad)
}

// DeleteAdvertisement endpoint DELETE /advertisements/:id
func (h *AdvertisementHandler) DeleteAdvertisement(c *gin.Context) {
	if err := h.service.DeleteAdvertisement(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrAdvertisementNotFound) {
			utils.SendNotFound(c, "advertisement not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// ListAdvertisements endpoint GET /advertisements con filtros, paginación y orden
func (h *AdvertisementHandler) ListAdvertisements(c *gin.Context) {
	var criterias []sharedDomain.Criteria

	// --- Filtros desde query params ---
	if raw := c.Query("store"); raw != "" {
		store, err := sharedDomain.ParseStore(raw)
		if err != nil {
			utils.SendBadRequest(c, err.Error())
			return
		}
		criterias = append(criterias, sharedDomain.StoreCriteria{Store: store})
	}
	if platform := c.Query("platform"); platform != "" {
		criterias = append(criterias, domain.PlatformCriteria{Platform: domain.Platform(platform)})
	}
	if published := c.Query("publicado"); published != "" {
		criterias = append(criterias, domain.PublishedCriteria{Published: published == "true"})
	}
	if plate := c.Query("plate"); plate != "" {
		criterias = append(criterias, domain.PlateCriteria{Plate: plate})
	}

	sortParam := sharedQuery.Sort{Field: "created_at", Desc: true}
	if sortField := c.Query("sort_field"); sortField != "" {
		sortParam.Field = sortField
		sortParam.Desc = c.Query("sort_desc") == "true"
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	pagination := sharedQuery.OffsetPagination{Limit: limit, Offset: offset}

	ads, err := h.service.ListAdvertisements(c.Request.Context(), sharedDomain.And(criterias...), pagination, sortParam)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, ads)
}
