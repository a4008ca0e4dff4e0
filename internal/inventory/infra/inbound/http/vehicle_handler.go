package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/autostock/internal/inventory/application"
	"github.com/davicafu/autostock/internal/inventory/domain"
	permissionHttp "github.com/davicafu/autostock/internal/permission/infra/inbound/http"
	"github.com/davicafu/autostock/pkg/utils"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
	sharedQuery "github.com/davicafu/autostock/shared/platform/query"
)

type VehicleHandler struct {
	service *application.InventoryService
}

func NewVehicleHandler(service *application.InventoryService) *VehicleHandler {
	return &VehicleHandler{service: service}
}

// sendError traduce los errores de dominio a códigos HTTP.
func sendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrVehicleNotFound):
		utils.SendNotFound(c, err.Error())
	case errors.Is(err, domain.ErrVehicleAlreadyExists), errors.Is(err, domain.ErrVehicleAlreadySold):
		utils.SendConflict(c, err.Error())
	case errors.Is(err, domain.ErrInvalidVehicle), errors.Is(err, domain.ErrInvalidSale), errors.Is(err, domain.ErrSaleRequired):
		utils.SendBadRequest(c, err.Error())
	default:
		utils.SendInternalServerError(c, err.Error())
	}
}

// CreateVehicle endpoint POST /vehicles
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var req struct {
		Plate   string  `json:"plate" binding:"required"`
		Model   string  `json:"model" binding:"required"`
		Year    int     `json:"year" binding:"required"`
		Mileage int     `json:"mileage"`
		Price   float64 `json:"price"`
		Store   string  `json:"store" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	v, err := h.service.CreateVehicle(c.Request.Context(), application.CreateVehicleInput{
		Plate: req.Plate, Model: req.Model, Year: req.Year, Mileage: req.Mileage,
		Price: req.Price, Store: sharedDomain.Store(req.Store),
	})
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// GetVehicle endpoint GET /vehicles/:id
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	v, err := h.service.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// ListVehicles endpoint GET /vehicles con filtros, paginación y orden
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
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
	if status := c.Query("status"); status != "" {
		criterias = append(criterias, domain.StatusCriteria{Status: domain.VehicleStatus(status)})
	}
	if plate := c.Query("plate"); plate != "" {
		criterias = append(criterias, domain.PlateCriteria{Plate: plate})
	}
	if model := c.Query("model"); model != "" {
		criterias = append(criterias, domain.ModelCriteria{Model: model})
	}
	if photos := c.Query("photos_complete"); photos != "" {
		criterias = append(criterias, domain.PhotosCompleteCriteria{Complete: photos == "true"})
	}

	sortParam := sharedQuery.Sort{Field: "created_at", Desc: true}
	if sortField := c.Query("sort_field"); sortField != "" {
		sortParam.Field = sortField
		sortParam.Desc = c.Query("sort_desc") == "true"
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	pagination := sharedQuery.OffsetPagination{Limit: limit, Offset: offset}

	vehicles, err := h.service.ListVehicles(c.Request.Context(), sharedDomain.And(criterias...), pagination, sortParam)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// UpdateVehicle endpoint PATCH /vehicles/:id
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	var req struct {
		Model                 *string  `json:"model"`
		Year                  *int     `json:"year"`
		Mileage               *int     `json:"mileage"`
		Price                 *float64 `json:"price"`
		DocumentationComplete *bool    `json:"documentation_complete"`
		PhotosComplete        *bool    `json:"photos_complete"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	v, err := h.service.UpdateVehicle(c.Request.Context(), c.Param("id"), domain.VehicleUpdate{
		Model: req.Model, Year: req.Year, Mileage: req.Mileage, Price: req.Price,
		DocumentationComplete: req.DocumentationComplete, PhotosComplete: req.PhotosComplete,
	}, permissionHttp.UserID(c))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// ChangeStatus endpoint PUT /vehicles/:id/status
func (h *VehicleHandler) ChangeStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	v, err := h.service.ChangeStatus(c.Request.Context(), c.Param("id"), domain.VehicleStatus(req.Status), permissionHttp.UserID(c))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// RecordSale endpoint POST /vehicles/:id/sale. El vendedor es el usuario autenticado.
func (h *VehicleHandler) RecordSale(c *gin.Context) {
	var req struct {
		SalePrice float64 `json:"sale_price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	sale, err := h.service.RecordSale(c.Request.Context(), c.Param("id"), req.SalePrice, permissionHttp.UserID(c))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

// History endpoint GET /vehicles/:id/history
func (h *VehicleHandler) History(c *gin.Context) {
	changes, err := h.service.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, changes)
}
