package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	inventoryDomain "github.com/davicafu/autostock/internal/inventory/domain"
	"github.com/davicafu/autostock/internal/media/application"
	"github.com/davicafu/autostock/internal/media/domain"
	permissionDomain "github.com/davicafu/autostock/internal/permission/domain"
	permissionHttp "github.com/davicafu/autostock/internal/permission/infra/inbound/http"
	"github.com/davicafu/autostock/pkg/utils"
)

type MediaHandler struct {
	service *application.MediaService
}

func NewMediaHandler(service *application.MediaService) *MediaHandler {
	return &MediaHandler{service: service}
}

func sendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, inventoryDomain.ErrVehicleNotFound), errors.Is(err, domain.ErrImageNotFound),
		errors.Is(err, permissionDomain.ErrProfileNotFound):
		utils.SendNotFound(c, err.Error())
	case errors.Is(err, domain.ErrInvalidUpload):
		utils.SendBadRequest(c, err.Error())
	default:
		utils.SendInternalServerError(c, err.Error())
	}
}

// readUpload abre el fichero del campo "file" del formulario multipart.
func readUpload(c *gin.Context) (domain.Upload, func(), bool) {
	header, err := c.FormFile("file")
	if err != nil {
		utils.SendBadRequest(c, "missing file field: "+err.Error())
		return domain.Upload{}, nil, false
	}
	file, err := header.Open()
	if err != nil {
		utils.SendBadRequest(c, err.Error())
		return domain.Upload{}, nil, false
	}
	return domain.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, func() { file.Close() }, true
}

// UploadVehicleImage endpoint POST /vehicles/:id/images (multipart, campo "file")
func (h *MediaHandler) UploadVehicleImage(c *gin.Context) {
	upload, closeFile, ok := readUpload(c)
	if !ok {
		return
	}
	defer closeFile()

	img, err := h.service.UploadVehicleImage(c.Request.Context(), c.Param("id"), permissionHttp.UserID(c), upload)
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}

// ListVehicleImages endpoint GET /vehicles/:id/images
func (h *MediaHandler) ListVehicleImages(c *gin.Context) {
	images, err := h.service.ListVehicleImages(c.Request.Context(), c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, images)
}

// DeleteVehicleImage endpoint DELETE /vehicles/:id/images/:imageId
func (h *MediaHandler) DeleteVehicleImage(c *gin.Context) {
	if err := h.service.DeleteImage(c.Request.Context(), c.Param("id"), c.Param("imageId"), permissionHttp.UserID(c)); err != nil {
		sendError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadAvatar endpoint POST /profiles/:id/avatar. Solo el propio usuario o un admin.
func (h *MediaHandler) UploadAvatar(c *gin.Context) {
	target := c.Param("id")
	principal, _ := permissionHttp.PrincipalFrom(c)
	if principal.UserID != target && principal.Role != permissionDomain.RoleAdmin {
		utils.SendForbidden(c, "cannot change another user's avatar")
		return
	}

	upload, closeFile, ok := readUpload(c)
	if !ok {
		return
	}
	defer closeFile()

	url, err := h.service.UploadAvatar(c.Request.Context(), target, upload)
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}
