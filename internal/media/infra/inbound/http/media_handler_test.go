package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	infraDB "github.com/davicafu/autostock/internal/infra/db"
	inventoryApp "github.com/davicafu/autostock/internal/inventory/application"
	inventoryDB "github.com/davicafu/autostock/internal/inventory/infra/outbound/db"
	"github.com/davicafu/autostock/internal/media/application"
	"github.com/davicafu/autostock/internal/media/domain"
	mediaDB "github.com/davicafu/autostock/internal/media/infra/outbound/db"
	"github.com/davicafu/autostock/internal/media/infra/outbound/storage/filesystem"
	permissionApp "github.com/davicafu/autostock/internal/permission/application"
	permissionDomain "github.com/davicafu/autostock/internal/permission/domain"
	permissionHttp "github.com/davicafu/autostock/internal/permission/infra/inbound/http"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
	"github.com/davicafu/autostock/tests/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	ctx := context.Background()
	conn, err := infraDB.OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	profiles := mocks.NewInMemoryProfileRepo()
	lvl1, lvl5 := 1, 5
	profiles.Profiles["consultant-1"] = permissionDomain.UserProfile{ID: "consultant-1", Name: "Caio", Role: permissionDomain.RoleConsultant, Level: &lvl1}
	profiles.Profiles["consultant-2"] = permissionDomain.UserProfile{ID: "consultant-2", Name: "Bia", Role: permissionDomain.RoleConsultant, Level: &lvl1}
	profiles.Profiles["admin-1"] = permissionDomain.UserProfile{ID: "admin-1", Name: "Ada", Role: permissionDomain.RoleAdmin, Level: &lvl5}
	profileService := permissionApp.NewProfileService(profiles, nil, nil, zap.NewNop())
	auth := permissionHttp.NewAuthenticator(permissionHttp.AuthConfig{AllowHeaders: true}, profileService, zap.NewNop())

	inventory := inventoryApp.NewInventoryService(
		inventoryDB.NewVehicleRepoSQL(conn), inventoryDB.NewHistoryRepoSQL(conn), nil, zap.NewNop())
	v, err := inventory.CreateVehicle(ctx, inventoryApp.CreateVehicleInput{
		Plate: "HTT0001", Model: "Argo", Year: 2022, Price: 70000, Store: sharedDomain.StoreFilial,
	})
	require.NoError(t, err)

	storage, err := filesystem.NewObjectStorage(t.TempDir(), "/media")
	require.NoError(t, err)
	service := application.NewMediaService(storage, mediaDB.NewImageRepoSQL(conn), inventory, profileService, zap.NewNop())

	r := gin.New()
	RegisterMediaRoutes(r, NewMediaHandler(service), auth)
	return r, v.ID
}

func multipartRequest(t *testing.T, path, user, contentType string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="photo.jpg"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-User-ID", user)
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestUploadListDeleteVehicleImage(t *testing.T) {
	r, vehicleID := newRouter(t)
	path := fmt.Sprintf("/vehicles/%s/images", vehicleID)

	rec := serve(r, multipartRequest(t, path, "consultant-1", "image/jpeg", []byte("jpeg")))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var img domain.VehicleImage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &img))
	assert.Equal(t, vehicleID, img.VehicleID)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-User-ID", "consultant-1")
	rec = serve(r, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var images []domain.VehicleImage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &images))
	assert.Len(t, images, 1)

	req = httptest.NewRequest(http.MethodDelete, path+"/"+img.ID, nil)
	req.Header.Set("X-User-ID", "consultant-1")
	assert.Equal(t, http.StatusNoContent, serve(r, req).Code)
}

func TestUploadVehicleImage_Errors(t *testing.T) {
	r, vehicleID := newRouter(t)

	rec := serve(r, multipartRequest(t, "/vehicles/"+vehicleID+"/images", "consultant-1", "application/pdf", []byte("pdf")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(r, multipartRequest(t, "/vehicles/ghost/images", "consultant-1", "image/jpeg", []byte("jpeg")))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/vehicles/"+vehicleID+"/images", nil)
	req.Header.Set("X-User-ID", "consultant-1")
	assert.Equal(t, http.StatusBadRequest, serve(r, req).Code)
}

func TestUploadAvatar_OnlySelfOrAdmin(t *testing.T) {
	r, _ := newRouter(t)

	rec := serve(r, multipartRequest(t, "/profiles/consultant-1/avatar", "consultant-2", "image/png", []byte("png")))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(r, multipartRequest(t, "/profiles/consultant-1/avatar", "consultant-1", "image/png", []byte("png")))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["avatar_url"], "/media/avatars/consultant-1/")

	rec = serve(r, multipartRequest(t, "/profiles/consultant-2/avatar", "admin-1", "image/png", []byte("png")))
	assert.Equal(t, http.StatusOK, rec.Code)
}
