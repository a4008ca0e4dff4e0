package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/davicafu/autostock/internal/maintenance/application"
	"github.com/davicafu/autostock/internal/maintenance/domain"
	"github.com/davicafu/autostock/internal/maintenance/infra/outbound/procedures"
	permissionApp "github.com/davicafu/autostock/internal/permission/application"
	permissionDomain "github.com/davicafu/autostock/internal/permission/domain"
	permissionHttp "github.com/davicafu/autostock/internal/permission/infra/inbound/http"
	"github.com/davicafu/autostock/shared/platform/cache"
	"github.com/davicafu/autostock/tests/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(procs domain.Procedures) (*gin.Engine, *application.MaintenanceService) {
	profiles := mocks.NewInMemoryProfileRepo()
	lvl := 4
	profiles.Profiles["manager-1"] = permissionDomain.UserProfile{ID: "manager-1", Name: "Marta", Role: permissionDomain.RoleManager, Level: &lvl}
	auth := permissionHttp.NewAuthenticator(permissionHttp.AuthConfig{AllowHeaders: true},
		permissionApp.NewProfileService(profiles, nil, nil, zap.NewNop()), zap.NewNop())

	queries := cache.NewQueryCache(mocks.NewDummyCache(), time.Minute, zap.NewNop())
	service := application.NewMaintenanceService(procs, queries, &mocks.RecordingNotifier{}, zap.NewNop())

	r := gin.New()
	RegisterMaintenanceRoutes(r, NewMaintenanceHandler(service), auth)
	return r, service
}

func call(r http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-User-ID", "manager-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestTrigger_OK(t *testing.T) {
	procs := new(mocks.MockProcedures)
	procs.On("Call", mock.Anything, "detect_advertisement_inconsistencies").Return(json.RawMessage(`{"found":2}`), nil).Once()
	r, _ := newRouter(procs)

	rec := call(r, http.MethodPost, "/system/maintenance/detect_inconsistencies")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"action":"detect_advertisement_inconsistencies","result":{"found":2}}`, rec.Body.String())
}

func TestTrigger_UnknownAction(t *testing.T) {
	r, _ := newRouter(new(mocks.MockProcedures))

	rec := call(r, http.MethodPost, "/system/maintenance/vacuum")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrigger_UnsupportedOnSQLite(t *testing.T) {
	r, _ := newRouter(procedures.Unsupported{})

	rec := call(r, http.MethodPost, "/system/maintenance/recalculate")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	rec = call(r, http.MethodGet, "/system/state")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestTrigger_ConflictWhilePending(t *testing.T) {
	procs := new(mocks.MockProcedures)
	started := make(chan struct{})
	release := make(chan struct{})
	procs.On("Call", mock.Anything, "recalculate_all_pendencies").
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(json.RawMessage(`null`), nil).Once()
	r, service := newRouter(procs)

	done := make(chan struct{})
	go func() {
		call(r, http.MethodPost, "/system/maintenance/recalculate")
		close(done)
	}()
	<-started
	assert.True(t, service.IsPending())

	rec := call(r, http.MethodPost, "/system/maintenance/cleanup_obsolete")
	assert.Equal(t, http.StatusConflict, rec.Code)

	status := call(r, http.MethodGet, "/system/maintenance")
	assert.Contains(t, status.Body.String(), `"pending":true`)

	close(release)
	<-done
	procs.AssertExpectations(t)
}
