package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/autostock/internal/config"
	notificationDomain "github.com/davicafu/autostock/internal/notification/domain"
	permissionDomain "github.com/davicafu/autostock/internal/permission/domain"
	productivityDomain "github.com/davicafu/autostock/internal/productivity/domain"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		DBDriver:               "sqlite",
		SQLitePath:             ":memory:",
		CacheTTL:               time.Minute,
		OutboxPeriod:           20 * time.Millisecond,
		OutboxLimit:            10,
		AuthAllowHeaders:       true,
		PendingStaleTime:       time.Minute,
		PendingRefreshInterval: time.Hour,
		MediaDir:               t.TempDir(),
	}
}

func newContainer(t *testing.T) *Container {
	t.Helper()
	c, err := Build(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func seedProfile(t *testing.T, c *Container, id string, role permissionDomain.Role, level int) {
	t.Helper()
	store := string(sharedDomain.StoreMatriz)
	require.NoError(t, c.Profiles.SaveProfile(context.Background(), &permissionDomain.UserProfile{
		ID: id, Name: id, Role: role, Level: &level, Store: &store,
	}))
}

func do(r http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouter_HealthAndPermissions(t *testing.T) {
	c := newContainer(t)
	r := c.Router()

	rec := do(r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodGet, "/permissions/check?area=insights&role=manager&level=3", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var decision permissionDomain.Decision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
	assert.True(t, decision.HasAccess)

	// sin identidad no hay acceso a rutas protegidas
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/pending/matriz/tasks", "", "").Code)
}

func TestSaleFlowsIntoProductivity(t *testing.T) {
	c := newContainer(t)
	seedProfile(t, c, "seller-1", permissionDomain.RoleSalesperson, 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)

	r := c.Router()
	rec := do(r, http.MethodPost, "/vehicles", "seller-1",
		`{"plate":"abc-1d23","model":"Onix","year":2021,"mileage":30000,"price":70000,"store":"matriz"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var vehicle struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vehicle))

	rec = do(r, http.MethodPost, "/vehicles/"+vehicle.ID+"/sale", "seller-1", `{"sale_price":68500}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// outbox → bus en memoria → consumidor → repositorio de productividad
	today := productivityDomain.Day(time.Now())
	assert.Eventually(t, func() bool {
		users, err := c.Productivity.ByUser(ctx, today, today.AddDate(0, 0, 1), sharedDomain.StoreAll)
		return err == nil && len(users) == 1 && users[0].VehiclesSold == 1
	}, 3*time.Second, 20*time.Millisecond)
}

func TestNotificationsAreScopedToTheUser(t *testing.T) {
	c := newContainer(t)
	seedProfile(t, c, "ana", permissionDomain.RoleConsultant, 1)
	seedProfile(t, c, "bruno", permissionDomain.RoleConsultant, 1)
	r := c.Router()

	c.Notifier.Notify(context.Background(), notificationDomain.New("ana", notificationDomain.SeverityWarning, "Revisar anuncio", "ad-7"))

	rec := do(r, http.MethodGet, "/notifications?unread=true", "ana", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []notificationDomain.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/notifications/"+list[0].ID+"/read", "bruno", "").Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/notifications/"+list[0].ID+"/read", "ana", "").Code)

	rec = do(r, http.MethodGet, "/notifications?unread=true", "ana", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list)
}
