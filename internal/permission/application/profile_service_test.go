package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/autostock/internal/permission/domain"
	"github.com/davicafu/autostock/tests/mocks"
)

func level(v int) *int { return &v }

func newService() (*ProfileService, *mocks.InMemoryProfileRepo) {
	repo := mocks.NewInMemoryProfileRepo()
	return NewProfileService(repo, mocks.NewDummyCache(), nil, zap.NewNop()), repo
}

func TestGetProfile_NotFoundIsNotRetried(t *testing.T) {
	service, repo := newService()

	_, err := service.GetProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	assert.Equal(t, 1, repo.GetCalls())
}

func TestGetProfile_CacheHit(t *testing.T) {
	cache := mocks.NewDummyCache()
	profile := &domain.UserProfile{ID: "u-1", Name: "Ana", Role: domain.RoleManager, Level: level(4)}
	require.NoError(t, cache.Set(context.Background(), domain.CacheKeyByID("u-1"), profile, 60))

	repo := mocks.NewInMemoryProfileRepo()
	service := NewProfileService(repo, cache, nil, zap.NewNop())

	got, err := service.GetProfile(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.Zero(t, repo.GetCalls(), "repo should not be hit on cache hit")
}

func TestSaveProfile_Validates(t *testing.T) {
	service, _ := newService()

	err := service.SaveProfile(context.Background(), &domain.UserProfile{ID: "u-1", Name: "Ana", Role: "mechanic"})
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)
}

func TestResolvePrincipal_FillsFromProfile(t *testing.T) {
	service, _ := newService()
	store := "matriz"
	require.NoError(t, service.SaveProfile(context.Background(), &domain.UserProfile{
		ID: "u-1", Name: "Ana", Role: domain.RoleManager, Level: level(4), Store: &store,
	}))

	p, err := service.ResolvePrincipal(context.Background(), domain.Principal{UserID: "u-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, p.Role)
	assert.Equal(t, 4, *p.Level)
	assert.Equal(t, "matriz", *p.Store)
}

func TestResolvePrincipal_TokenClaimsWin(t *testing.T) {
	service, repo := newService()

	p, err := service.ResolvePrincipal(context.Background(), domain.Principal{UserID: "u-1", Role: domain.RoleAdmin, Level: level(5)})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, p.Role)
	assert.Zero(t, repo.GetCalls())
}

func TestResolvePrincipal_UnknownUserStaysWithoutRole(t *testing.T) {
	service, _ := newService()

	p, err := service.ResolvePrincipal(context.Background(), domain.Principal{UserID: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, p.Role)
	assert.False(t, service.Check(domain.AreaDashboard, p.Role, p.Level).HasAccess)
}
