package application

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	adDomain "github.com/davicafu/autostock/internal/advertisement/domain"
	"github.com/davicafu/autostock/internal/pending/domain"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
	"github.com/davicafu/autostock/shared/platform/cache"
	sharedQuery "github.com/davicafu/autostock/shared/platform/query"
	"github.com/davicafu/autostock/tests/mocks"
)

// ---------------- Fakes ----------------

type fakeSource[T any] struct {
	mu    sync.Mutex
	items []T
	err   error
	calls int
}

func (f *fakeSource[T]) list() ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]T(nil), f.items...), nil
}

func (f *fakeSource[T]) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeTasks struct{ fakeSource[domain.PendingTask] }

func (f *fakeTasks) ListByCriteria(ctx context.Context, _ sharedDomain.Criteria, _ sharedQuery.Pagination, _ sharedQuery.Sort) ([]domain.PendingTask, error) {
	return f.list()
}

type fakeInsights struct{ fakeSource[domain.Insight] }

func (f *fakeInsights) ListByCriteria(ctx context.Context, _ sharedDomain.Criteria, _ sharedQuery.Pagination, _ sharedQuery.Sort) ([]domain.Insight, error) {
	return f.list()
}

func (f *fakeInsights) Resolve(ctx context.Context, id, userID string, at time.Time) (*domain.Insight, error) {
	return nil, errors.New("not used")
}

type fakeAds struct{ fakeSource[adDomain.Advertisement] }

func (f *fakeAds) ListByCriteria(ctx context.Context, _ sharedDomain.Criteria, _ sharedQuery.Pagination, _ sharedQuery.Sort) ([]adDomain.Advertisement, error) {
	return f.list()
}

// ---------------- Fixture ----------------

var fixedNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

type fixture struct {
	tasks    *fakeTasks
	insights *fakeInsights
	ads      *fakeAds
	store    *mocks.DummyCache
	clock    time.Time
	agg      *Aggregator
}

func newFixture() *fixture {
	matriz := sharedDomain.StoreMatriz
	completed := at("2024-05-07T09:00:00Z")

	f := &fixture{
		tasks: &fakeTasks{fakeSource[domain.PendingTask]{items: []domain.PendingTask{
			{ID: "t1", Kind: domain.KindMissingAdvertisement, Store: &matriz, Status: domain.TaskPending, CreatedAt: at("2024-05-14T09:00:00Z")},
			{ID: "t2", Kind: domain.KindMissingPhotos, Store: &matriz, Status: domain.TaskCompleted, CreatedAt: at("2024-05-06T09:00:00Z"), CompletedAt: &completed},
		}}},
		insights: &fakeInsights{fakeSource[domain.Insight]{items: []domain.Insight{
			{ID: "i1", InsightType: domain.InsightPriceMismatch, Store: &matriz, CreatedAt: at("2024-05-08T10:00:00Z")},
		}}},
		ads: &fakeAds{fakeSource[adDomain.Advertisement]{items: []adDomain.Advertisement{
			{ID: "a1", Platform: adDomain.PlatformOLX, VehiclePlates: []string{"ABC1234"}, Store: matriz, CreatedAt: at("2024-05-13T08:00:00Z")},
		}}},
		store: mocks.NewDummyCache(),
		clock: fixedNow,
	}
	queries := cache.NewQueryCache(f.store, time.Hour, zap.NewNop()).WithClock(func() time.Time { return f.clock })
	f.agg = NewAggregator(f.tasks, f.insights, f.ads, queries, 0, zap.NewNop()).WithClock(func() time.Time { return fixedNow })
	return f
}

// ---------------- Tests ----------------

func TestGetPendingAnalytics_Golden(t *testing.T) {
	f := newFixture()

	analytics, err := f.agg.GetPendingAnalytics(context.Background(), sharedDomain.StoreMatriz)
	require.NoError(t, err)

	out, err := json.MarshalIndent(analytics, "", "  ")
	require.NoError(t, err)
	g := goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "pending_analytics_matriz", out)
}

func TestGetSystemHealth_Golden(t *testing.T) {
	f := newFixture()

	health, err := f.agg.GetSystemHealth(context.Background())
	require.NoError(t, err)

	out, err := json.MarshalIndent(health, "", "  ")
	require.NoError(t, err)
	g := goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "system_health", out)
}

func TestGetPendingAnalytics_ServedFromCacheWhileFresh(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.agg.GetPendingAnalytics(ctx, sharedDomain.StoreMatriz)
	require.NoError(t, err)
	f.clock = f.clock.Add(time.Minute)
	_, err = f.agg.GetPendingAnalytics(ctx, sharedDomain.StoreMatriz)
	require.NoError(t, err)
	assert.Equal(t, 1, f.tasks.Calls(), "fresh for two minutes")

	f.clock = f.clock.Add(2 * time.Minute)
	_, err = f.agg.GetPendingAnalytics(ctx, sharedDomain.StoreMatriz)
	require.NoError(t, err)
	assert.Equal(t, 2, f.tasks.Calls())
}

func TestGetPendingAnalytics_AnyReadFailureAborts(t *testing.T) {
	f := newFixture()
	f.ads.err = errors.New("advertisements unavailable")

	_, err := f.agg.GetPendingAnalytics(context.Background(), sharedDomain.StoreMatriz)
	assert.EqualError(t, err, "advertisements unavailable")
	assert.False(t, f.store.Has(domain.PendingAnalyticsKey(sharedDomain.StoreMatriz).String()), "no partial analytics cached")
}

func TestListPendingTasks_CachedPerStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	tasks, err := f.agg.ListPendingTasks(ctx, sharedDomain.StoreMatriz)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	_, err = f.agg.ListPendingTasks(ctx, sharedDomain.StoreFilial)
	require.NoError(t, err)
	assert.Equal(t, 2, f.tasks.Calls(), "each store has its own key")

	assert.True(t, f.store.Has("query:pending-tasks:matriz"))
	assert.True(t, f.store.Has("query:pending-tasks:filial"))
}

func TestRefresh_BypassesStaleTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.agg.ListUnpublishedAdvertisements(ctx, sharedDomain.StoreMatriz)
	require.NoError(t, err)
	require.NoError(t, f.agg.Refresh(ctx, sharedDomain.StoreMatriz))

	// lista + snapshot de analíticas + refresco de la lista
	assert.Equal(t, 3, f.ads.Calls())
}

// ---------------- Poller ----------------

type fakeRefresher struct {
	mu        sync.Mutex
	refreshed []sharedDomain.Store
	failFor   sharedDomain.Store
	health    int
}

func (r *fakeRefresher) Refresh(ctx context.Context, store sharedDomain.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if store == r.failFor {
		return errors.New("boom")
	}
	r.refreshed = append(r.refreshed, store)
	return nil
}

func (r *fakeRefresher) RefreshHealth(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.health++
	return nil
}

func TestPoller_RefreshAllContinuesAfterFailure(t *testing.T) {
	r := &fakeRefresher{failFor: sharedDomain.StoreMatriz}
	p := NewPoller(r, sharedDomain.Stores(), time.Minute, zap.NewNop())

	assert.Equal(t, 1, p.RefreshAll(context.Background()))
	assert.Equal(t, []sharedDomain.Store{sharedDomain.StoreFilial}, r.refreshed)
	assert.Equal(t, 1, r.health)
}

func TestPoller_StopsOnContextCancel(t *testing.T) {
	r := &fakeRefresher{}
	p := NewPoller(r, sharedDomain.Stores(), 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.health > 0
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}
