package application

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	adDomain "github.com/davicafu/autostock/internal/advertisement/domain"
	"github.com/davicafu/autostock/internal/pending/domain"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
	"github.com/davicafu/autostock/shared/platform/cache"
	sharedQuery "github.com/davicafu/autostock/shared/platform/query"
)

// DefaultStaleTime es cuánto se considera fresca una lectura cacheada.
const DefaultStaleTime = 2 * time.Minute

// AdvertisementLister es lo que el agregador necesita del repositorio de anuncios.
type AdvertisementLister interface {
	ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]adDomain.Advertisement, error)
}

// Aggregator expone las lecturas de pendencias por tienda y las analíticas
// derivadas, servidas desde la caché de consultas mientras estén frescas.
type Aggregator struct {
	tasks     domain.TaskRepository
	insights  domain.InsightRepository
	ads       AdvertisementLister
	queries   *cache.QueryCache
	staleTime time.Duration
	now       func() time.Time
	log       *zap.Logger
}

func NewAggregator(
	tasks domain.TaskRepository,
	insights domain.InsightRepository,
	ads AdvertisementLister,
	queries *cache.QueryCache,
	staleTime time.Duration,
	log *zap.Logger,
) *Aggregator {
	if staleTime <= 0 {
		staleTime = DefaultStaleTime
	}
	return &Aggregator{
		tasks:     tasks,
		insights:  insights,
		ads:       ads,
		queries:   queries,
		staleTime: staleTime,
		now:       time.Now,
		log:       log,
	}
}

// WithClock fija el reloj usado para las analíticas (tests).
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

var newestFirst = sharedQuery.Sort{Field: "created_at", Desc: true}

// ---------------- Listas ----------------

func (a *Aggregator) ListPendingTasks(ctx context.Context, store sharedDomain.Store) ([]domain.PendingTask, error) {
	return a.pendingTasks(ctx, store, a.staleTime)
}

func (a *Aggregator) ListPendingInsights(ctx context.Context, store sharedDomain.Store) ([]domain.Insight, error) {
	return a.pendingInsights(ctx, store, a.staleTime)
}

func (a *Aggregator) ListUnpublishedAdvertisements(ctx context.Context, store sharedDomain.Store) ([]adDomain.Advertisement, error) {
	return a.unpublishedAds(ctx, store, a.staleTime)
}

func (a *Aggregator) pendingTasks(ctx context.Context, store sharedDomain.Store, staleTime time.Duration) ([]domain.PendingTask, error) {
	return cache.Fetch(ctx, a.queries, domain.PendingTasksKey(store), staleTime, func(ctx context.Context) ([]domain.PendingTask, error) {
		return a.tasks.ListByCriteria(ctx, sharedDomain.And(
			sharedDomain.StoreCriteria{Store: store},
			domain.TaskStatusCriteria{Status: domain.TaskPending},
		), sharedQuery.NoPagination, newestFirst)
	})
}

func (a *Aggregator) pendingInsights(ctx context.Context, store sharedDomain.Store, staleTime time.Duration) ([]domain.Insight, error) {
	return cache.Fetch(ctx, a.queries, domain.PendingInsightsKey(store), staleTime, func(ctx context.Context) ([]domain.Insight, error) {
		return a.insights.ListByCriteria(ctx, sharedDomain.And(
			sharedDomain.StoreCriteria{Store: store},
			domain.InsightResolvedCriteria{Resolved: false},
		), sharedQuery.NoPagination, newestFirst)
	})
}

func (a *Aggregator) unpublishedAds(ctx context.Context, store sharedDomain.Store, staleTime time.Duration) ([]adDomain.Advertisement, error) {
	return cache.Fetch(ctx, a.queries, domain.UnpublishedAdsKey(store), staleTime, func(ctx context.Context) ([]adDomain.Advertisement, error) {
		return a.ads.ListByCriteria(ctx, sharedDomain.And(
			sharedDomain.StoreCriteria{Store: store},
			adDomain.PublishedCriteria{Published: false},
		), sharedQuery.NoPagination, newestFirst)
	})
}

// ---------------- Analíticas ----------------

// GetPendingAnalytics lanza las tres lecturas en paralelo; si cualquiera
// falla no se devuelven analíticas parciales.
func (a *Aggregator) GetPendingAnalytics(ctx context.Context, store sharedDomain.Store) (domain.PendingAnalytics, error) {
	return a.analytics(ctx, store, a.staleTime)
}

func (a *Aggregator) analytics(ctx context.Context, store sharedDomain.Store, staleTime time.Duration) (domain.PendingAnalytics, error) {
	return cache.Fetch(ctx, a.queries, domain.PendingAnalyticsKey(store), staleTime, func(ctx context.Context) (domain.PendingAnalytics, error) {
		snap, err := a.snapshot(ctx, store)
		if err != nil {
			a.log.Error("Failed to load pending snapshot", zap.String("store", string(store)), zap.Error(err))
			return domain.PendingAnalytics{}, err
		}
		return domain.ComputeAnalytics(store, snap, a.now()), nil
	})
}

func (a *Aggregator) snapshot(ctx context.Context, store sharedDomain.Store) (domain.Snapshot, error) {
	var snap domain.Snapshot
	byStore := sharedDomain.StoreCriteria{Store: store}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Tasks, err = a.tasks.ListByCriteria(gctx, byStore, sharedQuery.NoPagination, newestFirst)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Insights, err = a.insights.ListByCriteria(gctx, byStore, sharedQuery.NoPagination, newestFirst)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Advertisements, err = a.ads.ListByCriteria(gctx, byStore, sharedQuery.NoPagination, newestFirst)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

// ---------------- Salud del sistema ----------------

// GetSystemHealth deriva las métricas de todas las tiendas.
func (a *Aggregator) GetSystemHealth(ctx context.Context) (domain.HealthMetrics, error) {
	return a.health(ctx, a.staleTime)
}

func (a *Aggregator) health(ctx context.Context, staleTime time.Duration) (domain.HealthMetrics, error) {
	return cache.Fetch(ctx, a.queries, domain.SystemHealthKey(), staleTime, func(ctx context.Context) (domain.HealthMetrics, error) {
		var tasks []domain.PendingTask
		var insights []domain.Insight

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			tasks, err = a.tasks.ListByCriteria(gctx, domain.TaskStatusCriteria{Status: domain.TaskPending}, sharedQuery.NoPagination, newestFirst)
			return err
		})
		g.Go(func() error {
			var err error
			insights, err = a.insights.ListByCriteria(gctx, domain.InsightResolvedCriteria{Resolved: false}, sharedQuery.NoPagination, newestFirst)
			return err
		})
		if err := g.Wait(); err != nil {
			return domain.HealthMetrics{}, err
		}
		return domain.ComputeHealth(tasks, insights), nil
	})
}

// Refresh fuerza la relectura de todas las consultas de una tienda.
func (a *Aggregator) Refresh(ctx context.Context, store sharedDomain.Store) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := a.analytics(gctx, store, 0)
		return err
	})
	g.Go(func() error {
		_, err := a.pendingTasks(gctx, store, 0)
		return err
	})
	g.Go(func() error {
		_, err := a.pendingInsights(gctx, store, 0)
		return err
	})
	g.Go(func() error {
		_, err := a.unpublishedAds(gctx, store, 0)
		return err
	})
	return g.Wait()
}

// RefreshHealth fuerza la relectura de las métricas de salud.
func (a *Aggregator) RefreshHealth(ctx context.Context) error {
	_, err := a.health(ctx, 0)
	return err
}
