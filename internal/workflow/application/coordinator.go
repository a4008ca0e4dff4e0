package application

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	notificationDomain "github.com/davicafu/autostock/internal/notification/domain"
	"github.com/davicafu/autostock/internal/workflow/domain"
	"github.com/davicafu/autostock/shared/platform/cache"
)

// ActionExecutor es lo que el coordinador necesita del ejecutor.
type ActionExecutor interface {
	Execute(ctx context.Context, action domain.Action, userID string) domain.Result
}

// Coordinator envuelve el ejecutor con actualizaciones optimistas de la caché
// de consultas, invalidación posterior y notificación al usuario.
type Coordinator struct {
	executor ActionExecutor
	queries  *cache.QueryCache
	inflight *InFlightRegistry
	notifier notificationDomain.Notifier
	log      *zap.Logger
}

func NewCoordinator(
	executor ActionExecutor,
	queries *cache.QueryCache,
	inflight *InFlightRegistry,
	notifier notificationDomain.Notifier,
	log *zap.Logger,
) *Coordinator {
	return &Coordinator{
		executor: executor,
		queries:  queries,
		inflight: inflight,
		notifier: notifier,
		log:      log,
	}
}

func (c *Coordinator) InFlight() *InFlightRegistry { return c.inflight }

// Run ejecuta la acción siguiendo el protocolo:
// marcar en curso → parche optimista → mutación → invalidar → notificar.
// La marca en curso se libera en cualquier salida.
func (c *Coordinator) Run(ctx context.Context, action domain.Action, userID string) domain.Result {
	// sin usuario no hay nada que parchear: el ejecutor responde directamente
	if userID == "" {
		return c.executor.Execute(ctx, action, userID)
	}

	target := action.Target()
	if target.ID != "" {
		if !c.inflight.TryAcquire(target) {
			c.log.Info("Action already in flight", zap.String("resource", target.Resource), zap.String("id", target.ID))
			return domain.Failed(domain.ErrInProgress)
		}
		defer c.inflight.Release(target)
	}

	plan := PlanFor(action)
	c.applyOptimistic(ctx, plan, target.ID)

	// una vez emitida, la mutación termina aunque el cliente se vaya
	detached := context.WithoutCancel(ctx)
	result := c.executor.Execute(detached, action, userID)

	if err := c.queries.Invalidate(detached, plan.Invalidate...); err != nil {
		c.log.Warn("⚠️ Query invalidation failed", zap.String("kind", string(action.Kind())), zap.Error(err))
	}

	reverted := target.ID != "" && len(plan.Patch) > 0
	c.notify(detached, plan, result, userID, reverted)
	return result
}

func (c *Coordinator) applyOptimistic(ctx context.Context, plan Plan, id string) {
	if id == "" {
		return
	}
	for _, key := range plan.Patch {
		n, err := cache.UpdateQueries(ctx, c.queries, key, removeByID(id))
		if err != nil {
			c.log.Warn("⚠️ Optimistic update failed", zap.String("key", key.String()), zap.Error(err))
			continue
		}
		c.log.Debug("Optimistic update applied", zap.String("key", key.String()), zap.Int("entries", n))
	}
}

func (c *Coordinator) notify(ctx context.Context, plan Plan, result domain.Result, userID string, reverted bool) {
	if result.Success {
		c.notifier.Notify(ctx, notificationDomain.New(userID, notificationDomain.SeveritySuccess, plan.SuccessTitle, result.Message))
		return
	}
	msg := result.Message
	if reverted {
		msg += "; the change was reverted"
	}
	c.notifier.Notify(ctx, notificationDomain.New(userID, notificationDomain.SeverityError, plan.FailureTitle, msg))
}

// removeByID quita de una lista cacheada el elemento cuyo "id" coincide.
func removeByID(id string) func([]json.RawMessage) []json.RawMessage {
	return func(list []json.RawMessage) []json.RawMessage {
		out := make([]json.RawMessage, 0, len(list))
		for _, raw := range list {
			var item struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(raw, &item); err == nil && item.ID == id {
				continue
			}
			out = append(out, raw)
		}
		return out
	}
}
