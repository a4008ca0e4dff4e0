package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/autostock/internal/workflow/domain"
)

// Executor traduce cada acción en una única mutación remota. No notifica:
// eso es cosa del coordinador.
type Executor struct {
	ads      domain.AdvertisementPublisher
	insights domain.InsightResolver
	now      func() time.Time
	log      *zap.Logger
}

func NewExecutor(ads domain.AdvertisementPublisher, insights domain.InsightResolver, log *zap.Logger) *Executor {
	return &Executor{ads: ads, insights: insights, now: time.Now, log: log}
}

// WithClock fija el reloj de las mutaciones (tests).
func (e *Executor) WithClock(now func() time.Time) *Executor {
	e.now = now
	return e
}

// Execute nunca devuelve error: todo fallo se refleja en el Result.
func (e *Executor) Execute(ctx context.Context, action domain.Action, userID string) domain.Result {
	if userID == "" {
		e.log.Warn("Workflow action without user", zap.String("kind", string(action.Kind())))
		return domain.Failed(domain.ErrNotAuthenticated)
	}

	at := e.now().UTC()
	switch a := action.(type) {
	case domain.PublishAdvertisement:
		if err := e.ads.PublishAdvertisement(ctx, a.AdvertisementID, userID, at); err != nil {
			return domain.Failed(err)
		}
		return domain.Succeeded("advertisement published", a.Target())

	case domain.ResolveInsight:
		if err := e.insights.ResolveInsight(ctx, a.InsightID, userID, at); err != nil {
			return domain.Failed(err)
		}
		return domain.Succeeded("insight resolved", a.Target())

	default:
		return domain.Failed(domain.ErrNotImplemented)
	}
}
