package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/autostock/shared/domain"
)

// DefaultRefreshInterval es el periodo de sondeo en segundo plano.
const DefaultRefreshInterval = 5 * time.Minute

// Refresher es lo que el poller necesita del agregador.
type Refresher interface {
	Refresh(ctx context.Context, store sharedDomain.Store) error
	RefreshHealth(ctx context.Context) error
}

// Poller refresca periódicamente las consultas de cada tienda.
type Poller struct {
	aggregator Refresher
	stores     []sharedDomain.Store
	interval   time.Duration
	log        *zap.Logger
}

func NewPoller(aggregator Refresher, stores []sharedDomain.Store, interval time.Duration, log *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Poller{aggregator: aggregator, stores: stores, interval: interval, log: log}
}

// Start bloquea hasta que ctx termine.
func (p *Poller) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.Info("🔄 Pending poller iniciado", zap.Duration("interval", p.interval))

	for {
		select {
		case <-ctx.Done():
			p.log.Info("🛑 Pending poller detenido.")
			return
		case <-ticker.C:
			p.RefreshAll(ctx)
		}
	}
}

// RefreshAll refresca todas las tiendas; un fallo en una no detiene las demás.
func (p *Poller) RefreshAll(ctx context.Context) int {
	refreshed := 0
	for _, store := range p.stores {
		if err := p.aggregator.Refresh(ctx, store); err != nil {
			p.log.Warn("⚠️ Pending refresh failed", zap.String("store", string(store)), zap.Error(err))
			continue
		}
		refreshed++
	}
	if err := p.aggregator.RefreshHealth(ctx); err != nil {
		p.log.Warn("⚠️ Health refresh failed", zap.Error(err))
	}
	return refreshed
}
