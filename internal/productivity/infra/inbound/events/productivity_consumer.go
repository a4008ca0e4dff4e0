package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/autostock/internal/productivity/domain"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
	sharedEvents "github.com/davicafu/autostock/shared/events"
	sharedBus "github.com/davicafu/autostock/shared/platform/bus"
	sharedUtils "github.com/davicafu/autostock/shared/utils"
)

// ProductivityConsumer registra en productivity_metrics las acciones que
// llegan por el bus. La entrega es al menos una vez.
type ProductivityConsumer struct {
	repo domain.Repository
	log  *zap.Logger
}

var _ sharedBus.MessageHandler = (*ProductivityConsumer)(nil)

func NewProductivityConsumer(repo domain.Repository, logger *zap.Logger) *ProductivityConsumer {
	return &ProductivityConsumer{
		repo: repo,
		log:  logger,
	}
}

// HandleMessage es el punto de entrada para un nuevo mensaje/evento.
func (c *ProductivityConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event", zap.String("key", key), zap.Error(err))
		return
	}

	switch base.Type {
	case sharedEvents.AdvertisementPublishedType:
		sharedUtils.UnmarshalAndHandle[sharedEvents.AdvertisementPublished](c.log, base.Type, base.Data, func(evt sharedEvents.AdvertisementPublished) {
			c.record(ctx, domain.Entry{
				UserID:     evt.PublishedBy,
				Action:     domain.ActionAdvertisementPublished,
				TargetID:   evt.AdvertisementID,
				Store:      parseStore(evt.Store),
				OccurredAt: evt.PublishedAt,
			})
		})

	case sharedEvents.InsightResolvedType:
		sharedUtils.UnmarshalAndHandle[sharedEvents.InsightResolved](c.log, base.Type, base.Data, func(evt sharedEvents.InsightResolved) {
			c.record(ctx, domain.Entry{
				UserID:     evt.ResolvedBy,
				Action:     domain.ActionInsightResolved,
				TargetID:   evt.InsightID,
				Store:      parseStore(evt.Store),
				OccurredAt: evt.ResolvedAt,
			})
		})

	case sharedEvents.VehicleSoldType:
		sharedUtils.UnmarshalAndHandle[sharedEvents.VehicleSold](c.log, base.Type, base.Data, func(evt sharedEvents.VehicleSold) {
			c.record(ctx, domain.Entry{
				UserID:     evt.SellerID,
				Action:     domain.ActionVehicleSold,
				TargetID:   evt.VehicleID,
				Store:      parseStore(evt.Store),
				OccurredAt: evt.SoldAt,
			})
		})

	default:
		c.log.Debug("Ignoring event type", zap.String("type", base.Type), zap.String("key", key))
	}
}

// record guarda la entrada con un contexto acotado.
func (c *ProductivityConsumer) record(ctx context.Context, entry domain.Entry) {
	if entry.UserID == "" || entry.TargetID == "" {
		c.log.Warn("Productivity event without user or target", zap.Any("entry", entry))
		return
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}

	ctxLog, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.repo.LogBatch(ctxLog, []domain.Entry{entry}); err != nil {
		c.log.Warn("Failed to record productivity entry",
			zap.String("action", string(entry.Action)),
			zap.String("target_id", entry.TargetID),
			zap.Error(err),
		)
		return
	}
	c.log.Info("📈 Productivity entry recorded",
		zap.String("action", string(entry.Action)),
		zap.String("user_id", entry.UserID),
		zap.String("target_id", entry.TargetID),
	)
}

func parseStore(raw string) *sharedDomain.Store {
	s := sharedDomain.Store(raw)
	if !s.Valid() {
		return nil
	}
	return &s
}
