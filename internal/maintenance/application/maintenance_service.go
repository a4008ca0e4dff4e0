package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/autostock/internal/maintenance/domain"
	notificationDomain "github.com/davicafu/autostock/internal/notification/domain"
	pendingDomain "github.com/davicafu/autostock/internal/pending/domain"
	"github.com/davicafu/autostock/shared/platform/cache"
)

const consolidatedStaleTime = 2 * time.Minute

// claves afectadas por cualquier mantenimiento
var affectedKeys = []cache.Key{
	{pendingDomain.QuerySystemHealth},
	{pendingDomain.QueryPendingTasks},
	{pendingDomain.QueryPendingInsights},
	{pendingDomain.QueryUnpublishedAds},
	{pendingDomain.QueryPendingAnalytics},
	{pendingDomain.QueryConsolidatedState},
}

// MaintenanceService envuelve los procedimientos remotos. La exclusión entre
// acciones es orientativa: IsPending informa, no bloquea.
type MaintenanceService struct {
	procs    domain.Procedures
	queries  *cache.QueryCache
	notifier notificationDomain.Notifier
	now      func() time.Time
	log      *zap.Logger

	mu      sync.Mutex
	running int
	status  map[domain.Action]*domain.Status
}

func NewMaintenanceService(procs domain.Procedures, queries *cache.QueryCache, notifier notificationDomain.Notifier, log *zap.Logger) *MaintenanceService {
	status := make(map[domain.Action]*domain.Status)
	for _, a := range domain.Actions() {
		status[a] = &domain.Status{Action: a, State: domain.StateIdle}
	}
	return &MaintenanceService{
		procs:    procs,
		queries:  queries,
		notifier: notifier,
		now:      time.Now,
		log:      log,
		status:   status,
	}
}

// IsPending es true mientras alguna acción está en curso.
func (s *MaintenanceService) IsPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running > 0
}

// Statuses devuelve el estado de las cuatro acciones.
func (s *MaintenanceService) Statuses() []domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Status, 0, len(s.status))
	for _, a := range domain.Actions() {
		out = append(out, *s.status[a])
	}
	return out
}

func (s *MaintenanceService) begin(a domain.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running++
	s.status[a].State = domain.StateRunning
}

func (s *MaintenanceService) finish(a domain.Action, result json.RawMessage, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running--
	st := s.status[a]
	st.State = domain.StateIdle
	at := s.now().UTC()
	st.LastRunAt = &at
	if err != nil {
		st.LastError = err.Error()
		return
	}
	st.LastError = ""
	st.LastResult = result
}

func (s *MaintenanceService) known(a domain.Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.status[a]
	return ok
}

// Trigger ejecuta una acción una vez, sin reintentos. userID recibe la
// notificación del resultado (vacío para ejecuciones del sistema).
// Una vez emitida, la llamada remota no se cancela aunque el llamador se vaya.
func (s *MaintenanceService) Trigger(ctx context.Context, action domain.Action, userID string) (json.RawMessage, error) {
	if !s.known(action) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAction, action)
	}
	ctx = context.WithoutCancel(ctx)

	s.begin(action)
	s.log.Info("🛠️ Maintenance started", zap.String("action", string(action)))

	result, err := s.procs.Call(ctx, action.Procedure())
	s.finish(action, result, err)

	if err != nil {
		s.log.Error("Maintenance failed", zap.String("action", string(action)), zap.Error(err))
		s.notifier.Notify(ctx, notificationDomain.New(userID, notificationDomain.SeverityError,
			"Maintenance failed: "+string(action), err.Error()))
		return nil, err
	}

	if err := s.queries.Invalidate(ctx, affectedKeys...); err != nil {
		s.log.Warn("⚠️ Query invalidation failed", zap.String("action", string(action)), zap.Error(err))
	}
	s.notifier.Notify(ctx, notificationDomain.New(userID, notificationDomain.SeveritySuccess,
		"Maintenance completed: "+string(action), string(result)))
	s.log.Info("✅ Maintenance completed", zap.String("action", string(action)))
	return result, nil
}

// ConsolidatedState lee el estado consolidado a través de la caché de consultas.
func (s *MaintenanceService) ConsolidatedState(ctx context.Context) (json.RawMessage, error) {
	return cache.Fetch(ctx, s.queries, cache.Key{pendingDomain.QueryConsolidatedState}, consolidatedStaleTime,
		func(ctx context.Context) (json.RawMessage, error) {
			return s.procs.Call(ctx, domain.ConsolidatedStateProcedure)
		})
}
