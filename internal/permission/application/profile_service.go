package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/autostock/internal/permission/domain"
	sharedCache "github.com/davicafu/autostock/shared/platform/cache"
	sharedUtils "github.com/davicafu/autostock/shared/utils"
)

const profileCacheTTL = 60 // segundos

// ProfileService resuelve perfiles y evalúa permisos contra la tabla cargada.
type ProfileService struct {
	repo  domain.ProfileRepository
	cache sharedCache.Cache
	rules domain.RuleTable
	log   *zap.Logger
}

func NewProfileService(repo domain.ProfileRepository, cache sharedCache.Cache, rules domain.RuleTable, log *zap.Logger) *ProfileService {
	if rules == nil {
		rules = domain.DefaultRules()
	}
	return &ProfileService{repo: repo, cache: cache, rules: rules, log: log}
}

// Check evalúa el acceso con la tabla de reglas del servicio.
func (s *ProfileService) Check(area domain.Area, role domain.Role, level *int) domain.Decision {
	return s.rules.Check(area, role, level)
}

// Rules devuelve la tabla de reglas en uso.
func (s *ProfileService) Rules() domain.RuleTable {
	return s.rules
}

// GetProfile obtiene un perfil (primero intenta desde cache).
func (s *ProfileService) GetProfile(ctx context.Context, id string) (*domain.UserProfile, error) {
	// 1. Intentar cache
	if s.cache != nil {
		var p domain.UserProfile
		if ok, _ := s.cache.Get(ctx, domain.CacheKeyByID(id), &p); ok {
			return &p, nil
		}
	}

	// 2. Ir al repo con reintentos; "no encontrado" no se reintenta
	var profile *domain.UserProfile
	err := sharedUtils.Retry(ctx, 3, 100*time.Millisecond, func() error {
		var err error
		profile, err = s.repo.GetByID(ctx, id)
		if errors.Is(err, domain.ErrProfileNotFound) {
			return sharedUtils.Permanent{Err: err}
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	// 3. Actualizar cache en background sin bloquear la respuesta
	sharedCache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByID(id), profile, profileCacheTTL, s.log)
	return profile, nil
}

// SaveProfile crea o actualiza un perfil.
func (s *ProfileService) SaveProfile(ctx context.Context, p *domain.UserProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return err
	}
	sharedCache.AsyncCacheDelete(ctx, s.cache, domain.CacheKeyByID(p.ID), s.log)
	return nil
}

// UpdateAvatar guarda la URL pública del avatar.
func (s *ProfileService) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	if err := s.repo.UpdateAvatar(ctx, id, avatarURL); err != nil {
		return err
	}
	sharedCache.AsyncCacheDelete(ctx, s.cache, domain.CacheKeyByID(id), s.log)
	return nil
}

// ResolvePrincipal completa rol/nivel/tienda desde user_profiles cuando el
// token no los trae. Un perfil inexistente no es error: el principal queda
// sin rol y los permisos lo denegarán.
func (s *ProfileService) ResolvePrincipal(ctx context.Context, p domain.Principal) (domain.Principal, error) {
	if p.Role != "" && p.Level != nil {
		return p, nil
	}
	profile, err := s.GetProfile(ctx, p.UserID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		s.log.Debug("Principal without profile", zap.String("user_id", p.UserID))
		return p, nil
	}
	if err != nil {
		return p, err
	}
	if p.Role == "" {
		p.Role = profile.Role
	}
	if p.Level == nil {
		p.Level = profile.Level
	}
	if p.Store == nil {
		p.Store = profile.Store
	}
	return p, nil
}
