package mocks

import (
	"context"
	"sync"

	permissionDomain "github.com/davicafu/autostock/internal/permission/domain"
)

// InMemoryProfileRepo simula ProfileRepository.
type InMemoryProfileRepo struct {
	Profiles map[string]permissionDomain.UserProfile
	mu       sync.Mutex
	getCalls int
}

var _ permissionDomain.ProfileRepository = (*InMemoryProfileRepo)(nil)

func NewInMemoryProfileRepo() *InMemoryProfileRepo {
	return &InMemoryProfileRepo{Profiles: make(map[string]permissionDomain.UserProfile)}
}

func (r *InMemoryProfileRepo) GetByID(ctx context.Context, id string) (*permissionDomain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	p, ok := r.Profiles[id]
	if !ok {
		return nil, permissionDomain.ErrProfileNotFound
	}
	return &p, nil
}

func (r *InMemoryProfileRepo) Upsert(ctx context.Context, p *permissionDomain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Profiles[p.ID] = *p
	return nil
}

func (r *InMemoryProfileRepo) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Profiles[id]
	if !ok {
		return permissionDomain.ErrProfileNotFound
	}
	p.AvatarURL = &avatarURL
	r.Profiles[id] = p
	return nil
}

// GetCalls cuenta las lecturas para verificar aciertos de caché y reintentos.
func (r *InMemoryProfileRepo) GetCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getCalls
}
