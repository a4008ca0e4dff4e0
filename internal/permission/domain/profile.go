package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrProfileNotFound = errors.New("user profile not found")
	ErrInvalidProfile  = errors.New("invalid user profile")
)

// UserProfile es la fila de user_profiles.
type UserProfile struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Role      Role    `json:"role"`
	Level     *int    `json:"level,omitempty"`
	Store     *string `json:"store,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

func (p *UserProfile) Validate() error {
	if p.ID == "" || p.Name == "" {
		return fmt.Errorf("%w: id and name are required", ErrInvalidProfile)
	}
	if !p.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidProfile, p.Role)
	}
	return nil
}

// Principal es el usuario autenticado de una petición.
type Principal struct {
	UserID string  `json:"user_id"`
	Role   Role    `json:"role"`
	Level  *int    `json:"level,omitempty"`
	Store  *string `json:"store,omitempty"`
	Source string  `json:"source"` // "jwt" | "header"
}

// ProfileRepository define la persistencia de perfiles.
type ProfileRepository interface {
	// Debe devolver ErrProfileNotFound si no existe.
	GetByID(ctx context.Context, id string) (*UserProfile, error)
	Upsert(ctx context.Context, p *UserProfile) error
	// Debe devolver ErrProfileNotFound si no existe.
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
}

// CacheKeyByID forma una key consistente para cache usando ID.
func CacheKeyByID(id string) string {
	return "profile:id:" + id
}
