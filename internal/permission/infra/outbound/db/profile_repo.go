package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	infraDB "github.com/davicafu/autostock/internal/infra/db"
	"github.com/davicafu/autostock/internal/permission/domain"
)

// ProfileRepoSQL implementa domain.ProfileRepository sobre user_profiles.
type ProfileRepoSQL struct {
	db *infraDB.DB
}

func NewProfileRepoSQL(db *infraDB.DB) *ProfileRepoSQL {
	return &ProfileRepoSQL{db: db}
}

var _ domain.ProfileRepository = (*ProfileRepoSQL)(nil)

func (r *ProfileRepoSQL) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	row := r.db.QueryRowIn(ctx, r.db,
		`SELECT id, name, role, level, store, avatar_url FROM user_profiles WHERE id = ?`, id)

	var p domain.UserProfile
	var level sql.NullInt64
	var store, avatar sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Role, &level, &store, &avatar); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("db scan error: %w", err)
	}
	if level.Valid {
		lv := int(level.Int64)
		p.Level = &lv
	}
	if store.Valid {
		p.Store = &store.String
	}
	if avatar.Valid {
		p.AvatarURL = &avatar.String
	}
	return &p, nil
}

// Upsert inserta o reemplaza el perfil (ON CONFLICT funciona en SQLite y Postgres).
func (r *ProfileRepoSQL) Upsert(ctx context.Context, p *domain.UserProfile) error {
	_, err := r.db.ExecIn(ctx, r.db,
		`INSERT INTO user_profiles (id, name, role, level, store, avatar_url)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   name = excluded.name,
		   role = excluded.role,
		   level = excluded.level,
		   store = excluded.store,
		   avatar_url = COALESCE(excluded.avatar_url, user_profiles.avatar_url)`,
		p.ID, p.Name, string(p.Role), p.Level, p.Store, p.AvatarURL,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *ProfileRepoSQL) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	res, err := r.db.ExecIn(ctx, r.db, `UPDATE user_profiles SET avatar_url = ? WHERE id = ?`, avatarURL, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}
