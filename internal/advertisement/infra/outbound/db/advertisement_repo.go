package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/davicafu/autostock/internal/advertisement/domain"
	infraDB "github.com/davicafu/autostock/internal/infra/db"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
	sharedQuery "github.com/davicafu/autostock/shared/platform/query"
)

const selectAdvertisement = `SELECT id, platform, vehicle_plates, advertised_price, store, publicado,
	data_publicacao, published_by, description, created_at FROM advertisements`

// AdvertisementRepoSQL implementa domain.AdvertisementRepository (SQLite y Postgres).
type AdvertisementRepoSQL struct {
	db *infraDB.DB
}

func NewAdvertisementRepoSQL(db *infraDB.DB) *AdvertisementRepoSQL {
	return &AdvertisementRepoSQL{db: db}
}

var _ domain.AdvertisementRepository = (*AdvertisementRepoSQL)(nil)

// ------------------ Escritura ------------------

func (r *AdvertisementRepoSQL) Create(ctx context.Context, a *domain.Advertisement) error {
	plates, err := json.Marshal(a.VehiclePlates)
	if err != nil {
		return err
	}
	_, err = r.db.ExecIn(ctx, r.db,
		`INSERT INTO advertisements (id, platform, vehicle_plates, advertised_price, store, publicado,
			data_publicacao, published_by, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, string(a.Platform), string(plates), a.AdvertisedPrice, string(a.Store), a.Publicado,
		a.DataPublicacao, a.PublishedBy, a.Description, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *AdvertisementRepoSQL) Update(ctx context.Context, a *domain.Advertisement) error {
	plates, err := json.Marshal(a.VehiclePlates)
	if err != nil {
		return err
	}
	res, err := r.db.ExecIn(ctx, r.db,
		`UPDATE advertisements SET platform = ?, vehicle_plates = ?, advertised_price = ?, description = ? WHERE id = ?`,
		string(a.Platform), string(plates), a.AdvertisedPrice, a.Description, a.ID,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrAdvertisementNotFound
	}
	return nil
}

func (r *AdvertisementRepoSQL) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecIn(ctx, r.db, `DELETE FROM advertisements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrAdvertisementNotFound
	}
	return nil
}

// Publish actualiza los campos de publicación y escribe el evento outbox en la
// misma transacción. Es idempotente.
func (r *AdvertisementRepoSQL) Publish(ctx context.Context, id, userID string, at time.Time) (*domain.Advertisement, error) {
	var published *domain.Advertisement
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		a, err := r.getByID(ctx, tx, id)
		if err != nil {
			return err
		}
		// ya publicado: se conserva la fecha original y no se emite otro evento
		if a.Publicado && a.DataPublicacao != nil {
			published = a
			return nil
		}
		a.MarkPublished(userID, at)

		_, err = r.db.ExecIn(ctx, tx,
			`UPDATE advertisements SET publicado = ?, data_publicacao = ?, published_by = ? WHERE id = ?`,
			true, *a.DataPublicacao, userID, id,
		)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		if err := r.db.InsertOutboxTx(ctx, tx, a.PublishedEvent()); err != nil {
			return err
		}
		published = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return published, nil
}

// ------------------ Lectura ------------------

func (r *AdvertisementRepoSQL) GetByID(ctx context.Context, id string) (*domain.Advertisement, error) {
	return r.getByID(ctx, r.db, id)
}

func (r *AdvertisementRepoSQL) getByID(ctx context.Context, q infraDB.Querier, id string) (*domain.Advertisement, error) {
	row := r.db.QueryRowIn(ctx, q, selectAdvertisement+` WHERE id = ?`, id)
	a, err := scanAdvertisement(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAdvertisementNotFound
		}
		return nil, fmt.Errorf("db scan error: %w", err)
	}
	return a, nil
}

func (r *AdvertisementRepoSQL) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]domain.Advertisement, error) {
	whereSQL, args := r.db.ApplyCriteria(criteria)

	query := selectAdvertisement
	if whereSQL != "" {
		query += " WHERE " + whereSQL
	}
	orderSQL, pageArgs := infraDB.OrderAndPage(sort, pagination, "created_at",
		"created_at", "advertised_price", "data_publicacao", "platform")
	query += orderSQL
	args = append(args, pageArgs...)

	rows, err := r.db.QueryIn(ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ads := make([]domain.Advertisement, 0)
	for rows.Next() {
		a, err := scanAdvertisement(rows)
		if err != nil {
			return nil, fmt.Errorf("db scan error: %w", err)
		}
		ads = append(ads, *a)
	}
	return ads, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAdvertisement(s rowScanner) (*domain.Advertisement, error) {
	var a domain.Advertisement
	var platform, store, plates string
	var publishedAt sql.NullTime
	var publishedBy sql.NullString
	err := s.Scan(&a.ID, &platform, &plates, &a.AdvertisedPrice, &store, &a.Publicado,
		&publishedAt, &publishedBy, &a.Description, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.Platform = domain.Platform(platform)
	a.Store = sharedDomain.Store(store)
	if err := json.Unmarshal([]byte(plates), &a.VehiclePlates); err != nil {
		return nil, fmt.Errorf("invalid vehicle_plates: %w", err)
	}
	if publishedAt.Valid {
		t := publishedAt.Time.UTC()
		a.DataPublicacao = &t
	}
	if publishedBy.Valid {
		a.PublishedBy = &publishedBy.String
	}
	return &a, nil
}
