package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	infraDB "github.com/davicafu/autostock/internal/infra/db"
	"github.com/davicafu/autostock/internal/media/domain"
)

// ImageRepoSQL implementa domain.ImageRepository sobre vehicle_images.
type ImageRepoSQL struct {
	db *infraDB.DB
}

func NewImageRepoSQL(db *infraDB.DB) *ImageRepoSQL {
	return &ImageRepoSQL{db: db}
}

var _ domain.ImageRepository = (*ImageRepoSQL)(nil)

func (r *ImageRepoSQL) Create(ctx context.Context, img domain.VehicleImage) error {
	_, err := r.db.ExecIn(ctx, r.db,
		`INSERT INTO vehicle_images (id, vehicle_id, object_key, url, created_at) VALUES (?, ?, ?, ?, ?)`,
		img.ID, img.VehicleID, img.ObjectKey, img.URL, img.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *ImageRepoSQL) GetByID(ctx context.Context, id string) (*domain.VehicleImage, error) {
	var img domain.VehicleImage
	err := r.db.QueryRowIn(ctx, r.db,
		`SELECT id, vehicle_id, object_key, url, created_at FROM vehicle_images WHERE id = ?`, id,
	).Scan(&img.ID, &img.VehicleID, &img.ObjectKey, &img.URL, &img.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrImageNotFound
		}
		return nil, fmt.Errorf("db scan error: %w", err)
	}
	img.CreatedAt = img.CreatedAt.UTC()
	return &img, nil
}

func (r *ImageRepoSQL) ListByVehicle(ctx context.Context, vehicleID string) ([]domain.VehicleImage, error) {
	rows, err := r.db.QueryIn(ctx, r.db,
		`SELECT id, vehicle_id, object_key, url, created_at FROM vehicle_images
		 WHERE vehicle_id = ? ORDER BY created_at ASC`, vehicleID,
	)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	images := make([]domain.VehicleImage, 0)
	for rows.Next() {
		var img domain.VehicleImage
		if err := rows.Scan(&img.ID, &img.VehicleID, &img.ObjectKey, &img.URL, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("db scan error: %w", err)
		}
		img.CreatedAt = img.CreatedAt.UTC()
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *ImageRepoSQL) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecIn(ctx, r.db, `DELETE FROM vehicle_images WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrImageNotFound
	}
	return nil
}
