package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/davicafu/autostock/internal/inventory/domain"
	infraDB "github.com/davicafu/autostock/internal/infra/db"
)

// HistoryRepoSQL guarda el historial de cambios en vehicle_change_history.
type HistoryRepoSQL struct {
	db *infraDB.DB
}

func NewHistoryRepoSQL(db *infraDB.DB) *HistoryRepoSQL {
	return &HistoryRepoSQL{db: db}
}

var _ domain.ChangeHistoryRepository = (*HistoryRepoSQL)(nil)

func (r *HistoryRepoSQL) Append(ctx context.Context, changes []domain.VehicleChange) error {
	if len(changes) == 0 {
		return nil
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, c := range changes {
			_, err := r.db.ExecIn(ctx, tx,
				`INSERT INTO vehicle_change_history (id, vehicle_id, field, old_value, new_value, changed_by, changed_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				c.ID, c.VehicleID, c.Field, c.OldValue, c.NewValue, c.ChangedBy, c.ChangedAt,
			)
			if err != nil {
				return fmt.Errorf("db error: %w", err)
			}
		}
		return nil
	})
}

// ListByVehicle devuelve el historial del más reciente al más antiguo.
func (r *HistoryRepoSQL) ListByVehicle(ctx context.Context, vehicleID string) ([]domain.VehicleChange, error) {
	rows, err := r.db.QueryIn(ctx, r.db,
		`SELECT id, vehicle_id, field, old_value, new_value, changed_by, changed_at
		 FROM vehicle_change_history WHERE vehicle_id = ? ORDER BY changed_at DESC, field ASC`,
		vehicleID,
	)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	changes := make([]domain.VehicleChange, 0)
	for rows.Next() {
		var c domain.VehicleChange
		var oldValue, newValue sql.NullString
		if err := rows.Scan(&c.ID, &c.VehicleID, &c.Field, &oldValue, &newValue, &c.ChangedBy, &c.ChangedAt); err != nil {
			return nil, fmt.Errorf("db scan error: %w", err)
		}
		c.OldValue = oldValue.String
		c.NewValue = newValue.String
		c.ChangedAt = c.ChangedAt.UTC()
		changes = append(changes, c)
	}
	return changes, rows.Err()
}
