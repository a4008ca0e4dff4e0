package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	infraDB "github.com/davicafu/autostock/internal/infra/db"
	"github.com/davicafu/autostock/internal/productivity/domain"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
)

// ProductivityRepoSQL guarda productivity_metrics en la base relacional
// cuando no hay ClickHouse. La agregación se hace en memoria para que la
// misma consulta valga en SQLite y Postgres.
type ProductivityRepoSQL struct {
	db *infraDB.DB
}

func NewProductivityRepoSQL(db *infraDB.DB) *ProductivityRepoSQL {
	return &ProductivityRepoSQL{db: db}
}

var _ domain.Repository = (*ProductivityRepoSQL)(nil)

func (r *ProductivityRepoSQL) LogBatch(ctx context.Context, entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, e := range entries {
			var store interface{}
			if e.Store != nil {
				store = string(*e.Store)
			}
			_, err := r.db.ExecIn(ctx, tx,
				`INSERT INTO productivity_metrics (user_id, action, target_id, store, occurred_at) VALUES (?, ?, ?, ?, ?)`,
				e.UserID, string(e.Action), e.TargetID, store, e.OccurredAt.UTC(),
			)
			if err != nil {
				return fmt.Errorf("failed to insert productivity entry for %s: %w", e.TargetID, err)
			}
		}
		return nil
	})
}

func (r *ProductivityRepoSQL) DailyTrend(ctx context.Context, start, end time.Time, store sharedDomain.Store) ([]domain.DailyActivity, error) {
	entries, err := r.load(ctx, start, end, store)
	if err != nil {
		return nil, err
	}
	return domain.BucketDaily(entries), nil
}

func (r *ProductivityRepoSQL) ByUser(ctx context.Context, start, end time.Time, store sharedDomain.Store) ([]domain.UserActivity, error) {
	entries, err := r.load(ctx, start, end, store)
	if err != nil {
		return nil, err
	}
	return domain.BucketUsers(entries), nil
}

func (r *ProductivityRepoSQL) load(ctx context.Context, start, end time.Time, store sharedDomain.Store) ([]domain.Entry, error) {
	query := `SELECT user_id, action, target_id, store, occurred_at FROM productivity_metrics
		WHERE occurred_at >= ? AND occurred_at < ?`
	args := []interface{}{start.UTC(), end.UTC()}

	whereSQL, storeArgs := r.db.ApplyCriteria(sharedDomain.StoreCriteria{Store: store})
	if whereSQL != "" {
		query += " AND " + whereSQL
		args = append(args, storeArgs...)
	}

	rows, err := r.db.QueryIn(ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.Entry, 0)
	for rows.Next() {
		var e domain.Entry
		var action string
		var st sql.NullString
		if err := rows.Scan(&e.UserID, &action, &e.TargetID, &st, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("db scan error: %w", err)
		}
		e.Action = domain.Action(action)
		if st.Valid {
			s := sharedDomain.Store(st.String)
			e.Store = &s
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
