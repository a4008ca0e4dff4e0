package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/davicafu/autostock/internal/productivity/domain"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
)

// ProductivityRepo implementa domain.Repository para ClickHouse.
type ProductivityRepo struct {
	db *sql.DB
}

// NewProductivityRepo abre la conexión y comprueba que responde.
func NewProductivityRepo(addr string, dbName string) (*ProductivityRepo, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}

	return &ProductivityRepo{db: conn}, nil
}

var _ domain.Repository = (*ProductivityRepo)(nil)

// LogBatch inserta las entradas en un solo lote.
func (r *ProductivityRepo) LogBatch(ctx context.Context, entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO productivity_metrics (user_id, action, target_id, store, occurred_at)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		store := ""
		if e.Store != nil {
			store = string(*e.Store)
		}
		if _, err := stmt.ExecContext(ctx, e.UserID, string(e.Action), e.TargetID, store, e.OccurredAt.UTC()); err != nil {
			// Si un registro falla, se descarta el lote entero.
			tx.Rollback()
			return fmt.Errorf("failed to exec statement for %s: %w", e.TargetID, err)
		}
	}
	return tx.Commit()
}

// storeFilter devuelve la condición de tienda ("" para todas).
func storeFilter(store sharedDomain.Store) (string, []interface{}) {
	if !store.Valid() {
		return "", nil
	}
	return " AND store = ?", []interface{}{string(store)}
}

func (r *ProductivityRepo) DailyTrend(ctx context.Context, start, end time.Time, store sharedDomain.Store) ([]domain.DailyActivity, error) {
	where, storeArgs := storeFilter(store)
	query := `
		SELECT
			toStartOfDay(occurred_at) AS day,
			countIf(action = 'advertisement_published') AS published,
			countIf(action = 'insight_resolved') AS resolved,
			countIf(action = 'vehicle_sold') AS sold
		FROM productivity_metrics
		WHERE occurred_at >= ? AND occurred_at < ?` + where + `
		GROUP BY day
		ORDER BY day
	`
	args := append([]interface{}{start.UTC(), end.UTC()}, storeArgs...)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trend []domain.DailyActivity
	for rows.Next() {
		var p domain.DailyActivity
		var published, resolved, sold uint64
		if err := rows.Scan(&p.Day, &published, &resolved, &sold); err != nil {
			return nil, err
		}
		p.Day = p.Day.UTC()
		p.Add(domain.ActionAdvertisementPublished, int(published))
		p.Add(domain.ActionInsightResolved, int(resolved))
		p.Add(domain.ActionVehicleSold, int(sold))
		trend = append(trend, p)
	}
	return trend, rows.Err()
}

func (r *ProductivityRepo) ByUser(ctx context.Context, start, end time.Time, store sharedDomain.Store) ([]domain.UserActivity, error) {
	where, storeArgs := storeFilter(store)
	query := `
		SELECT
			user_id,
			countIf(action = 'advertisement_published') AS published,
			countIf(action = 'insight_resolved') AS resolved,
			countIf(action = 'vehicle_sold') AS sold
		FROM productivity_metrics
		WHERE occurred_at >= ? AND occurred_at < ?` + where + `
		GROUP BY user_id
	`
	args := append([]interface{}{start.UTC(), end.UTC()}, storeArgs...)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.UserActivity
	for rows.Next() {
		var u domain.UserActivity
		var published, resolved, sold uint64
		if err := rows.Scan(&u.UserID, &published, &resolved, &sold); err != nil {
			return nil, err
		}
		u.Add(domain.ActionAdvertisementPublished, int(published))
		u.Add(domain.ActionInsightResolved, int(resolved))
		u.Add(domain.ActionVehicleSold, int(sold))
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	domain.SortUsers(users)
	return users, nil
}

// InitSchema crea la tabla en ClickHouse si no existe.
// Se particiona por mes y se ordena por los campos de consulta habituales.
func (r *ProductivityRepo) InitSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS productivity_metrics (
			user_id     String,
			action      LowCardinality(String),
			target_id   String,
			store       LowCardinality(String),
			occurred_at DateTime64(3, 'UTC')
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(occurred_at)
		ORDER BY (store, action, occurred_at);
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

func (r *ProductivityRepo) Close() error {
	return r.db.Close()
}
