package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	infraDB "github.com/davicafu/autostock/internal/infra/db"
	"github.com/davicafu/autostock/internal/pending/domain"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
	sharedQuery "github.com/davicafu/autostock/shared/platform/query"
)

const selectInsight = `SELECT id, advertisement_id, insight_type, description, store, resolved, created_at, resolved_at
	FROM advertisement_insights`

type InsightRepoSQL struct {
	db *infraDB.DB
}

func NewInsightRepoSQL(db *infraDB.DB) *InsightRepoSQL {
	return &InsightRepoSQL{db: db}
}

var _ domain.InsightRepository = (*InsightRepoSQL)(nil)

// Create inserta un insight (seeds y tests).
func (r *InsightRepoSQL) Create(ctx context.Context, i domain.Insight) error {
	_, err := r.db.ExecIn(ctx, r.db,
		`INSERT INTO advertisement_insights (id, advertisement_id, insight_type, description, store, resolved, created_at, resolved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.AdvertisementID, string(i.InsightType), i.Description, storeArg(i.Store), i.Resolved, i.CreatedAt, i.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Resolve marca el insight como resuelto. resolved_at solo se fija la
// primera vez; repetir la operación no emite un segundo evento.
func (r *InsightRepoSQL) Resolve(ctx context.Context, id, userID string, at time.Time) (*domain.Insight, error) {
	var resolved *domain.Insight
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		current, err := r.getByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if current.Resolved && current.ResolvedAt != nil {
			resolved = current
			return nil
		}

		_, err = r.db.ExecIn(ctx, tx,
			`UPDATE advertisement_insights SET resolved = ?, resolved_at = COALESCE(resolved_at, ?) WHERE id = ?`,
			true, at.UTC(), id,
		)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		updated, err := r.getByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := r.db.InsertOutboxTx(ctx, tx, updated.ResolvedEvent(userID)); err != nil {
			return err
		}
		resolved = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

func (r *InsightRepoSQL) GetByID(ctx context.Context, id string) (*domain.Insight, error) {
	return r.getByID(ctx, r.db, id)
}

func (r *InsightRepoSQL) getByID(ctx context.Context, q infraDB.Querier, id string) (*domain.Insight, error) {
	row := r.db.QueryRowIn(ctx, q, selectInsight+` WHERE id = ?`, id)
	i, err := scanInsight(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInsightNotFound
		}
		return nil, fmt.Errorf("db scan error: %w", err)
	}
	return i, nil
}

func (r *InsightRepoSQL) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]domain.Insight, error) {
	whereSQL, args := r.db.ApplyCriteria(criteria)

	query := selectInsight
	if whereSQL != "" {
		query += " WHERE " + whereSQL
	}
	orderSQL, pageArgs := infraDB.OrderAndPage(sort, pagination, "created_at", "created_at", "resolved_at", "insight_type")
	query += orderSQL
	args = append(args, pageArgs...)

	rows, err := r.db.QueryIn(ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	insights := make([]domain.Insight, 0)
	for rows.Next() {
		i, err := scanInsight(rows)
		if err != nil {
			return nil, fmt.Errorf("db scan error: %w", err)
		}
		insights = append(insights, *i)
	}
	return insights, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInsight(s rowScanner) (*domain.Insight, error) {
	var i domain.Insight
	var adID, store sql.NullString
	var resolvedAt sql.NullTime
	var insightType string
	if err := s.Scan(&i.ID, &adID, &insightType, &i.Description, &store, &i.Resolved, &i.CreatedAt, &resolvedAt); err != nil {
		return nil, err
	}
	i.InsightType = domain.InsightType(insightType)
	i.AdvertisementID = nullString(adID)
	i.Store = nullStore(store)
	i.ResolvedAt = nullTime(resolvedAt)
	return &i, nil
}
