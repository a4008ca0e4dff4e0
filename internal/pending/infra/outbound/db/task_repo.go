package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	infraDB "github.com/davicafu/autostock/internal/infra/db"
	"github.com/davicafu/autostock/internal/pending/domain"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
	sharedQuery "github.com/davicafu/autostock/shared/platform/query"
)

// TaskRepoSQL lee la tabla tasks que mantienen los procedimientos remotos.
type TaskRepoSQL struct {
	db *infraDB.DB
}

func NewTaskRepoSQL(db *infraDB.DB) *TaskRepoSQL {
	return &TaskRepoSQL{db: db}
}

var _ domain.TaskRepository = (*TaskRepoSQL)(nil)

// Create inserta una tarea (seeds y tests; en producción las crean los procedimientos).
func (r *TaskRepoSQL) Create(ctx context.Context, t domain.PendingTask) error {
	_, err := r.db.ExecIn(ctx, r.db,
		`INSERT INTO tasks (id, reference_id, reference_table, kind, description, store, status, created_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ReferenceID, t.ReferenceTable, string(t.Kind), t.Description, storeArg(t.Store),
		string(t.Status), t.CreatedAt, t.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *TaskRepoSQL) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]domain.PendingTask, error) {
	whereSQL, args := r.db.ApplyCriteria(criteria)

	query := `SELECT id, reference_id, reference_table, kind, description, store, status, created_at, completed_at FROM tasks`
	if whereSQL != "" {
		query += " WHERE " + whereSQL
	}
	orderSQL, pageArgs := infraDB.OrderAndPage(sort, pagination, "created_at", "created_at", "completed_at", "kind")
	query += orderSQL
	args = append(args, pageArgs...)

	rows, err := r.db.QueryIn(ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	tasks := make([]domain.PendingTask, 0)
	for rows.Next() {
		var t domain.PendingTask
		var refID, refTable, store sql.NullString
		var completedAt sql.NullTime
		var kind, status string
		if err := rows.Scan(&t.ID, &refID, &refTable, &kind, &t.Description, &store, &status, &t.CreatedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("db scan error: %w", err)
		}
		t.Kind = domain.TaskKind(kind)
		t.Status = domain.TaskStatus(status)
		t.ReferenceID = nullString(refID)
		t.ReferenceTable = nullString(refTable)
		t.Store = nullStore(store)
		t.CompletedAt = nullTime(completedAt)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ------------------ Helpers de columnas nulas ------------------

func storeArg(s *sharedDomain.Store) interface{} {
	if s == nil {
		return nil
	}
	return string(*s)
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullStore(v sql.NullString) *sharedDomain.Store {
	if !v.Valid {
		return nil
	}
	s := sharedDomain.Store(v.String)
	return &s
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}
