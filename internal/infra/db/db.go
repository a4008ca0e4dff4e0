package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // Driver de PostgreSQL
	_ "modernc.org/sqlite"             // SQLite puro Go, sin cgo

	sharedDomain "github.com/davicafu/autostock/shared/domain"
	sharedQuery "github.com/davicafu/autostock/shared/platform/query"
	sharedUtils "github.com/davicafu/autostock/shared/utils"
)

// Dialect indica el motor SQL detrás de *sql.DB.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// DB envuelve *sql.DB con el dialecto para que los repositorios escriban
// una sola versión de cada consulta (con '?') y se reescriba para Postgres.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open abre la conexión según el driver configurado ("sqlite" o "postgres").
func Open(driver, dsn string) (*DB, error) {
	switch Dialect(driver) {
	case SQLite:
		conn, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, err
		}
		// SQLite no admite escritores concurrentes; :memory: además es por conexión.
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			conn.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
		return &DB{DB: conn, Dialect: SQLite}, nil
	case Postgres:
		conn, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, err
		}
		return &DB{DB: conn, Dialect: Postgres}, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// Wrap adapta un *sql.DB ya abierto (tests).
func Wrap(conn *sql.DB, dialect Dialect) *DB {
	return &DB{DB: conn, Dialect: dialect}
}

// Rebind traduce los '?' a '$1, $2...' en Postgres.
func (d *DB) Rebind(query string) string {
	if d.Dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Querier es lo común a *sql.DB y *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ExecIn, QueryIn y QueryRowIn reescriben la consulta antes de delegar en q.
func (d *DB) ExecIn(ctx context.Context, q Querier, query string, args ...interface{}) (sql.Result, error) {
	return q.ExecContext(ctx, d.Rebind(query), args...)
}

func (d *DB) QueryIn(ctx context.Context, q Querier, query string, args ...interface{}) (*sql.Rows, error) {
	return q.QueryContext(ctx, d.Rebind(query), args...)
}

func (d *DB) QueryRowIn(ctx context.Context, q Querier, query string, args ...interface{}) *sql.Row {
	return q.QueryRowContext(ctx, d.Rebind(query), args...)
}

// WithTx ejecuta fn en una transacción; hace rollback si fn devuelve error.
func (d *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback() // Se ignora si el Commit() es exitoso

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// ------------------ Helper DRY para insertar en outbox ------------------

// InsertOutboxTx guarda el evento dentro de la misma transacción que la mutación.
func (d *DB) InsertOutboxTx(ctx context.Context, tx *sql.Tx, evt sharedDomain.OutboxEvent) error {
	payloadBytes, err := json.Marshal(evt.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal outbox payload: %w", err)
	}

	_, err = d.ExecIn(ctx, tx,
		`INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at, processed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		evt.ID.String(), evt.AggregateType, evt.AggregateID, evt.EventType, string(payloadBytes), evt.CreatedAt, false,
	)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

// ------------------ Criteria → SQL ------------------

// ApplyCriteria traduce criterios neutrales a una cláusula WHERE con '?'.
func (d *DB) ApplyCriteria(criteria sharedDomain.Criteria) (string, []interface{}) {
	if criteria == nil {
		return "", nil
	}
	conds := criteria.ToConditions()
	if len(conds) == 0 {
		return "", nil
	}

	joiner := " AND "
	if comp, ok := criteria.(sharedDomain.CompositeCriteria); ok && comp.Operator == sharedDomain.OpOr {
		joiner = " OR "
	}

	var clauses []string
	var args []interface{}
	for _, c := range conds {
		switch c.Op {
		case sharedDomain.OpIsNull:
			clauses = append(clauses, c.Field+" IS NULL")
		case sharedDomain.OpILike:
			// SQLite: LIKE ya es insensible a mayúsculas para ASCII
			op := sharedUtils.Ternary(d.Dialect == Postgres, "ILIKE", "LIKE")
			clauses = append(clauses, fmt.Sprintf("%s %s ?", c.Field, op))
			args = append(args, c.Value)
		default:
			clauses = append(clauses, fmt.Sprintf("%s %s ?", c.Field, c.Op))
			args = append(args, c.Value)
		}
	}
	return "(" + strings.Join(clauses, joiner) + ")", args
}

// OrderAndPage añade ORDER BY y LIMIT/OFFSET. allowed lista las columnas
// ordenables; cualquier otra cae en fallback.
func OrderAndPage(sort sharedQuery.Sort, pagination sharedQuery.Pagination, fallback string, allowed ...string) (string, []interface{}) {
	field := fallback
	for _, a := range allowed {
		if sort.Field == a {
			field = a
			break
		}
	}
	clause := fmt.Sprintf(" ORDER BY %s %s", field, sharedUtils.Ternary(sort.Desc, "DESC", "ASC"))

	if p, ok := pagination.(sharedQuery.OffsetPagination); ok {
		p = p.Normalize()
		return clause + " LIMIT ? OFFSET ?", []interface{}{p.Limit, p.Offset}
	}
	return clause, nil
}
