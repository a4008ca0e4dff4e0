package procedures

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"

	infraDB "github.com/davicafu/autostock/internal/infra/db"
	"github.com/davicafu/autostock/internal/maintenance/domain"
)

var procedureName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresProcedures invoca funciones de PostgreSQL con SELECT fn()::text.
type PostgresProcedures struct {
	db *infraDB.DB
}

func NewPostgresProcedures(db *infraDB.DB) *PostgresProcedures {
	return &PostgresProcedures{db: db}
}

func (p *PostgresProcedures) Call(ctx context.Context, procedure string) (json.RawMessage, error) {
	// el nombre va interpolado: solo identificadores simples
	if !procedureName.MatchString(procedure) {
		return nil, fmt.Errorf("invalid procedure name %q", procedure)
	}

	var out sql.NullString
	if err := p.db.QueryRowContext(ctx, fmt.Sprintf("SELECT %s()::text", procedure)).Scan(&out); err != nil {
		return nil, fmt.Errorf("procedure %s failed: %w", procedure, err)
	}
	return normalizeResult(out), nil
}

// normalizeResult convierte la salida textual en JSON: las funciones void
// devuelven "" y las escalares texto plano.
func normalizeResult(v sql.NullString) json.RawMessage {
	if !v.Valid {
		return json.RawMessage("null")
	}
	if json.Valid([]byte(v.String)) {
		return json.RawMessage(v.String)
	}
	raw, _ := json.Marshal(v.String)
	return raw
}

// Unsupported es el adaptador para despliegues SQLite, sin funciones remotas.
type Unsupported struct{}

func (Unsupported) Call(ctx context.Context, procedure string) (json.RawMessage, error) {
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupported, procedure)
}

// New elige el adaptador según el dialecto.
func New(db *infraDB.DB) domain.Procedures {
	if db != nil && db.Dialect == infraDB.Postgres {
		return NewPostgresProcedures(db)
	}
	return Unsupported{}
}
