package procedures

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraDB "github.com/davicafu/autostock/internal/infra/db"
	"github.com/davicafu/autostock/internal/maintenance/domain"
)

func TestNew_PicksAdapterByDialect(t *testing.T) {
	conn, err := infraDB.OpenMemory(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	procs := New(conn)
	_, err = procs.Call(context.Background(), domain.ActionRecalculate.Procedure())
	assert.ErrorIs(t, err, domain.ErrUnsupported)

	assert.IsType(t, &PostgresProcedures{}, New(infraDB.Wrap(conn.DB, infraDB.Postgres)))
}

func TestPostgresProcedures_RejectsUnsafeNames(t *testing.T) {
	p := NewPostgresProcedures(nil)

	_, err := p.Call(context.Background(), "x(); DROP TABLE tasks; --")
	assert.ErrorContains(t, err, "invalid procedure name")
}

func TestNormalizeResult(t *testing.T) {
	assert.JSONEq(t, `{"updated":3}`, string(normalizeResult(sql.NullString{String: `{"updated":3}`, Valid: true})))
	assert.Equal(t, `""`, string(normalizeResult(sql.NullString{String: "", Valid: true})))
	assert.Equal(t, `"done"`, string(normalizeResult(sql.NullString{String: "done", Valid: true})))
	assert.Equal(t, `null`, string(normalizeResult(sql.NullString{})))
}
