package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/davicafu/autostock/shared/domain"
	sharedQuery "github.com/davicafu/autostock/shared/platform/query"
)

func TestRebind(t *testing.T) {
	pg := Wrap(nil, Postgres)
	lite := Wrap(nil, SQLite)

	q := `UPDATE t SET a = ?, b = ? WHERE id = ?`
	assert.Equal(t, `UPDATE t SET a = $1, b = $2 WHERE id = $3`, pg.Rebind(q))
	assert.Equal(t, q, lite.Rebind(q))
}

func TestApplyCriteria(t *testing.T) {
	d := Wrap(nil, Postgres)

	where, args := d.ApplyCriteria(sharedDomain.And(
		sharedDomain.FieldEquals{Field: "status", Value: "pending"},
		nil,
		sharedDomain.FieldEquals{Field: "store", Value: "matriz"},
	))
	assert.Equal(t, "(status = ? AND store = ?)", where)
	assert.Equal(t, []interface{}{"pending", "matriz"}, args)

	where, args = d.ApplyCriteria(sharedDomain.Or(
		sharedDomain.FieldEquals{Field: "kind", Value: "price_mismatch"},
		isNull("completed_at"),
	))
	assert.Equal(t, "(kind = ? OR completed_at IS NULL)", where)
	assert.Equal(t, []interface{}{"price_mismatch"}, args)

	where, args = d.ApplyCriteria(nil)
	assert.Empty(t, where)
	assert.Nil(t, args)
}

type isNull string

func (f isNull) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: string(f), Op: sharedDomain.OpIsNull}}
}

func TestOrderAndPage(t *testing.T) {
	clause, args := OrderAndPage(sharedQuery.Sort{Field: "price", Desc: true}, sharedQuery.OffsetPagination{Limit: 0, Offset: 5}, "created_at", "price")
	assert.Equal(t, " ORDER BY price DESC LIMIT ? OFFSET ?", clause)
	assert.Equal(t, []interface{}{sharedQuery.DefaultLimit, 5}, args)

	// columnas no permitidas caen en el fallback
	clause, args = OrderAndPage(sharedQuery.Sort{Field: "1; DROP TABLE x"}, sharedQuery.NoPagination, "created_at", "price")
	assert.Equal(t, " ORDER BY created_at ASC", clause)
	assert.Nil(t, args)
}

func TestOutboxRepo_FetchAndMark(t *testing.T) {
	ctx := context.Background()
	d, err := OpenMemory(ctx)
	require.NoError(t, err)
	defer d.Close()

	evt := sharedDomain.NewOutboxEvent("advertisement", "ad-1", "advertisement.published", map[string]interface{}{"advertisement_id": "ad-1"})
	require.NoError(t, d.WithTx(ctx, func(tx *sql.Tx) error {
		return d.InsertOutboxTx(ctx, tx, evt)
	}))

	repo := NewOutboxRepo(d)
	pending, err := repo.FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, evt.ID, pending[0].ID)
	assert.Equal(t, "advertisement.published", pending[0].EventType)
	assert.Equal(t, map[string]interface{}{"advertisement_id": "ad-1"}, pending[0].Payload)

	require.NoError(t, repo.MarkOutboxProcessed(ctx, evt.ID))
	pending, err = repo.FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.Error(t, repo.MarkOutboxProcessed(ctx, uuid.New()))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	d, err := OpenMemory(ctx)
	require.NoError(t, err)
	defer d.Close()

	evt := sharedDomain.NewOutboxEvent("insight", "i-1", "insight.resolved", map[string]interface{}{})
	err = d.WithTx(ctx, func(tx *sql.Tx) error {
		if err := d.InsertOutboxTx(ctx, tx, evt); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	pending, err := NewOutboxRepo(d).FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
