package clickhouse

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davicafu/autostock/internal/productivity/domain"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
)

func TestStoreFilter(t *testing.T) {
	where, args := storeFilter(sharedDomain.StoreAll)
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = storeFilter(sharedDomain.StoreFilial)
	assert.Equal(t, " AND store = ?", where)
	assert.Equal(t, []interface{}{"filial"}, args)
}

// TestProductivityRepo_ClickHouse necesita un ClickHouse real (CLICKHOUSE_ADDR).
func TestProductivityRepo_ClickHouse(t *testing.T) {
	addr := os.Getenv("CLICKHOUSE_ADDR")
	if addr == "" {
		t.Skip("CLICKHOUSE_ADDR no está configurada, saltando test de integración con ClickHouse")
	}
	ctx := context.Background()
	repo, err := NewProductivityRepo(addr, "default")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.InitSchema(ctx))

	// Rango en el futuro lejano para no mezclarse con otros datos
	base := time.Date(2090, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(time.Now().UnixNano()%1000) * 24 * time.Hour)
	matriz := sharedDomain.StoreMatriz
	require.NoError(t, repo.LogBatch(ctx, []domain.Entry{
		{UserID: "ana", Action: domain.ActionAdvertisementPublished, TargetID: "ad-1", Store: &matriz, OccurredAt: base.Add(time.Hour)},
		{UserID: "ana", Action: domain.ActionInsightResolved, TargetID: "in-1", Store: &matriz, OccurredAt: base.Add(2 * time.Hour)},
	}))

	trend, err := repo.DailyTrend(ctx, base, base.Add(24*time.Hour), sharedDomain.StoreMatriz)
	require.NoError(t, err)
	require.Len(t, trend, 1)
	assert.Equal(t, 2, trend[0].Total)
}
