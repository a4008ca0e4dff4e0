package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	infraDB "github.com/davicafu/autostock/internal/infra/db"
	"github.com/davicafu/autostock/internal/productivity/domain"
	productivityDB "github.com/davicafu/autostock/internal/productivity/infra/outbound/db"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
)

func TestDailyTrend_FillsEveryDay(t *testing.T) {
	ctx := context.Background()
	conn, err := infraDB.OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	repo := productivityDB.NewProductivityRepoSQL(conn)
	service := NewProductivityService(repo, zap.NewNop())

	day := func(d, h int) time.Time { return time.Date(2024, 6, d, h, 0, 0, 0, time.UTC) }
	require.NoError(t, repo.LogBatch(ctx, []domain.Entry{
		{UserID: "ana", Action: domain.ActionInsightResolved, TargetID: "in-1", OccurredAt: day(3, 10)},
		{UserID: "ana", Action: domain.ActionInsightResolved, TargetID: "in-2", OccurredAt: day(3, 11)},
	}))

	trend, err := service.DailyTrend(ctx, day(1, 8), day(5, 0), sharedDomain.StoreAll)
	require.NoError(t, err)
	require.Len(t, trend, 4)
	assert.Equal(t, day(1, 0), trend[0].Day)
	assert.Equal(t, 0, trend[0].Total)
	assert.Equal(t, 2, trend[2].InsightsResolved)

	_, err = service.DailyTrend(ctx, day(5, 0), day(1, 0), sharedDomain.StoreAll)
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	users, err := service.ByUser(ctx, day(1, 0), day(5, 0), sharedDomain.StoreAll)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 2, users[0].InsightsResolved)
}
