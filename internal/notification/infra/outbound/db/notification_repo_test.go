package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	infraDB "github.com/davicafu/autostock/internal/infra/db"
	"github.com/davicafu/autostock/internal/notification/domain"
	"github.com/davicafu/autostock/internal/notification/infra/outbound/notifier"
)

func TestNotificationRepoSQL_ListAndMarkRead(t *testing.T) {
	ctx := context.Background()
	conn, err := infraDB.OpenMemory(ctx)
	require.NoError(t, err)
	defer conn.Close()
	repo := NewNotificationRepoSQL(conn)

	older := domain.New("u-1", domain.SeverityInfo, "Old", "first")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := domain.New("u-1", domain.SeverityError, "New", "second")
	other := domain.New("u-2", domain.SeveritySuccess, "Other", "x")
	for _, n := range []domain.Notification{older, newer, other} {
		require.NoError(t, repo.Save(ctx, n))
	}

	list, err := repo.ListByUser(ctx, "u-1", false, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID, "newest first")
	assert.Equal(t, domain.SeverityError, list[0].Severity)

	require.NoError(t, repo.MarkRead(ctx, newer.ID, "u-1"))
	assert.ErrorIs(t, repo.MarkRead(ctx, other.ID, "u-1"), domain.ErrNotificationNotFound)

	unread, err := repo.ListByUser(ctx, "u-1", true, 10, 0)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, older.ID, unread[0].ID)
}

func TestStoreNotifier_SkipsSystemMessages(t *testing.T) {
	ctx := context.Background()
	conn, err := infraDB.OpenMemory(ctx)
	require.NoError(t, err)
	defer conn.Close()
	repo := NewNotificationRepoSQL(conn)

	n := notifier.Fanout{notifier.NewLogNotifier(zap.NewNop()), notifier.NewStoreNotifier(repo, zap.NewNop())}
	n.Notify(ctx, domain.New("", domain.SeverityInfo, "system", ""))
	n.Notify(ctx, domain.New("u-9", domain.SeveritySuccess, "Published", "ad-1"))

	list, err := repo.ListByUser(ctx, "u-9", false, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	system, err := repo.ListByUser(ctx, "", false, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, system)
}
