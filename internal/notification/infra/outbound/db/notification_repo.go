package db

import (
	"context"
	"fmt"

	infraDB "github.com/davicafu/autostock/internal/infra/db"
	"github.com/davicafu/autostock/internal/notification/domain"
	sharedQuery "github.com/davicafu/autostock/shared/platform/query"
)

type NotificationRepoSQL struct {
	db *infraDB.DB
}

func NewNotificationRepoSQL(db *infraDB.DB) *NotificationRepoSQL {
	return &NotificationRepoSQL{db: db}
}

var _ domain.Repository = (*NotificationRepoSQL)(nil)

func (r *NotificationRepoSQL) Save(ctx context.Context, n domain.Notification) error {
	_, err := r.db.ExecIn(ctx, r.db,
		`INSERT INTO notifications (id, user_id, severity, title, message, read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, string(n.Severity), n.Title, n.Message, n.Read, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *NotificationRepoSQL) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	page := sharedQuery.OffsetPagination{Limit: limit, Offset: offset}.Normalize()

	query := `SELECT id, user_id, severity, title, message, read, created_at FROM notifications WHERE user_id = ?`
	args := []interface{}{userID}
	if unreadOnly {
		query += ` AND read = ?`
		args = append(args, false)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, page.Limit, page.Offset)

	rows, err := r.db.QueryIn(ctx, r.db, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Severity, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepoSQL) MarkRead(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecIn(ctx, r.db, `UPDATE notifications SET read = ? WHERE id = ? AND user_id = ?`, true, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}
