package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"SimStruct/internal/notification"
	"SimStruct/internal/simulation"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// NotificationRepository stores owner notifications. Reads are always
// filtered by user_id.
type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Notify(ctx context.Context, n simulation.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, kind, title, message, related_id, related_type, action_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.New(), n.UserID, string(n.Kind), n.Title, n.Message, n.RelatedID, n.RelatedType, n.ActionURL)
	return err
}

const notificationColumns = `id, kind, title, message,
	COALESCE(related_id, '') AS related_id, COALESCE(related_type, '') AS related_type,
	COALESCE(action_url, '') AS action_url, is_read, created_at, read_at`

// List returns userID's notifications newest first. limit 0 means no limit.
func (r *NotificationRepository) List(ctx context.Context, userID, limit, offset int) ([]notification.Notification, error) {
	query := "SELECT " + notificationColumns + " FROM notifications WHERE user_id = $1 ORDER BY created_at DESC, id"
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT $2 OFFSET $3"
		args = append(args, limit, offset)
	} else if offset > 0 {
		query += " OFFSET $2"
		args = append(args, offset)
	}
	var out []notification.Notification
	err := r.db.SelectContext(ctx, &out, query, args...)
	return out, err
}

func (r *NotificationRepository) Unread(ctx context.Context, userID int) ([]notification.Notification, error) {
	var out []notification.Notification
	err := r.db.SelectContext(ctx, &out, "SELECT "+notificationColumns+`
		FROM notifications WHERE user_id = $1 AND NOT is_read
		ORDER BY created_at DESC, id`, userID)
	return out, err
}

func (r *NotificationRepository) Count(ctx context.Context, userID int) (notification.Counts, error) {
	var c notification.Counts
	err := r.db.GetContext(ctx, &c, `
		SELECT COUNT(*) FILTER (WHERE NOT is_read) AS unread_count, COUNT(*) AS total_count
		FROM notifications WHERE user_id = $1`, userID)
	return c, err
}

// MarkRead sets is_read on one notification. read_at keeps the first time.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string, userID int) (notification.Notification, error) {
	var n notification.Notification
	err := r.db.GetContext(ctx, &n, `
		UPDATE notifications SET is_read = TRUE, read_at = COALESCE(read_at, NOW())
		WHERE id = $1 AND user_id = $2
		RETURNING `+notificationColumns, id, userID)
	if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
		return n, notification.ErrNotFound
	}
	return n, err
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE, read_at = NOW()
		WHERE user_id = $1 AND NOT is_read`, userID)
	return rowCount(res, err)
}

func (r *NotificationRepository) Delete(ctx context.Context, id string, userID int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM notifications WHERE id = $1 AND user_id = $2", id, userID)
	if isInvalidText(err) {
		return notification.ErrNotFound
	}
	return affected(res, err, notification.ErrNotFound)
}

func (r *NotificationRepository) DeleteAll(ctx context.Context, userID int) (int, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM notifications WHERE user_id = $1", userID)
	return rowCount(res, err)
}

func rowCount(res sql.Result, err error) (int, error) {
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// likePattern escapes LIKE wildcards and wraps q for a substring match.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

// isInvalidText reports a postgres invalid_text_representation error.
func isInvalidText(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22P02"
}
