package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/UmudovRavan/taskflow/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

var notificationColumns = []string{
	"id", "recipient_id", "message", "task_id", "is_read", "created_at",
}

// NotificationRepository handles database operations for notifications.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create inserts a single notification through db, joining the caller's
// transaction when one is given.
func (r *NotificationRepository) Create(ctx context.Context, db DBTX, n *domain.Notification) error {
	query, args, err := psql.
		Insert("notifications").
		Columns("recipient_id", "message", "task_id").
		Values(n.RecipientID, n.Message, n.TaskID).
		Suffix("RETURNING id, is_read, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	err = db.QueryRow(ctx, query, args...).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

// CreateBatch inserts all notifications in one statement. Either every row
// persists or none do.
func (r *NotificationRepository) CreateBatch(ctx context.Context, db DBTX, ns []*domain.Notification) error {
	if len(ns) == 0 {
		return nil
	}

	qb := psql.
		Insert("notifications").
		Columns("recipient_id", "message", "task_id")
	for _, n := range ns {
		qb = qb.Values(n.RecipientID, n.Message, n.TaskID)
	}

	query, args, err := qb.
		Suffix("RETURNING id, recipient_id, is_read, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("create notifications: %w", err)
	}
	defer rows.Close()

	// RETURNING row order per VALUES clause is not guaranteed, so rows are
	// matched back to their notification by recipient.
	byRecipient := make(map[string][]*domain.Notification, len(ns))
	for _, n := range ns {
		byRecipient[n.RecipientID] = append(byRecipient[n.RecipientID], n)
	}

	for rows.Next() {
		var (
			id          string
			recipientID string
			isRead      bool
			createdAt   time.Time
		)
		if err := rows.Scan(&id, &recipientID, &isRead, &createdAt); err != nil {
			return fmt.Errorf("scan notification: %w", err)
		}

		queue := byRecipient[recipientID]
		if len(queue) == 0 {
			return fmt.Errorf("unexpected recipient %s in returned rows", recipientID)
		}
		n := queue[0]
		byRecipient[recipientID] = queue[1:]

		n.ID = id
		n.IsRead = isRead
		n.CreatedAt = createdAt
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}

	return nil
}

// ListByRecipient retrieves all notifications for a user, newest first.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Notification, error) {
	query, args, err := psql.
		Select(notificationColumns...).
		From("notifications").
		Where(sq.Eq{"recipient_id": recipientID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var ns []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.Message,
			&n.TaskID,
			&n.IsRead,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		ns = append(ns, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return ns, nil
}

// MarkRead flips the read flag on one notification.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID string) error {
	query, args, err := psql.
		Update("notifications").
		Set("is_read", true).
		Where(sq.Eq{"id": notificationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}

	return nil
}
