package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loanworks/loan-service/internal/domain"
)

// NotificationRepository encapsulates notification persistence.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	// ListRecent returns the newest notifications first.
	ListRecent(ctx context.Context, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

const notificationColumns = `id, user_id, type, message, is_read, created_at`

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository instantiates repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	const query = `
        INSERT INTO notifications (user_id, type, message, is_read)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		n.UserID,
		n.Type,
		n.Message,
		n.Read,
	).Scan(&n.ID, &n.CreatedAt)
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, err := scanNotifications(rows)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &items[0], nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func (r *notificationRepository) ListRecent(ctx context.Context, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE notifications SET is_read=TRUE WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id=$1`, id)
	return err
}

func scanNotifications(rows pgx.Rows) ([]domain.Notification, error) {
	var result []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Type,
			&n.Message,
			&n.Read,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}
