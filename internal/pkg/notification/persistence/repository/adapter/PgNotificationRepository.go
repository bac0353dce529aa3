package adapter

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	notification "github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/domain"
	repository "github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/persistence/repository/port"
)

// PgNotificationRepository persists notifications with pgx. Metadata is stored
// as jsonb.
//
// Expected schema:
//
//	notifications(id uuid pk, user_id uuid, type text, content text,
//	        metadata jsonb null, is_read bool default false,
//	        created_at timestamptz default now())
type PgNotificationRepository struct {
	pool *pgxpool.Pool
}

func NewPgNotificationRepository(pool *pgxpool.Pool) *PgNotificationRepository {
	return &PgNotificationRepository{pool: pool}
}

var _ repository.NotificationRepository = (*PgNotificationRepository)(nil)

func (r *PgNotificationRepository) Save(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	if r == nil || r.pool == nil {
		return notification.Notification{}, errors.New("PgNotificationRepository: nil pool")
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	var meta *string
	if len(n.Metadata) > 0 {
		raw, err := json.Marshal(n.Metadata)
		if err != nil {
			return notification.Notification{}, err
		}
		s := string(raw)
		meta = &s
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (id, user_id, type, content, metadata, is_read, created_at)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5::jsonb, FALSE, now())
		RETURNING created_at
	`, n.ID, n.UserID, string(n.Type), n.Content, meta).Scan(&n.CreatedAt)
	if err != nil {
		return notification.Notification{}, err
	}
	n.IsRead = false
	return n, nil
}

func (r *PgNotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]notification.Notification, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgNotificationRepository: nil pool")
	}
	query := `
		SELECT id::text, user_id::text, type, content, metadata, is_read, created_at
		FROM notifications
		WHERE user_id = $1::uuid`
	if unreadOnly {
		query += ` AND is_read = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []notification.Notification
	for rows.Next() {
		var (
			n    notification.Notification
			typ  string
			meta *string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Content, &meta, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Type = notification.Type(typ)
		if meta != nil {
			if err := json.Unmarshal([]byte(*meta), &n.Metadata); err != nil {
				return nil, err
			}
		}
		out = append(out, n)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *PgNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgNotificationRepository: nil pool")
	}
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM notifications
		WHERE user_id = $1::uuid AND is_read = FALSE
	`, userID).Scan(&count)
	return count, err
}

func (r *PgNotificationRepository) MarkRead(ctx context.Context, userID, notificationID string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgNotificationRepository: nil pool")
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE id = $1::uuid AND user_id = $2::uuid
	`, notificationID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgNotificationRepository: nil pool")
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE user_id = $1::uuid AND is_read = FALSE
	`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgNotificationRepository) Delete(ctx context.Context, userID, notificationID string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgNotificationRepository: nil pool")
	}
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM notifications
		WHERE id = $1::uuid AND user_id = $2::uuid
	`, notificationID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
