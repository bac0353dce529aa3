package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/directory/port"
)

// PgUserDirectory reads user display data from the shared users table.
type PgUserDirectory struct {
	pool *pgxpool.Pool
}

func NewPgUserDirectory(pool *pgxpool.Pool) *PgUserDirectory {
	return &PgUserDirectory{pool: pool}
}

var _ port.UserDirectory = (*PgUserDirectory)(nil)

func (d *PgUserDirectory) GetProfile(ctx context.Context, userID string) (port.UserProfile, error) {
	if d == nil || d.pool == nil {
		return port.UserProfile{}, errors.New("PgUserDirectory: nil pool")
	}
	var p port.UserProfile
	err := d.pool.QueryRow(ctx, `
		SELECT id::text, name, avatar_url
		FROM users
		WHERE id = $1::uuid
	`, userID).Scan(&p.ID, &p.Name, &p.AvatarURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return port.UserProfile{}, port.ErrUserNotFound
	}
	if err != nil {
		return port.UserProfile{}, err
	}
	return p, nil
}

// PgPostDirectory reads subject-post summaries from the shared posts table.
// The first photo of the post, when present, becomes the thread thumbnail.
type PgPostDirectory struct {
	pool *pgxpool.Pool
}

func NewPgPostDirectory(pool *pgxpool.Pool) *PgPostDirectory {
	return &PgPostDirectory{pool: pool}
}

var _ port.PostDirectory = (*PgPostDirectory)(nil)

func (d *PgPostDirectory) GetSummary(ctx context.Context, postID string) (port.PostSummary, error) {
	if d == nil || d.pool == nil {
		return port.PostSummary{}, errors.New("PgPostDirectory: nil pool")
	}
	var s port.PostSummary
	err := d.pool.QueryRow(ctx, `
		SELECT p.id::text, p.title, p.user_id::text,
		       (SELECT ph.url FROM post_photos ph
		        WHERE ph.post_id = p.id
		        ORDER BY ph.position ASC LIMIT 1)
		FROM posts p
		WHERE p.id = $1::uuid
	`, postID).Scan(&s.ID, &s.Title, &s.OwnerID, &s.FirstImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return port.PostSummary{}, port.ErrPostNotFound
	}
	if err != nil {
		return port.PostSummary{}, err
	}
	return s, nil
}
