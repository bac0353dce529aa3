package adapter

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/domain"
	repository "github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/persistence/repository/port"
)

// PgThreadRepository persists threads, participants and messages with pgx.
//
// Expected schema:
//
//	threads(id uuid pk, post_id uuid, pair_key text, created_at timestamptz,
//	        unique (post_id, pair_key))
//	participants(id uuid pk, thread_id uuid, user_id uuid,
//	        unique (thread_id, user_id))
//	messages(id uuid pk, thread_id uuid, sender_participant_id uuid null,
//	        text text null, image_ref text null, is_system bool,
//	        created_at timestamptz default now())
type PgThreadRepository struct {
	pool *pgxpool.Pool
}

func NewPgThreadRepository(pool *pgxpool.Pool) *PgThreadRepository {
	return &PgThreadRepository{pool: pool}
}

var _ repository.ThreadRepository = (*PgThreadRepository)(nil)

func (r *PgThreadRepository) GetOrCreateThread(ctx context.Context, postID, ownerID, requesterID, systemText string) (repository.ThreadRecord, bool, error) {
	if r == nil || r.pool == nil {
		return repository.ThreadRecord{}, false, errors.New("PgThreadRepository: nil pool")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return repository.ThreadRecord{}, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	pair := chat.PairKey(ownerID, requesterID)
	threadID := uuid.NewString()

	// The unique index on (post_id, pair_key) is what serializes concurrent
	// get-or-create calls for the same post and pair.
	tag, err := tx.Exec(ctx, `
		INSERT INTO threads (id, post_id, pair_key, created_at)
		VALUES ($1::uuid, $2::uuid, $3, now())
		ON CONFLICT (post_id, pair_key) DO NOTHING
	`, threadID, postID, pair)
	if err != nil {
		return repository.ThreadRecord{}, false, err
	}

	if tag.RowsAffected() == 0 {
		// Lost the race or the thread predates this call: hand back the
		// existing one untouched.
		var t chat.Thread
		err := tx.QueryRow(ctx, `
			SELECT id::text, post_id::text, created_at
			FROM threads
			WHERE post_id = $1::uuid AND pair_key = $2
		`, postID, pair).Scan(&t.ID, &t.PostID, &t.CreatedAt)
		if err != nil {
			return repository.ThreadRecord{}, false, err
		}
		participants, err := listParticipants(ctx, tx, t.ID)
		if err != nil {
			return repository.ThreadRecord{}, false, err
		}
		if err := tx.Commit(ctx); err != nil {
			return repository.ThreadRecord{}, false, err
		}
		return repository.ThreadRecord{Thread: t, Participants: participants}, false, nil
	}

	var t chat.Thread
	err = tx.QueryRow(ctx, `
		SELECT id::text, post_id::text, created_at FROM threads WHERE id = $1::uuid
	`, threadID).Scan(&t.ID, &t.PostID, &t.CreatedAt)
	if err != nil {
		return repository.ThreadRecord{}, false, err
	}

	participants := make([]chat.Participant, 0, 2)
	for _, userID := range []string{ownerID, requesterID} {
		p := chat.Participant{ID: uuid.NewString(), ThreadID: threadID, UserID: userID}
		_, err := tx.Exec(ctx, `
			INSERT INTO participants (id, thread_id, user_id)
			VALUES ($1::uuid, $2::uuid, $3::uuid)
		`, p.ID, p.ThreadID, p.UserID)
		if err != nil {
			return repository.ThreadRecord{}, false, err
		}
		participants = append(participants, p)
	}

	sys := chat.NewSystemMessage(threadID, systemText)
	sys.ID = uuid.NewString()
	err = tx.QueryRow(ctx, `
		INSERT INTO messages (id, thread_id, sender_participant_id, text, image_ref, is_system, created_at)
		VALUES ($1::uuid, $2::uuid, NULL, $3, NULL, TRUE, now())
		RETURNING created_at
	`, sys.ID, sys.ThreadID, sys.Text).Scan(&sys.CreatedAt)
	if err != nil {
		return repository.ThreadRecord{}, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return repository.ThreadRecord{}, false, err
	}
	return repository.ThreadRecord{Thread: t, Participants: participants, SystemMessage: &sys}, true, nil
}

func (r *PgThreadRepository) GetThread(ctx context.Context, threadID string) (chat.Thread, error) {
	if r == nil || r.pool == nil {
		return chat.Thread{}, errors.New("PgThreadRepository: nil pool")
	}
	var t chat.Thread
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, post_id::text, created_at FROM threads WHERE id = $1::uuid
	`, threadID).Scan(&t.ID, &t.PostID, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return chat.Thread{}, chat.ErrThreadNotFound
	}
	if err != nil {
		return chat.Thread{}, err
	}
	return t, nil
}

func (r *PgThreadRepository) ListParticipants(ctx context.Context, threadID string) ([]chat.Participant, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgThreadRepository: nil pool")
	}
	return listParticipants(ctx, r.pool, threadID)
}

func (r *PgThreadRepository) FindParticipant(ctx context.Context, threadID, userID string) (chat.Participant, bool, error) {
	if r == nil || r.pool == nil {
		return chat.Participant{}, false, errors.New("PgThreadRepository: nil pool")
	}
	var p chat.Participant
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, thread_id::text, user_id::text
		FROM participants
		WHERE thread_id = $1::uuid AND user_id = $2::uuid
	`, threadID, userID).Scan(&p.ID, &p.ThreadID, &p.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return chat.Participant{}, false, nil
	}
	if err != nil {
		return chat.Participant{}, false, err
	}
	return p, true, nil
}

func (r *PgThreadRepository) SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	if r == nil || r.pool == nil {
		return chat.Message{}, errors.New("PgThreadRepository: nil pool")
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	// now() keeps the ordering timestamp server-assigned.
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messages (id, thread_id, sender_participant_id, text, image_ref, is_system, created_at)
		VALUES ($1::uuid, $2::uuid, $3::uuid, $4, $5, $6, now())
		RETURNING created_at
	`, m.ID, m.ThreadID, m.SenderParticipantID, m.Text, m.ImageRef, m.IsSystem).Scan(&m.CreatedAt)
	if err != nil {
		return chat.Message{}, err
	}
	return m, nil
}

func (r *PgThreadRepository) ListMessages(ctx context.Context, threadID string, limit, offset int) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgThreadRepository: nil pool")
	}
	if limit <= 0 {
		limit = 30
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, thread_id::text, sender_participant_id::text, text, image_ref, is_system, created_at
		FROM messages
		WHERE thread_id = $1::uuid
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`, threadID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderParticipantID, &m.Text, &m.ImageRef, &m.IsSystem, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}

func (r *PgThreadRepository) LastMessage(ctx context.Context, threadID string) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgThreadRepository: nil pool")
	}
	var m chat.Message
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, thread_id::text, sender_participant_id::text, text, image_ref, is_system, created_at
		FROM messages
		WHERE thread_id = $1::uuid
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, threadID).Scan(&m.ID, &m.ThreadID, &m.SenderParticipantID, &m.Text, &m.ImageRef, &m.IsSystem, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgThreadRepository) ListThreadsByUser(ctx context.Context, userID string) ([]chat.Thread, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgThreadRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT t.id::text, t.post_id::text, t.created_at
		FROM threads t
		JOIN participants p ON p.thread_id = t.id
		WHERE p.user_id = $1::uuid
		ORDER BY COALESCE(
			(SELECT max(m.created_at) FROM messages m WHERE m.thread_id = t.id),
			t.created_at
		) DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []chat.Thread
	for rows.Next() {
		var t chat.Thread
		if err := rows.Scan(&t.ID, &t.PostID, &t.CreatedAt); err != nil {
			return nil, err
		}
		threads = append(threads, t)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return threads, nil
}

// querier lets the participant scan run against either the pool or an open tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func listParticipants(ctx context.Context, q querier, threadID string) ([]chat.Participant, error) {
	rows, err := q.Query(ctx, `
		SELECT id::text, thread_id::text, user_id::text
		FROM participants
		WHERE thread_id = $1::uuid
		ORDER BY id ASC
	`, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []chat.Participant
	for rows.Next() {
		var p chat.Participant
		if err := rows.Scan(&p.ID, &p.ThreadID, &p.UserID); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return participants, nil
}
