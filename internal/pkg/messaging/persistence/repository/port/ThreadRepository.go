package repository

import (
	"context"

	chat "github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/domain"
)

// ThreadRecord is what the transactional thread creation hands back: the
// thread, its exactly-two participants, and the system message that announced
// it. SystemMessage is nil when the thread already existed.
type ThreadRecord struct {
	Thread        chat.Thread
	Participants  []chat.Participant
	SystemMessage *chat.Message
}

// ThreadRepository defines persistence operations for the messaging domain.
type ThreadRepository interface {
	// GetOrCreateThread returns the single thread for (postID, pair) and
	// reports whether this call created it. Creation is atomic: thread, both
	// participants and the announcement message commit together or not at all.
	// Concurrent calls for the same post and pair converge on one thread.
	GetOrCreateThread(ctx context.Context, postID, ownerID, requesterID, systemText string) (ThreadRecord, bool, error)

	// GetThread returns the thread or chat.ErrThreadNotFound.
	GetThread(ctx context.Context, threadID string) (chat.Thread, error)

	// ListParticipants returns the thread's participants.
	ListParticipants(ctx context.Context, threadID string) ([]chat.Participant, error)

	// FindParticipant resolves a user's membership in a thread.
	FindParticipant(ctx context.Context, threadID, userID string) (chat.Participant, bool, error)

	// SaveMessage persists the message, letting the store assign id and
	// timestamp, and returns the canonical record.
	SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error)

	// ListMessages returns the thread's messages ascending by creation time.
	ListMessages(ctx context.Context, threadID string, limit, offset int) ([]chat.Message, error)

	// LastMessage returns the most recent message of the thread, or nil when
	// the thread has none.
	LastMessage(ctx context.Context, threadID string) (*chat.Message, error)

	// ListThreadsByUser returns the user's threads, most recent activity first.
	ListThreadsByUser(ctx context.Context, userID string) ([]chat.Thread, error)
}
