package chat

import (
	"errors"
	"strings"
	"time"
)

// Domain-level errors for thread behaviors.
var (
	// ErrThreadNotFound covers both a genuinely absent thread and a thread the
	// caller is not a participant of. Collapsing the two prevents existence
	// leakage of other users' conversations.
	ErrThreadNotFound = errors.New("chat: thread not found")

	ErrSelfConversation = errors.New("chat: cannot open a conversation with yourself")
)

// Thread is a conversation anchored to exactly one subject post. It is
// immutable once created: the subject never changes and the two participants
// are fixed at creation time.
type Thread struct {
	ID        string    `db:"id"`
	PostID    string    `db:"post_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Participant is a user's membership record within one thread. Messages
// reference the participant id, not the raw user id, so sender resolution is
// a single join away from thread membership.
type Participant struct {
	ID       string `db:"id"`
	ThreadID string `db:"thread_id"`
	UserID   string `db:"user_id"`
}

// PairKey derives the order-independent key for a participant pair. The
// storage layer holds a uniqueness constraint on (post, pair key), which is
// what makes concurrent get-or-create calls converge on a single thread.
func PairKey(userA, userB string) string {
	if strings.Compare(userA, userB) > 0 {
		userA, userB = userB, userA
	}
	return userA + ":" + userB
}
