package notification

import (
	"errors"
	"time"
)

// Type enumerates the notification kinds the platform emits.
type Type string

const (
	TypeNewThread  Type = "NEW_THREAD"
	TypeNewMessage Type = "NEW_MESSAGE"
	TypeMatch      Type = "MATCH"
	TypeResolve    Type = "RESOLVE"
)

// ErrNotFound covers both a genuinely absent notification and one owned by a
// different user, so ownership is never leaked through error shapes.
var ErrNotFound = errors.New("notification: not found")

// Metadata carries optional structured references alongside a notification.
type Metadata map[string]string

// Well-known metadata keys.
const (
	MetaThreadID  = "threadId"
	MetaPostID    = "postId"
	MetaMessageID = "messageId"
)

// Notification is a durable per-user record. It is mutated only by its owner
// (mark read, delete); delivery to live connections is best-effort on top.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      Type      `json:"type"`
	Content   string    `json:"content"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}
