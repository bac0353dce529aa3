package chat

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyMessage rejects a non-system message carrying neither text nor an
// image reference.
var ErrEmptyMessage = errors.New("chat: message must contain text or an image")

// Message is an append-only log entry in a thread. SenderParticipantID is nil
// for system-generated messages.
type Message struct {
	ID                  string    `db:"id"`
	ThreadID            string    `db:"thread_id"`
	SenderParticipantID *string   `db:"sender_participant_id"`
	Text                *string   `db:"text"`
	ImageRef            *string   `db:"image_ref"`
	IsSystem            bool      `db:"is_system"`
	CreatedAt           time.Time `db:"created_at"`
}

// NewMessage validates and shapes a user-authored message. Whitespace-only
// text counts as absent; the result still needs persistence to receive its id
// and server-assigned timestamp.
func NewMessage(threadID string, senderParticipantID string, text *string, imageRef *string) (Message, error) {
	if threadID == "" || senderParticipantID == "" {
		return Message{}, errors.New("chat: thread id and sender participant id are required")
	}

	if text != nil {
		trimmed := strings.TrimSpace(*text)
		if trimmed == "" {
			text = nil
		} else {
			text = &trimmed
		}
	}

	if text == nil && imageRef == nil {
		return Message{}, ErrEmptyMessage
	}

	sender := senderParticipantID
	return Message{
		ThreadID:            threadID,
		SenderParticipantID: &sender,
		Text:                text,
		ImageRef:            imageRef,
	}, nil
}

// NewSystemMessage shapes the announcement message synthesized when a thread
// is created.
func NewSystemMessage(threadID string, text string) Message {
	body := text
	return Message{
		ThreadID: threadID,
		Text:     &body,
		IsSystem: true,
	}
}
