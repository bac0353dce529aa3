package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	dirport "github.com/tacssuki/CMUFinds-sub000/internal/pkg/directory/port"
	chat "github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/domain"
	notification "github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/domain"
)

// EventPublisher fans events out to live connections. Implemented by the
// realtime hub; delivery is fire-and-forget and must never block the caller.
type EventPublisher interface {
	PublishToThread(threadID string, event string, payload any) int
	PublishToUser(userID string, event string, payload any) int
}

// Notifier hands a notification to the fan-out pipeline (queue-backed in
// production). Callers treat failures as best-effort: log, never surface.
type Notifier interface {
	Dispatch(ctx context.Context, userID string, typ notification.Type, content string, meta notification.Metadata) error
}

// ParticipantView is a thread membership with its resolved display data.
type ParticipantView struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// MessageView is the canonical message shape returned from send, listed from
// history and broadcast to thread rooms. Send and broadcast use the identical
// shape so clients can reconcile optimistic placeholders by id.
type MessageView struct {
	ID                  string           `json:"id"`
	ThreadID            string           `json:"threadId"`
	SenderParticipantID *string          `json:"senderParticipantId,omitempty"`
	Text                *string          `json:"text,omitempty"`
	ImageRef            *string          `json:"imageRef,omitempty"`
	IsSystem            bool             `json:"isSystem"`
	CreatedAt           time.Time        `json:"createdAt"`
	Sender              *ParticipantView `json:"sender,omitempty"`
}

// ThreadView is a thread with its resolved participants, subject post summary
// and most recent message. Computed at lookup time, never stored.
type ThreadView struct {
	ID           string              `json:"id"`
	PostID       string              `json:"postId"`
	CreatedAt    time.Time           `json:"createdAt"`
	Participants []ParticipantView   `json:"participants"`
	Post         dirport.PostSummary `json:"post"`
	LastMessage  *MessageView        `json:"lastMessage,omitempty"`
}

// resolveParticipants attaches display profiles to memberships. A failed
// profile lookup degrades to an id-only view rather than failing the whole
// operation; display data is decoration, not authorization.
func resolveParticipants(ctx context.Context, users dirport.UserDirectory, participants []chat.Participant, logger *zap.Logger) []ParticipantView {
	views := make([]ParticipantView, 0, len(participants))
	for _, p := range participants {
		view := ParticipantView{ID: p.ID, UserID: p.UserID}
		if profile, err := users.GetProfile(ctx, p.UserID); err == nil {
			view.Name = profile.Name
			view.AvatarURL = profile.AvatarURL
		} else {
			logger.Warn("failed to resolve participant profile",
				zap.String("user_id", p.UserID),
				zap.Error(err))
		}
		views = append(views, view)
	}
	return views
}

// messageView shapes a persisted message, attaching the sender view when the
// message is user-authored and the membership is known.
func messageView(m chat.Message, byParticipant map[string]ParticipantView) MessageView {
	view := MessageView{
		ID:                  m.ID,
		ThreadID:            m.ThreadID,
		SenderParticipantID: m.SenderParticipantID,
		Text:                m.Text,
		ImageRef:            m.ImageRef,
		IsSystem:            m.IsSystem,
		CreatedAt:           m.CreatedAt,
	}
	if m.SenderParticipantID != nil {
		if sender, ok := byParticipant[*m.SenderParticipantID]; ok {
			view.Sender = &sender
		}
	}
	return view
}

func participantIndex(views []ParticipantView) map[string]ParticipantView {
	idx := make(map[string]ParticipantView, len(views))
	for _, v := range views {
		idx[v.ID] = v
	}
	return idx
}
