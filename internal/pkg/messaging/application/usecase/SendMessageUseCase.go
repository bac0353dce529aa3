package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	dirport "github.com/tacssuki/CMUFinds-sub000/internal/pkg/directory/port"
	chat "github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/domain"
	repository "github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/persistence/repository/port"
	notification "github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/domain"
)

// SendMessageInput carries the data needed to send a message. Text and
// ImageRef are both optional but at least one must be present.
type SendMessageInput struct {
	ThreadID     string
	SenderUserID string
	Text         *string
	ImageRef     *string
}

// SendMessageUseCase validates membership, persists the message with a
// server-assigned timestamp, fans it out to the thread room, and dispatches a
// new-message notification to the other participant. Persist always precedes
// broadcast, so a client reloading history never loses a message it already
// received live.
type SendMessageUseCase struct {
	Repo      repository.ThreadRepository
	Users     dirport.UserDirectory
	Publisher EventPublisher
	Notifier  Notifier
	Logger    *zap.Logger
}

func NewSendMessageUseCase(
	repo repository.ThreadRepository,
	users dirport.UserDirectory,
	publisher EventPublisher,
	notifier Notifier,
	logger *zap.Logger,
) *SendMessageUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SendMessageUseCase{Repo: repo, Users: users, Publisher: publisher, Notifier: notifier, Logger: logger}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*MessageView, error) {
	if in.ThreadID == "" || in.SenderUserID == "" {
		return nil, fmt.Errorf("thread id and sender id are required")
	}

	// Membership is re-checked on every send; a prior room join is never
	// trusted as authorization. A non-participant gets the same answer as a
	// missing thread.
	sender, ok, err := uc.Repo.FindParticipant(ctx, in.ThreadID, in.SenderUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return nil, chat.ErrThreadNotFound
	}

	msg, err := chat.NewMessage(in.ThreadID, sender.ID, in.Text, in.ImageRef)
	if err != nil {
		return nil, err
	}

	saved, err := uc.Repo.SaveMessage(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	participants, err := uc.Repo.ListParticipants(ctx, in.ThreadID)
	if err != nil {
		// The message is durable at this point; degrade to a bare fan-out.
		uc.Logger.Warn("failed to list participants after send",
			zap.String("thread_id", in.ThreadID),
			zap.Error(err))
		participants = []chat.Participant{sender}
	}

	views := resolveParticipants(ctx, uc.Users, participants, uc.Logger)
	byParticipant := participantIndex(views)
	view := messageView(saved, byParticipant)

	uc.Publisher.PublishToThread(in.ThreadID, "new_message", view)

	uc.notifyOthers(ctx, view, participants, byParticipant, sender)

	return &view, nil
}

// notifyOthers dispatches a new-message notification to every participant but
// the sender. Dispatch failures are logged, never surfaced: the send already
// succeeded.
func (uc *SendMessageUseCase) notifyOthers(ctx context.Context, view MessageView, participants []chat.Participant, byParticipant map[string]ParticipantView, sender chat.Participant) {
	senderName := "Someone"
	if v, ok := byParticipant[sender.ID]; ok && v.Name != "" {
		senderName = v.Name
	}

	content := fmt.Sprintf("New message from %s", senderName)
	meta := notification.Metadata{
		notification.MetaThreadID:  view.ThreadID,
		notification.MetaMessageID: view.ID,
	}

	for _, p := range participants {
		if p.ID == sender.ID {
			continue
		}
		if err := uc.Notifier.Dispatch(ctx, p.UserID, notification.TypeNewMessage, content, meta); err != nil {
			uc.Logger.Warn("new-message notification dispatch failed",
				zap.String("thread_id", view.ThreadID),
				zap.String("user_id", p.UserID),
				zap.Error(err))
		}
	}
}
