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

// systemWelcomeText is the announcement synthesized into every new thread.
const systemWelcomeText = "Conversation started"

// GetOrCreateThreadInput identifies the subject post and who is asking.
type GetOrCreateThreadInput struct {
	PostID      string
	RequesterID string
}

// GetOrCreateThreadUseCase opens (or returns) the single conversation between
// a post's owner and a requester about that post. Creation persists the
// thread, both participants and the announcement message in one transaction,
// then notifies the owner and pushes a new_thread event to both participants'
// personal rooms.
type GetOrCreateThreadUseCase struct {
	Repo      repository.ThreadRepository
	Posts     dirport.PostDirectory
	Users     dirport.UserDirectory
	Publisher EventPublisher
	Notifier  Notifier
	Logger    *zap.Logger
}

func NewGetOrCreateThreadUseCase(
	repo repository.ThreadRepository,
	posts dirport.PostDirectory,
	users dirport.UserDirectory,
	publisher EventPublisher,
	notifier Notifier,
	logger *zap.Logger,
) *GetOrCreateThreadUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GetOrCreateThreadUseCase{
		Repo:      repo,
		Posts:     posts,
		Users:     users,
		Publisher: publisher,
		Notifier:  notifier,
		Logger:    logger,
	}
}

func (uc *GetOrCreateThreadUseCase) Execute(ctx context.Context, in GetOrCreateThreadInput) (*ThreadView, error) {
	if in.PostID == "" || in.RequesterID == "" {
		return nil, fmt.Errorf("post id and requester id are required")
	}

	post, err := uc.Posts.GetSummary(ctx, in.PostID)
	if err != nil {
		if err == dirport.ErrPostNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if post.OwnerID == in.RequesterID {
		return nil, chat.ErrSelfConversation
	}

	rec, created, err := uc.Repo.GetOrCreateThread(ctx, post.ID, post.OwnerID, in.RequesterID, systemWelcomeText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	participants := resolveParticipants(ctx, uc.Users, rec.Participants, uc.Logger)
	byParticipant := participantIndex(participants)

	var last *MessageView
	if rec.SystemMessage != nil {
		v := messageView(*rec.SystemMessage, byParticipant)
		last = &v
	} else if m, err := uc.Repo.LastMessage(ctx, rec.Thread.ID); err != nil {
		// The preview is decoration; the thread itself is already resolved.
		uc.Logger.Warn("failed to resolve last-message preview",
			zap.String("thread_id", rec.Thread.ID),
			zap.Error(err))
	} else if m != nil {
		v := messageView(*m, byParticipant)
		last = &v
	}

	view := &ThreadView{
		ID:           rec.Thread.ID,
		PostID:       rec.Thread.PostID,
		CreatedAt:    rec.Thread.CreatedAt,
		Participants: participants,
		Post:         post,
		LastMessage:  last,
	}

	if created {
		uc.announce(ctx, view, post, in.RequesterID, byParticipant)
	}

	return view, nil
}

// announce runs the side effects of a fresh thread: a durable new-thread
// notification for the owner and a live new_thread event to both personal
// rooms. Both are best-effort; failures never unwind the committed thread.
func (uc *GetOrCreateThreadUseCase) announce(ctx context.Context, view *ThreadView, post dirport.PostSummary, requesterID string, byParticipant map[string]ParticipantView) {
	requesterName := "Someone"
	for _, p := range view.Participants {
		if p.UserID == requesterID && p.Name != "" {
			requesterName = p.Name
		}
	}

	content := fmt.Sprintf("%s started a conversation about %q", requesterName, post.Title)
	meta := notification.Metadata{
		notification.MetaThreadID: view.ID,
		notification.MetaPostID:   post.ID,
	}
	if err := uc.Notifier.Dispatch(ctx, post.OwnerID, notification.TypeNewThread, content, meta); err != nil {
		uc.Logger.Warn("new-thread notification dispatch failed",
			zap.String("thread_id", view.ID),
			zap.String("owner_id", post.OwnerID),
			zap.Error(err))
	}

	for _, p := range view.Participants {
		uc.Publisher.PublishToUser(p.UserID, "new_thread", view)
	}
}
