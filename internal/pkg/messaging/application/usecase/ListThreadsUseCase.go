package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	dirport "github.com/tacssuki/CMUFinds-sub000/internal/pkg/directory/port"
	repository "github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/persistence/repository/port"
)

// ListThreadsUseCase returns a user's conversations, most recent activity
// first, each with participants, subject post summary and last-message
// preview so the conversation list renders in one round trip.
type ListThreadsUseCase struct {
	Repo   repository.ThreadRepository
	Posts  dirport.PostDirectory
	Users  dirport.UserDirectory
	Logger *zap.Logger
}

func NewListThreadsUseCase(repo repository.ThreadRepository, posts dirport.PostDirectory, users dirport.UserDirectory, logger *zap.Logger) *ListThreadsUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListThreadsUseCase{Repo: repo, Posts: posts, Users: users, Logger: logger}
}

func (uc *ListThreadsUseCase) Execute(ctx context.Context, userID string) ([]ThreadView, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	threads, err := uc.Repo.ListThreadsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	views := make([]ThreadView, 0, len(threads))
	for _, t := range threads {
		participants, err := uc.Repo.ListParticipants(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		resolved := resolveParticipants(ctx, uc.Users, participants, uc.Logger)
		byParticipant := participantIndex(resolved)

		view := ThreadView{
			ID:           t.ID,
			PostID:       t.PostID,
			CreatedAt:    t.CreatedAt,
			Participants: resolved,
		}

		if post, err := uc.Posts.GetSummary(ctx, t.PostID); err == nil {
			view.Post = post
		} else {
			// A missing post summary degrades the preview, not the listing.
			view.Post = dirport.PostSummary{ID: t.PostID}
			uc.Logger.Warn("failed to resolve post summary",
				zap.String("thread_id", t.ID),
				zap.String("post_id", t.PostID),
				zap.Error(err))
		}

		if m, err := uc.Repo.LastMessage(ctx, t.ID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		} else if m != nil {
			v := messageView(*m, byParticipant)
			view.LastMessage = &v
		}

		views = append(views, view)
	}
	return views, nil
}
