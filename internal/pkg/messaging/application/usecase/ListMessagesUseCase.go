package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	dirport "github.com/tacssuki/CMUFinds-sub000/internal/pkg/directory/port"
	chat "github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/domain"
	repository "github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/persistence/repository/port"
)

const (
	defaultPageSize = 30
	maxPageSize     = 100
)

// ListMessagesInput pages through a thread's history. Page starts at 1.
type ListMessagesInput struct {
	ThreadID         string
	RequestingUserID string
	Page             int
	Limit            int
}

// ListMessagesUseCase returns a thread's messages ascending by creation time,
// behind the same membership gate as sending.
type ListMessagesUseCase struct {
	Repo   repository.ThreadRepository
	Users  dirport.UserDirectory
	Logger *zap.Logger
}

func NewListMessagesUseCase(repo repository.ThreadRepository, users dirport.UserDirectory, logger *zap.Logger) *ListMessagesUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListMessagesUseCase{Repo: repo, Users: users, Logger: logger}
}

func (uc *ListMessagesUseCase) Execute(ctx context.Context, in ListMessagesInput) ([]MessageView, error) {
	if in.ThreadID == "" || in.RequestingUserID == "" {
		return nil, fmt.Errorf("thread id and requesting user id are required")
	}

	_, ok, err := uc.Repo.FindParticipant(ctx, in.ThreadID, in.RequestingUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return nil, chat.ErrThreadNotFound
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	msgs, err := uc.Repo.ListMessages(ctx, in.ThreadID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	participants, err := uc.Repo.ListParticipants(ctx, in.ThreadID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	byParticipant := participantIndex(resolveParticipants(ctx, uc.Users, participants, uc.Logger))

	views := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, messageView(m, byParticipant))
	}
	return views, nil
}
