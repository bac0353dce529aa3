package usecase

import (
	"context"
	"fmt"

	notification "github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/domain"
	repository "github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/persistence/repository/port"
)

// ListNotificationsInput scopes the listing to one user, optionally to unread
// records only.
type ListNotificationsInput struct {
	UserID     string
	UnreadOnly bool
}

// ListNotificationsUseCase returns a user's notifications, newest first.
type ListNotificationsUseCase struct {
	Repo repository.NotificationRepository
}

func NewListNotificationsUseCase(repo repository.NotificationRepository) *ListNotificationsUseCase {
	return &ListNotificationsUseCase{Repo: repo}
}

func (uc *ListNotificationsUseCase) Execute(ctx context.Context, in ListNotificationsInput) ([]notification.Notification, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	out, err := uc.Repo.ListByUser(ctx, in.UserID, in.UnreadOnly)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return out, nil
}

// UnreadCountUseCase returns how many unread notifications a user has.
type UnreadCountUseCase struct {
	Repo repository.NotificationRepository
}

func NewUnreadCountUseCase(repo repository.NotificationRepository) *UnreadCountUseCase {
	return &UnreadCountUseCase{Repo: repo}
}

func (uc *UnreadCountUseCase) Execute(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("user id is required")
	}
	count, err := uc.Repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return count, nil
}
