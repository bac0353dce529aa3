package usecase

import (
	"context"
	"fmt"

	notification "github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/domain"
	repository "github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/persistence/repository/port"
)

// MarkReadUseCase flags a single notification read, scoped to its owner.
// A notification owned by someone else reports notification.ErrNotFound, the
// same as one that does not exist.
type MarkReadUseCase struct {
	Repo repository.NotificationRepository
}

func NewMarkReadUseCase(repo repository.NotificationRepository) *MarkReadUseCase {
	return &MarkReadUseCase{Repo: repo}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, userID, notificationID string) error {
	if userID == "" || notificationID == "" {
		return fmt.Errorf("user id and notification id are required")
	}
	ok, err := uc.Repo.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return notification.ErrNotFound
	}
	return nil
}

// MarkAllReadUseCase flags every unread notification of the user read.
type MarkAllReadUseCase struct {
	Repo repository.NotificationRepository
}

func NewMarkAllReadUseCase(repo repository.NotificationRepository) *MarkAllReadUseCase {
	return &MarkAllReadUseCase{Repo: repo}
}

func (uc *MarkAllReadUseCase) Execute(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("user id is required")
	}
	updated, err := uc.Repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return updated, nil
}

// DeleteNotificationUseCase removes one notification, scoped to its owner.
type DeleteNotificationUseCase struct {
	Repo repository.NotificationRepository
}

func NewDeleteNotificationUseCase(repo repository.NotificationRepository) *DeleteNotificationUseCase {
	return &DeleteNotificationUseCase{Repo: repo}
}

func (uc *DeleteNotificationUseCase) Execute(ctx context.Context, userID, notificationID string) error {
	if userID == "" || notificationID == "" {
		return fmt.Errorf("user id and notification id are required")
	}
	ok, err := uc.Repo.Delete(ctx, userID, notificationID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return notification.ErrNotFound
	}
	return nil
}
