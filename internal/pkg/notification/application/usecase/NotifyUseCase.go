package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	notification "github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/domain"
	repository "github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/persistence/repository/port"
)

// EventPublisher pushes an event to every live session of a user. Implemented
// by the realtime hub; delivery is fire-and-forget.
type EventPublisher interface {
	PublishToUser(userID string, event string, payload any) int
}

// NotifyInput carries the data to record and deliver one notification.
type NotifyInput struct {
	UserID   string
	Type     notification.Type
	Content  string
	Metadata notification.Metadata
}

// NotifyUseCase persists a notification and then pushes it to the target
// user's personal room. Persist-then-push is deliberate: the record stays
// queryable even when the user is offline or the push fails, so nothing is
// lost to a dead connection.
type NotifyUseCase struct {
	Repo      repository.NotificationRepository
	Publisher EventPublisher
	Logger    *zap.Logger
}

func NewNotifyUseCase(repo repository.NotificationRepository, publisher EventPublisher, logger *zap.Logger) *NotifyUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotifyUseCase{Repo: repo, Publisher: publisher, Logger: logger}
}

func (uc *NotifyUseCase) Execute(ctx context.Context, in NotifyInput) (notification.Notification, error) {
	if in.UserID == "" || in.Type == "" {
		return notification.Notification{}, fmt.Errorf("user id and type are required")
	}

	saved, err := uc.Repo.Save(ctx, notification.Notification{
		UserID:   in.UserID,
		Type:     in.Type,
		Content:  in.Content,
		Metadata: in.Metadata,
	})
	if err != nil {
		return notification.Notification{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Publisher != nil {
		delivered := uc.Publisher.PublishToUser(saved.UserID, "new_notification", saved)
		uc.Logger.Debug("notification pushed",
			zap.String("notification_id", saved.ID),
			zap.String("user_id", saved.UserID),
			zap.Int("sessions", delivered))
	}

	return saved, nil
}
