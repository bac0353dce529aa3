package repository

import (
	"context"

	notification "github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/domain"
)

// NotificationRepository defines persistence operations for notifications.
// All mutating operations are scoped to the owning user; acting on another
// user's notification reports false / zero, never a distinct forbidden signal.
type NotificationRepository interface {
	// Save persists the notification and returns the canonical record with
	// its id and timestamp assigned.
	Save(ctx context.Context, n notification.Notification) (notification.Notification, error)

	// ListByUser returns the user's notifications, newest first.
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]notification.Notification, error)

	// CountUnread returns the user's unread notification count.
	CountUnread(ctx context.Context, userID string) (int, error)

	// MarkRead flags one notification read; false when the user owns no such
	// notification.
	MarkRead(ctx context.Context, userID, notificationID string) (bool, error)

	// MarkAllRead flags all of the user's notifications read and returns how
	// many changed.
	MarkAllRead(ctx context.Context, userID string) (int64, error)

	// Delete removes one notification; false when the user owns no such
	// notification.
	Delete(ctx context.Context, userID, notificationID string) (bool, error)
}
