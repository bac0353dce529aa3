package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notification "github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/domain"
)

func seedNotifications(t *testing.T, repo *fakeNotificationRepo, userID string, count int) []notification.Notification {
	t.Helper()
	out := make([]notification.Notification, 0, count)
	for i := 0; i < count; i++ {
		saved, err := repo.Save(context.Background(), notification.Notification{
			UserID:  userID,
			Type:    notification.TypeNewMessage,
			Content: "New message",
		})
		require.NoError(t, err)
		out = append(out, saved)
	}
	return out
}

func TestMarkRead_OwnerOnly(t *testing.T) {
	repo := newFakeNotificationRepo()
	mine := seedNotifications(t, repo, "alice", 1)[0]

	uc := NewMarkReadUseCase(repo)

	require.NoError(t, uc.Execute(context.Background(), "alice", mine.ID))
	count, _ := repo.CountUnread(context.Background(), "alice")
	assert.Equal(t, 0, count)

	// Another user acting on the same id sees not-found, not forbidden.
	err := uc.Execute(context.Background(), "bob", mine.ID)
	assert.ErrorIs(t, err, notification.ErrNotFound)
}

func TestMarkRead_UnknownID(t *testing.T) {
	repo := newFakeNotificationRepo()
	uc := NewMarkReadUseCase(repo)
	err := uc.Execute(context.Background(), "alice", "missing")
	assert.ErrorIs(t, err, notification.ErrNotFound)
}

func TestMarkAllRead(t *testing.T) {
	repo := newFakeNotificationRepo()
	seedNotifications(t, repo, "alice", 3)
	seedNotifications(t, repo, "bob", 2)

	uc := NewMarkAllReadUseCase(repo)
	updated, err := uc.Execute(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	bobCount, _ := repo.CountUnread(context.Background(), "bob")
	assert.Equal(t, 2, bobCount, "other users' notifications stay untouched")
}

func TestDeleteNotification_OwnerOnly(t *testing.T) {
	repo := newFakeNotificationRepo()
	mine := seedNotifications(t, repo, "alice", 2)

	uc := NewDeleteNotificationUseCase(repo)

	err := uc.Execute(context.Background(), "bob", mine[0].ID)
	assert.ErrorIs(t, err, notification.ErrNotFound)

	require.NoError(t, uc.Execute(context.Background(), "alice", mine[0].ID))
	left, _ := repo.ListByUser(context.Background(), "alice", false)
	assert.Len(t, left, 1)
}

func TestListNotifications_UnreadFilter(t *testing.T) {
	repo := newFakeNotificationRepo()
	seeded := seedNotifications(t, repo, "alice", 3)
	_, err := repo.MarkRead(context.Background(), "alice", seeded[0].ID)
	require.NoError(t, err)

	list := NewListNotificationsUseCase(repo)

	all, err := list.Execute(context.Background(), ListNotificationsInput{UserID: "alice"})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	unread, err := list.Execute(context.Background(), ListNotificationsInput{UserID: "alice", UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	count, err := NewUnreadCountUseCase(repo).Execute(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
