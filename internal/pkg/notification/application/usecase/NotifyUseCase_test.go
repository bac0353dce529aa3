package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notification "github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/domain"
)

// fakeNotificationRepo is an in-memory NotificationRepository.
type fakeNotificationRepo struct {
	byUser  map[string][]notification.Notification
	saveErr error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{byUser: make(map[string][]notification.Notification)}
}

func (f *fakeNotificationRepo) Save(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	if f.saveErr != nil {
		return notification.Notification{}, f.saveErr
	}
	n.ID = fmt.Sprintf("n-%s-%d", n.UserID, len(f.byUser[n.UserID])+1)
	n.CreatedAt = time.Now()
	f.byUser[n.UserID] = append(f.byUser[n.UserID], n)
	return n, nil
}

func (f *fakeNotificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]notification.Notification, error) {
	var out []notification.Notification
	for _, n := range f.byUser[userID] {
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, n := range f.byUser[userID] {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, userID, notificationID string) (bool, error) {
	for i, n := range f.byUser[userID] {
		if n.ID == notificationID {
			f.byUser[userID][i].IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	var updated int64
	for i, n := range f.byUser[userID] {
		if !n.IsRead {
			f.byUser[userID][i].IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (f *fakeNotificationRepo) Delete(ctx context.Context, userID, notificationID string) (bool, error) {
	for i, n := range f.byUser[userID] {
		if n.ID == notificationID {
			f.byUser[userID] = append(f.byUser[userID][:i], f.byUser[userID][i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type pushedEvent struct {
	UserID  string
	Event   string
	Payload any
}

type fakePusher struct {
	events    []pushedEvent
	onPublish func()
}

func (f *fakePusher) PublishToUser(userID string, event string, payload any) int {
	if f.onPublish != nil {
		f.onPublish()
	}
	f.events = append(f.events, pushedEvent{UserID: userID, Event: event, Payload: payload})
	return 1
}

func TestNotify_PersistsThenPushes(t *testing.T) {
	repo := newFakeNotificationRepo()
	var storedAtPush int
	pusher := &fakePusher{}
	pusher.onPublish = func() { storedAtPush = len(repo.byUser["alice"]) }

	uc := NewNotifyUseCase(repo, pusher, nil)
	saved, err := uc.Execute(context.Background(), NotifyInput{
		UserID:  "alice",
		Type:    notification.TypeNewMessage,
		Content: "New message from Bob",
		Metadata: notification.Metadata{
			notification.MetaThreadID: "t1",
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.IsRead)
	assert.Equal(t, 1, storedAtPush, "the record must be durable before the live push")

	require.Len(t, pusher.events, 1)
	assert.Equal(t, "alice", pusher.events[0].UserID)
	assert.Equal(t, "new_notification", pusher.events[0].Event)
	payload, ok := pusher.events[0].Payload.(notification.Notification)
	require.True(t, ok)
	assert.Equal(t, saved.ID, payload.ID)
}

func TestNotify_SaveFailureSkipsPush(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.saveErr = assert.AnError
	pusher := &fakePusher{}

	uc := NewNotifyUseCase(repo, pusher, nil)
	_, err := uc.Execute(context.Background(), NotifyInput{UserID: "alice", Type: notification.TypeNewThread})
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Empty(t, pusher.events)
}

func TestNotify_NilPublisherStillPersists(t *testing.T) {
	repo := newFakeNotificationRepo()

	uc := NewNotifyUseCase(repo, nil, nil)
	saved, err := uc.Execute(context.Background(), NotifyInput{UserID: "alice", Type: notification.TypeMatch, Content: "Possible match"})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
}
