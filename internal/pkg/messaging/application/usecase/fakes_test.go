package usecase

import (
	"context"
	"fmt"
	"time"

	dirport "github.com/tacssuki/CMUFinds-sub000/internal/pkg/directory/port"
	chat "github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/domain"
	repository "github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/persistence/repository/port"
	notification "github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/domain"
)

// fakeThreadRepo is an in-memory ThreadRepository with per-method error
// injection.
type fakeThreadRepo struct {
	record  repository.ThreadRecord
	created bool

	threads      map[string]chat.Thread
	participants map[string][]chat.Participant
	messages     map[string][]chat.Message
	userThreads  map[string][]chat.Thread

	saved []chat.Message

	lastListLimit  int
	lastListOffset int

	getOrCreateErr error
	findErr        error
	saveErr        error
	listErr        error
	lastErr        error
}

func newFakeThreadRepo() *fakeThreadRepo {
	return &fakeThreadRepo{
		threads:      make(map[string]chat.Thread),
		participants: make(map[string][]chat.Participant),
		messages:     make(map[string][]chat.Message),
		userThreads:  make(map[string][]chat.Thread),
	}
}

func (f *fakeThreadRepo) GetOrCreateThread(ctx context.Context, postID, ownerID, requesterID, systemText string) (repository.ThreadRecord, bool, error) {
	if f.getOrCreateErr != nil {
		return repository.ThreadRecord{}, false, f.getOrCreateErr
	}
	return f.record, f.created, nil
}

func (f *fakeThreadRepo) GetThread(ctx context.Context, threadID string) (chat.Thread, error) {
	t, ok := f.threads[threadID]
	if !ok {
		return chat.Thread{}, chat.ErrThreadNotFound
	}
	return t, nil
}

func (f *fakeThreadRepo) ListParticipants(ctx context.Context, threadID string) ([]chat.Participant, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.participants[threadID], nil
}

func (f *fakeThreadRepo) FindParticipant(ctx context.Context, threadID, userID string) (chat.Participant, bool, error) {
	if f.findErr != nil {
		return chat.Participant{}, false, f.findErr
	}
	for _, p := range f.participants[threadID] {
		if p.UserID == userID {
			return p, true, nil
		}
	}
	return chat.Participant{}, false, nil
}

func (f *fakeThreadRepo) SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	if f.saveErr != nil {
		return chat.Message{}, f.saveErr
	}
	m.ID = fmt.Sprintf("msg-%d", len(f.saved)+1)
	m.CreatedAt = time.Now()
	f.saved = append(f.saved, m)
	f.messages[m.ThreadID] = append(f.messages[m.ThreadID], m)
	return m, nil
}

func (f *fakeThreadRepo) ListMessages(ctx context.Context, threadID string, limit, offset int) ([]chat.Message, error) {
	f.lastListLimit = limit
	f.lastListOffset = offset
	msgs := f.messages[threadID]
	if offset >= len(msgs) {
		return nil, nil
	}
	end := offset + limit
	if end > len(msgs) {
		end = len(msgs)
	}
	return msgs[offset:end], nil
}

func (f *fakeThreadRepo) LastMessage(ctx context.Context, threadID string) (*chat.Message, error) {
	if f.lastErr != nil {
		return nil, f.lastErr
	}
	msgs := f.messages[threadID]
	if len(msgs) == 0 {
		return nil, nil
	}
	last := msgs[len(msgs)-1]
	return &last, nil
}

func (f *fakeThreadRepo) ListThreadsByUser(ctx context.Context, userID string) ([]chat.Thread, error) {
	return f.userThreads[userID], nil
}

type publishedEvent struct {
	Room    string
	Event   string
	Payload any
}

// fakePublisher records published events. onPublish, when set, runs before
// each event is recorded so tests can observe ordering against other fakes.
type fakePublisher struct {
	threadEvents []publishedEvent
	userEvents   []publishedEvent
	onPublish    func()
}

func (f *fakePublisher) PublishToThread(threadID string, event string, payload any) int {
	if f.onPublish != nil {
		f.onPublish()
	}
	f.threadEvents = append(f.threadEvents, publishedEvent{Room: threadID, Event: event, Payload: payload})
	return 1
}

func (f *fakePublisher) PublishToUser(userID string, event string, payload any) int {
	if f.onPublish != nil {
		f.onPublish()
	}
	f.userEvents = append(f.userEvents, publishedEvent{Room: userID, Event: event, Payload: payload})
	return 1
}

type dispatchedNotification struct {
	UserID  string
	Type    notification.Type
	Content string
	Meta    notification.Metadata
}

type fakeNotifier struct {
	calls []dispatchedNotification
	err   error
}

func (f *fakeNotifier) Dispatch(ctx context.Context, userID string, typ notification.Type, content string, meta notification.Metadata) error {
	f.calls = append(f.calls, dispatchedNotification{UserID: userID, Type: typ, Content: content, Meta: meta})
	return f.err
}

type fakeUserDirectory struct {
	profiles map[string]dirport.UserProfile
	err      error
}

func (f *fakeUserDirectory) GetProfile(ctx context.Context, userID string) (dirport.UserProfile, error) {
	if f.err != nil {
		return dirport.UserProfile{}, f.err
	}
	p, ok := f.profiles[userID]
	if !ok {
		return dirport.UserProfile{}, dirport.ErrUserNotFound
	}
	return p, nil
}

type fakePostDirectory struct {
	posts map[string]dirport.PostSummary
	err   error
}

func (f *fakePostDirectory) GetSummary(ctx context.Context, postID string) (dirport.PostSummary, error) {
	if f.err != nil {
		return dirport.PostSummary{}, f.err
	}
	p, ok := f.posts[postID]
	if !ok {
		return dirport.PostSummary{}, dirport.ErrPostNotFound
	}
	return p, nil
}

func strptr(s string) *string { return &s }
