package export

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dirport "github.com/tacssuki/CMUFinds-sub000/internal/pkg/directory/port"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/application/usecase"
	chat "github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/domain"
	repository "github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/persistence/repository/port"
)

// stubThreadRepo serves one fixed thread with a preloaded history.
type stubThreadRepo struct {
	thread       chat.Thread
	participants []chat.Participant
	messages     []chat.Message
}

func (s *stubThreadRepo) GetOrCreateThread(ctx context.Context, postID, ownerID, requesterID, systemText string) (repository.ThreadRecord, bool, error) {
	return repository.ThreadRecord{}, false, nil
}

func (s *stubThreadRepo) GetThread(ctx context.Context, threadID string) (chat.Thread, error) {
	if threadID != s.thread.ID {
		return chat.Thread{}, chat.ErrThreadNotFound
	}
	return s.thread, nil
}

func (s *stubThreadRepo) ListParticipants(ctx context.Context, threadID string) ([]chat.Participant, error) {
	return s.participants, nil
}

func (s *stubThreadRepo) FindParticipant(ctx context.Context, threadID, userID string) (chat.Participant, bool, error) {
	for _, p := range s.participants {
		if p.UserID == userID && p.ThreadID == threadID {
			return p, true, nil
		}
	}
	return chat.Participant{}, false, nil
}

func (s *stubThreadRepo) SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	return m, nil
}

func (s *stubThreadRepo) ListMessages(ctx context.Context, threadID string, limit, offset int) ([]chat.Message, error) {
	if offset >= len(s.messages) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.messages) {
		end = len(s.messages)
	}
	return s.messages[offset:end], nil
}

func (s *stubThreadRepo) LastMessage(ctx context.Context, threadID string) (*chat.Message, error) {
	return nil, nil
}

func (s *stubThreadRepo) ListThreadsByUser(ctx context.Context, userID string) ([]chat.Thread, error) {
	return nil, nil
}

type stubUsers struct{}

func (stubUsers) GetProfile(ctx context.Context, userID string) (dirport.UserProfile, error) {
	return dirport.UserProfile{ID: userID, Name: strings.ToUpper(userID[:1]) + userID[1:]}, nil
}

type stubPosts struct{ title string }

func (s stubPosts) GetSummary(ctx context.Context, postID string) (dirport.PostSummary, error) {
	if s.title == "" {
		return dirport.PostSummary{}, dirport.ErrPostNotFound
	}
	return dirport.PostSummary{ID: postID, Title: s.title, OwnerID: "bob"}, nil
}

func newExportFixture(messageCount int) *stubThreadRepo {
	repo := &stubThreadRepo{
		thread: chat.Thread{ID: "t1", PostID: "p1", CreatedAt: time.Now()},
		participants: []chat.Participant{
			{ID: "part-a", ThreadID: "t1", UserID: "alice"},
			{ID: "part-b", ThreadID: "t1", UserID: "bob"},
		},
	}
	sender := "part-a"
	for i := 0; i < messageCount; i++ {
		text := fmt.Sprintf("message %d", i)
		repo.messages = append(repo.messages, chat.Message{
			ID:                  fmt.Sprintf("m%d", i),
			ThreadID:            "t1",
			SenderParticipantID: &sender,
			Text:                &text,
			CreatedAt:           time.Now(),
		})
	}
	return repo
}

func newExportUseCase(repo *stubThreadRepo, posts dirport.PostDirectory, r Renderer) *ExportThreadUseCase {
	authorize := usecase.NewAuthorizeThreadAccessUseCase(repo)
	messages := usecase.NewListMessagesUseCase(repo, stubUsers{}, nil)
	return NewExportThreadUseCase(authorize, messages, posts, r, nil)
}

func TestExportThread_FullHistoryAcrossPages(t *testing.T) {
	repo := newExportFixture(exportPageSize + 25)

	var captured Transcript
	renderer := renderFunc(func(ctx context.Context, tr Transcript) ([]byte, string, error) {
		captured = tr
		return []byte("ok"), "text/plain; charset=utf-8", nil
	})

	uc := newExportUseCase(repo, stubPosts{title: "Lost keys"}, renderer)
	body, contentType, err := uc.Execute(context.Background(), "t1", "alice")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, "text/plain; charset=utf-8", contentType)

	assert.Equal(t, "t1", captured.ThreadID)
	assert.Equal(t, "Lost keys", captured.PostTitle)
	assert.Len(t, captured.Entries, exportPageSize+25, "paging must cover the entire history")
	assert.Equal(t, "Alice", captured.Entries[0].SenderName)
}

func TestExportThread_NonParticipantGetsNotFound(t *testing.T) {
	repo := newExportFixture(3)
	uc := newExportUseCase(repo, stubPosts{title: "Lost keys"}, NewTextRenderer(nil, nil))

	_, _, err := uc.Execute(context.Background(), "t1", "mallory")
	assert.ErrorIs(t, err, chat.ErrThreadNotFound)
}

func TestExportThread_MissingPostTitleDegrades(t *testing.T) {
	repo := newExportFixture(1)
	uc := newExportUseCase(repo, stubPosts{}, NewTextRenderer(nil, nil))

	body, _, err := uc.Execute(context.Background(), "t1", "alice")
	require.NoError(t, err)
	assert.Contains(t, string(body), "message 0")
}

type renderFunc func(ctx context.Context, t Transcript) ([]byte, string, error)

func (f renderFunc) Render(ctx context.Context, t Transcript) ([]byte, string, error) {
	return f(ctx, t)
}

func TestTextRenderer_ImageAnnotations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pngpayload"))
	}))
	defer srv.Close()

	text := "look at this"
	goodRef := srv.URL + "/img.png"
	deadRef := "http://127.0.0.1:1/gone.png"

	renderer := NewTextRenderer(srv.Client(), nil)
	body, contentType, err := renderer.Render(context.Background(), Transcript{
		ThreadID:    "t1",
		PostTitle:   "Found umbrella",
		GeneratedAt: time.Now(),
		Entries: []Entry{
			{SenderName: "Alice", Text: &text, ImageRef: &goodRef, CreatedAt: time.Now()},
			{SenderName: "Bob", ImageRef: &deadRef, CreatedAt: time.Now()},
			{Text: &text, IsSystem: true, CreatedAt: time.Now()},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", contentType)

	out := string(body)
	assert.Contains(t, out, "Found umbrella")
	assert.Contains(t, out, fmt.Sprintf("[image: %s, %d bytes]", goodRef, len("pngpayload")))
	assert.Contains(t, out, imagePlaceholder, "an unreachable image degrades to a placeholder")
	assert.Contains(t, out, "system:", "system entries are attributed to the system")
}

func TestTextRenderer_NonSuccessStatusIsPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	ref := srv.URL + "/missing.png"
	renderer := NewTextRenderer(srv.Client(), nil)
	body, _, err := renderer.Render(context.Background(), Transcript{
		ThreadID:    "t1",
		GeneratedAt: time.Now(),
		Entries:     []Entry{{SenderName: "Alice", ImageRef: &ref, CreatedAt: time.Now()}},
	})
	require.NoError(t, err)
	assert.Contains(t, string(body), imagePlaceholder)
}
