package export

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	dirport "github.com/tacssuki/CMUFinds-sub000/internal/pkg/directory/port"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/application/usecase"
)

// exportPageSize is how many messages each history page pulls while building
// the transcript.
const exportPageSize = 100

// ExportThreadUseCase renders a thread's full message history to a document.
// It consumes only the thread access gate and the message read path, so the
// export surface can never see more than a participant can.
type ExportThreadUseCase struct {
	Authorize *usecase.AuthorizeThreadAccessUseCase
	Messages  *usecase.ListMessagesUseCase
	Posts     dirport.PostDirectory
	Renderer  Renderer
	Logger    *zap.Logger
}

func NewExportThreadUseCase(
	authorize *usecase.AuthorizeThreadAccessUseCase,
	messages *usecase.ListMessagesUseCase,
	posts dirport.PostDirectory,
	renderer Renderer,
	logger *zap.Logger,
) *ExportThreadUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportThreadUseCase{
		Authorize: authorize,
		Messages:  messages,
		Posts:     posts,
		Renderer:  renderer,
		Logger:    logger,
	}
}

// Execute produces the rendered document and its content type.
func (uc *ExportThreadUseCase) Execute(ctx context.Context, threadID, userID string) ([]byte, string, error) {
	thread, err := uc.Authorize.Execute(ctx, threadID, userID)
	if err != nil {
		return nil, "", err
	}

	transcript := Transcript{
		ThreadID:    thread.ID,
		GeneratedAt: time.Now(),
	}
	if post, err := uc.Posts.GetSummary(ctx, thread.PostID); err == nil {
		transcript.PostTitle = post.Title
	} else {
		uc.Logger.Warn("failed to resolve post title for export",
			zap.String("thread_id", thread.ID),
			zap.Error(err))
	}

	for page := 1; ; page++ {
		views, err := uc.Messages.Execute(ctx, usecase.ListMessagesInput{
			ThreadID:         threadID,
			RequestingUserID: userID,
			Page:             page,
			Limit:            exportPageSize,
		})
		if err != nil {
			return nil, "", err
		}
		for _, v := range views {
			entry := Entry{
				Text:      v.Text,
				ImageRef:  v.ImageRef,
				IsSystem:  v.IsSystem,
				CreatedAt: v.CreatedAt,
			}
			if v.Sender != nil {
				entry.SenderName = v.Sender.Name
			}
			transcript.Entries = append(transcript.Entries, entry)
		}
		if len(views) < exportPageSize {
			break
		}
	}

	body, contentType, err := uc.Renderer.Render(ctx, transcript)
	if err != nil {
		return nil, "", fmt.Errorf("render transcript: %w", err)
	}
	return body, contentType, nil
}
