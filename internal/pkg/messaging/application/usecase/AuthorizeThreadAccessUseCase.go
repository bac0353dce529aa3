package usecase

import (
	"context"
	"fmt"

	chat "github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/domain"
	repository "github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/persistence/repository/port"
)

// AuthorizeThreadAccessUseCase is the single access gate used by operations
// that read a thread as a whole (export). A thread is accessible only to its
// two participants; anyone else gets chat.ErrThreadNotFound, indistinguishable
// from a thread that does not exist.
type AuthorizeThreadAccessUseCase struct {
	Repo repository.ThreadRepository
}

func NewAuthorizeThreadAccessUseCase(repo repository.ThreadRepository) *AuthorizeThreadAccessUseCase {
	return &AuthorizeThreadAccessUseCase{Repo: repo}
}

func (uc *AuthorizeThreadAccessUseCase) Execute(ctx context.Context, threadID, userID string) (chat.Thread, error) {
	if threadID == "" || userID == "" {
		return chat.Thread{}, fmt.Errorf("thread id and user id are required")
	}

	thread, err := uc.Repo.GetThread(ctx, threadID)
	if err != nil {
		if err == chat.ErrThreadNotFound {
			return chat.Thread{}, err
		}
		return chat.Thread{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	_, ok, err := uc.Repo.FindParticipant(ctx, threadID, userID)
	if err != nil {
		return chat.Thread{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return chat.Thread{}, chat.ErrThreadNotFound
	}
	return thread, nil
}
