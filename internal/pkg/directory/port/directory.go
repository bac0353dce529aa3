package port

import (
	"context"
	"errors"
)

// The messaging core never owns users or posts; it only reads the display data
// needed to resolve thread and message views. These ports are the whole
// surface it sees of the external stores.

var (
	ErrUserNotFound = errors.New("directory: user not found")
	ErrPostNotFound = errors.New("directory: post not found")
)

// UserProfile is the display data resolved for a participant.
type UserProfile struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// PostSummary is the subject-post data a thread view carries.
type PostSummary struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	OwnerID       string  `json:"ownerId"`
	FirstImageURL *string `json:"firstImageUrl,omitempty"`
}

// UserDirectory resolves user display profiles.
type UserDirectory interface {
	GetProfile(ctx context.Context, userID string) (UserProfile, error)
}

// PostDirectory resolves subject-post summaries.
type PostDirectory interface {
	GetSummary(ctx context.Context, postID string) (PostSummary, error)
}
