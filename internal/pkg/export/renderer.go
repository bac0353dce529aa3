package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Entry is one line of a thread transcript, already resolved to display data.
type Entry struct {
	SenderName string
	Text       *string
	ImageRef   *string
	IsSystem   bool
	CreatedAt  time.Time
}

// Transcript is the ordered message history of one thread plus its header data.
type Transcript struct {
	ThreadID    string
	PostTitle   string
	GeneratedAt time.Time
	Entries     []Entry
}

// Renderer turns a transcript into a downloadable document.
type Renderer interface {
	Render(ctx context.Context, t Transcript) (body []byte, contentType string, err error)
}

// imagePlaceholder marks an image that could not be fetched. The export still
// covers every message; one dead link never aborts the document.
const imagePlaceholder = "[image unavailable]"

// TextRenderer renders a plain-text transcript. Referenced images are fetched
// to confirm they are reachable and annotated with their size; a fetch
// failure degrades to a placeholder marker.
type TextRenderer struct {
	client *http.Client
	logger *zap.Logger
}

func NewTextRenderer(client *http.Client, logger *zap.Logger) *TextRenderer {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextRenderer{client: client, logger: logger}
}

var _ Renderer = (*TextRenderer)(nil)

func (r *TextRenderer) Render(ctx context.Context, t Transcript) ([]byte, string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Conversation transcript\n")
	fmt.Fprintf(&b, "Subject: %s\n", t.PostTitle)
	fmt.Fprintf(&b, "Thread:  %s\n", t.ThreadID)
	fmt.Fprintf(&b, "Exported: %s\n", t.GeneratedAt.UTC().Format(time.RFC3339))
	b.WriteString(strings.Repeat("-", 60) + "\n")

	for _, e := range t.Entries {
		name := e.SenderName
		if e.IsSystem {
			name = "system"
		} else if name == "" {
			name = "unknown"
		}
		fmt.Fprintf(&b, "[%s] %s:", e.CreatedAt.UTC().Format("2006-01-02 15:04:05"), name)
		if e.Text != nil {
			fmt.Fprintf(&b, " %s", *e.Text)
		}
		if e.ImageRef != nil {
			fmt.Fprintf(&b, " %s", r.describeImage(ctx, *e.ImageRef))
		}
		b.WriteString("\n")
	}

	return []byte(b.String()), "text/plain; charset=utf-8", nil
}

// describeImage fetches the referenced image best-effort. Any failure, from a
// bad URL to a non-2xx status, yields the placeholder.
func (r *TextRenderer) describeImage(ctx context.Context, ref string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		r.logger.Warn("image reference is not a valid URL", zap.String("ref", ref), zap.Error(err))
		return imagePlaceholder
	}
	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("image fetch failed", zap.String("ref", ref), zap.Error(err))
		return imagePlaceholder
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.logger.Warn("image fetch returned non-success status",
			zap.String("ref", ref),
			zap.Int("status", resp.StatusCode))
		return imagePlaceholder
	}

	n, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		r.logger.Warn("image body read failed", zap.String("ref", ref), zap.Error(err))
		return imagePlaceholder
	}
	return fmt.Sprintf("[image: %s, %d bytes]", ref, n)
}
