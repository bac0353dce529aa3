package task

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	qport "github.com/tacssuki/CMUFinds-sub000/internal/infrastructure/queue/port"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/application/usecase"
	notification "github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/domain"
)

// DeliverNotificationTaskType is the queue task name for notification fan-out.
const DeliverNotificationTaskType = "notify:deliver"

// DeliverNotificationPayload is the JSON payload transported via the queue.
// Kept decoupled from domain types to avoid coupling queue wire format to
// domain JSON tags.
type DeliverNotificationPayload struct {
	UserID   string            `json:"userId"`
	Type     string            `json:"type"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// RegisterDeliverNotificationTask binds the task handler to the worker server.
// The handler persists the notification and pushes it to the target's live
// sessions via NotifyUseCase.
func RegisterDeliverNotificationTask(srv qport.Server, uc *usecase.NotifyUseCase) {
	srv.Register(DeliverNotificationTaskType, func(ctx context.Context, t qport.Task) error {
		var p DeliverNotificationPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// Malformed payload will never succeed; do not signal retry forever.
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		_, err := uc.Execute(ctx, usecase.NotifyInput{
			UserID:   p.UserID,
			Type:     notification.Type(p.Type),
			Content:  p.Content,
			Metadata: notification.Metadata(p.Metadata),
		})
		return err
	})
}

// Dispatcher enqueues notification fan-out tasks. When no queue client is
// configured, or an enqueue fails, it degrades to executing the notify use
// case inline so a queue outage never silently drops notifications.
//
// Dispatch never returns an error to callers' users: message delivery must
// not be held hostage by notification plumbing. Failures are logged.
type Dispatcher struct {
	Client qport.Client
	Notify *usecase.NotifyUseCase
	Logger *zap.Logger
}

func NewDispatcher(client qport.Client, notify *usecase.NotifyUseCase, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{Client: client, Notify: notify, Logger: logger}
}

// Dispatch hands one notification to the fan-out pipeline.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, typ notification.Type, content string, meta notification.Metadata) error {
	if d.Client != nil {
		payload := DeliverNotificationPayload{
			UserID:   userID,
			Type:     string(typ),
			Content:  content,
			Metadata: meta,
		}
		b, err := json.Marshal(payload)
		if err == nil {
			opts := qport.EnqueueOption{Queue: "notify", MaxRetry: 10}
			if _, err = d.Client.Enqueue(ctx, qport.Task{Type: DeliverNotificationTaskType, Payload: b}, opts); err == nil {
				return nil
			}
		}
		d.Logger.Warn("notification enqueue failed, delivering inline",
			zap.String("user_id", userID),
			zap.String("type", string(typ)),
			zap.Error(err))
	}

	_, err := d.Notify.Execute(ctx, usecase.NotifyInput{
		UserID:   userID,
		Type:     typ,
		Content:  content,
		Metadata: meta,
	})
	if err != nil {
		d.Logger.Error("inline notification delivery failed",
			zap.String("user_id", userID),
			zap.String("type", string(typ)),
			zap.Error(err))
	}
	return err
}
