package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/auth"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/application/usecase"
)

// SendMessageController handles the send-message endpoint. The canonical
// persisted message comes back in the response so the client can reconcile
// its optimistic placeholder by id.
type SendMessageController struct {
	UC *usecase.SendMessageUseCase
}

func NewSendMessageController(uc *usecase.SendMessageUseCase) *SendMessageController {
	return &SendMessageController{UC: uc}
}

type sendMessageRequest struct {
	Text     *string `json:"text"`
	ImageRef *string `json:"imageRef"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.MustIdentity(c)

		threadID := c.Param("threadId")
		if threadID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threadId is required", "field": "threadId"})
			return
		}

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		view, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			ThreadID:     threadID,
			SenderUserID: identity.UserID,
			Text:         req.Text,
			ImageRef:     req.ImageRef,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": view})
	}
}
