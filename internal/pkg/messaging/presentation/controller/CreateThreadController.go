package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/auth"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/application/usecase"
)

// CreateThreadController handles the get-or-create-thread endpoint (one
// controller per endpoint).
type CreateThreadController struct {
	UC *usecase.GetOrCreateThreadUseCase
}

func NewCreateThreadController(uc *usecase.GetOrCreateThreadUseCase) *CreateThreadController {
	return &CreateThreadController{UC: uc}
}

type createThreadRequest struct {
	PostID string `json:"postId" binding:"required"`
}

func (h *CreateThreadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.MustIdentity(c)

		var req createThreadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": "postId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		view, err := h.UC.Execute(ctx, usecase.GetOrCreateThreadInput{
			PostID:      req.PostID,
			RequesterID: identity.UserID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"thread": view})
	}
}
