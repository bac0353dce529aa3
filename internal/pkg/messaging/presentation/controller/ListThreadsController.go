package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/auth"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/application/usecase"
)

// ListThreadsController handles the conversation-list endpoint.
type ListThreadsController struct {
	UC *usecase.ListThreadsUseCase
}

func NewListThreadsController(uc *usecase.ListThreadsUseCase) *ListThreadsController {
	return &ListThreadsController{UC: uc}
}

func (h *ListThreadsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.MustIdentity(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		views, err := h.UC.Execute(ctx, identity.UserID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"threads": views, "count": len(views)})
	}
}
