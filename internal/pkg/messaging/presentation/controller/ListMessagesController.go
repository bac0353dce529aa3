package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/auth"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/application/usecase"
)

// ListMessagesController handles the thread-history endpoint.
type ListMessagesController struct {
	UC *usecase.ListMessagesUseCase
}

func NewListMessagesController(uc *usecase.ListMessagesUseCase) *ListMessagesController {
	return &ListMessagesController{UC: uc}
}

func (h *ListMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.MustIdentity(c)

		threadID := c.Param("threadId")
		if threadID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threadId is required", "field": "threadId"})
			return
		}

		page := 1
		limit := 30
		if v := c.Query("page"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				page = n
			}
		}
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		if limit > 100 {
			limit = 100
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		views, err := h.UC.Execute(ctx, usecase.ListMessagesInput{
			ThreadID:         threadID,
			RequestingUserID: identity.UserID,
			Page:             page,
			Limit:            limit,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"messages": views,
			"page":     page,
			"limit":    limit,
			"count":    len(views),
		})
	}
}
