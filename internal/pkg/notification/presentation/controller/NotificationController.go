package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/auth"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/application/usecase"
	notification "github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/domain"
)

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, notification.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, usecase.ErrPersistence):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected persistence error"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// ListNotificationsController handles the notification-list endpoint.
type ListNotificationsController struct {
	UC *usecase.ListNotificationsUseCase
}

func NewListNotificationsController(uc *usecase.ListNotificationsUseCase) *ListNotificationsController {
	return &ListNotificationsController{UC: uc}
}

func (h *ListNotificationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.MustIdentity(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.ListNotificationsInput{
			UserID:     identity.UserID,
			UnreadOnly: c.Query("unread") == "true",
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"notifications": out, "count": len(out)})
	}
}

// UnreadCountController handles the unread-badge endpoint.
type UnreadCountController struct {
	UC *usecase.UnreadCountUseCase
}

func NewUnreadCountController(uc *usecase.UnreadCountUseCase) *UnreadCountController {
	return &UnreadCountController{UC: uc}
}

func (h *UnreadCountController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.MustIdentity(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := h.UC.Execute(ctx, identity.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"unread": count})
	}
}

// MarkReadController handles the single mark-read endpoint.
type MarkReadController struct {
	UC *usecase.MarkReadUseCase
}

func NewMarkReadController(uc *usecase.MarkReadUseCase) *MarkReadController {
	return &MarkReadController{UC: uc}
}

func (h *MarkReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.MustIdentity(c)

		id := c.Param("notificationId")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "notificationId is required", "field": "notificationId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := h.UC.Execute(ctx, identity.UserID, id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"read": true})
	}
}

// MarkAllReadController handles the bulk mark-read endpoint.
type MarkAllReadController struct {
	UC *usecase.MarkAllReadUseCase
}

func NewMarkAllReadController(uc *usecase.MarkAllReadUseCase) *MarkAllReadController {
	return &MarkAllReadController{UC: uc}
}

func (h *MarkAllReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.MustIdentity(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		updated, err := h.UC.Execute(ctx, identity.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": updated})
	}
}

// DeleteNotificationController handles the delete endpoint.
type DeleteNotificationController struct {
	UC *usecase.DeleteNotificationUseCase
}

func NewDeleteNotificationController(uc *usecase.DeleteNotificationUseCase) *DeleteNotificationController {
	return &DeleteNotificationController{UC: uc}
}

func (h *DeleteNotificationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.MustIdentity(c)

		id := c.Param("notificationId")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "notificationId is required", "field": "notificationId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := h.UC.Execute(ctx, identity.UserID, id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
