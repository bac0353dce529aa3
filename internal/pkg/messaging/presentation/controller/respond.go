package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	dirport "github.com/tacssuki/CMUFinds-sub000/internal/pkg/directory/port"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/application/usecase"
	chat "github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/domain"
)

// respondError maps use case errors onto HTTP responses. Threads the caller
// cannot access answer exactly like threads that do not exist.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrThreadNotFound), errors.Is(err, dirport.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, chat.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": "text"})
	case errors.Is(err, chat.ErrSelfConversation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": "postId"})
	case errors.Is(err, usecase.ErrPersistence):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected persistence error"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
