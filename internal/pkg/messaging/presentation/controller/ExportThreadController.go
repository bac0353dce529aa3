package controller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/auth"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/export"
)

// ExportThreadController handles the transcript download endpoint.
type ExportThreadController struct {
	UC *export.ExportThreadUseCase
}

func NewExportThreadController(uc *export.ExportThreadUseCase) *ExportThreadController {
	return &ExportThreadController{UC: uc}
}

func (h *ExportThreadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.MustIdentity(c)

		threadID := c.Param("threadId")
		if threadID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threadId is required", "field": "threadId"})
			return
		}

		// Image fetching makes exports slower than ordinary reads.
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		body, contentType, err := h.UC.Execute(ctx, threadID, identity.UserID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "thread-"+threadID+".txt"))
		c.Data(http.StatusOK, contentType, body)
	}
}
