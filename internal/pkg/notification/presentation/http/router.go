package http

import (
	"github.com/gin-gonic/gin"

	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/application/usecase"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/presentation/controller"
)

// Deps carries the constructed use cases into route registration.
type Deps struct {
	List        *usecase.ListNotificationsUseCase
	UnreadCount *usecase.UnreadCountUseCase
	MarkRead    *usecase.MarkReadUseCase
	MarkAllRead *usecase.MarkAllReadUseCase
	Delete      *usecase.DeleteNotificationUseCase
}

// RegisterRoutes mounts the notification endpoints on the bearer-protected group.
func RegisterRoutes(authed *gin.RouterGroup, d Deps) {
	listCtl := controller.NewListNotificationsController(d.List)
	countCtl := controller.NewUnreadCountController(d.UnreadCount)
	markCtl := controller.NewMarkReadController(d.MarkRead)
	markAllCtl := controller.NewMarkAllReadController(d.MarkAllRead)
	deleteCtl := controller.NewDeleteNotificationController(d.Delete)

	authed.GET("/notifications", listCtl.Handle())
	authed.GET("/notifications/unread-count", countCtl.Handle())
	authed.PATCH("/notifications/:notificationId/read", markCtl.Handle())
	authed.PATCH("/notifications/read-all", markAllCtl.Handle())
	authed.DELETE("/notifications/:notificationId", deleteCtl.Handle())
}
