package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tacssuki/CMUFinds-sub000/internal/infrastructure/realtime"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/auth"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/export"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/application/usecase"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/presentation/controller"
)

// Deps carries the constructed use cases into route registration.
type Deps struct {
	Verifier     *auth.Verifier
	Hub          *realtime.Hub
	GetOrCreate  *usecase.GetOrCreateThreadUseCase
	ListThreads  *usecase.ListThreadsUseCase
	ListMessages *usecase.ListMessagesUseCase
	Send         *usecase.SendMessageUseCase
	Export       *export.ExportThreadUseCase
	Logger       *zap.Logger
}

// RegisterRoutes mounts the messaging endpoints. Authed routes go on the
// bearer-protected group; the websocket endpoint authenticates its own
// handshake (query-parameter token) and mounts on the open group.
func RegisterRoutes(authed *gin.RouterGroup, open *gin.RouterGroup, d Deps) {
	createCtl := controller.NewCreateThreadController(d.GetOrCreate)
	listThreadsCtl := controller.NewListThreadsController(d.ListThreads)
	listMsgCtl := controller.NewListMessagesController(d.ListMessages)
	sendCtl := controller.NewSendMessageController(d.Send)
	exportCtl := controller.NewExportThreadController(d.Export)
	socketCtl := controller.NewSocketController(d.Verifier, d.Hub, d.Logger)

	authed.POST("/threads", createCtl.Handle())
	authed.GET("/threads", listThreadsCtl.Handle())
	authed.GET("/threads/:threadId/messages", listMsgCtl.Handle())
	authed.POST("/threads/:threadId/messages", sendCtl.Handle())
	authed.GET("/threads/:threadId/export", exportCtl.Handle())

	open.GET("/ws", socketCtl.Handle())
}
