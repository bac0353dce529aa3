package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/auth"
	messagingHTTP "github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/presentation/http"
	notificationHTTP "github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/presentation/http"
)

// Deps aggregates everything the version 1 routes need.
type Deps struct {
	Verifier     *auth.Verifier
	Messaging    messagingHTTP.Deps
	Notification notificationHTTP.Deps
}

// RegisterRoutes mounts all version 1 API routes under /api/v1.
// REST endpoints require a bearer token; the websocket endpoint checks its
// credential during the handshake instead.
func RegisterRoutes(r *gin.Engine, d Deps) {
	v1 := r.Group("/api/v1")

	authed := v1.Group("", auth.Middleware(d.Verifier))
	messagingHTTP.RegisterRoutes(authed, v1, d.Messaging)
	notificationHTTP.RegisterRoutes(authed, d.Notification)
}
