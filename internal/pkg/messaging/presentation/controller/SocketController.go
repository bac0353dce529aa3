package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tacssuki/CMUFinds-sub000/internal/infrastructure/realtime"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/auth"
)

// SocketController handles the websocket endpoint for realtime events.
// The bearer credential arrives as a query parameter because browser
// websocket clients cannot set an Authorization header; it is verified
// before the upgrade, so an unauthenticated connection never reaches the
// frame loop.
type SocketController struct {
	verifier *auth.Verifier
	hub      *realtime.Hub
	logger   *zap.Logger
}

func NewSocketController(verifier *auth.Verifier, hub *realtime.Hub, logger *zap.Logger) *SocketController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SocketController{verifier: verifier, hub: hub, logger: logger}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browser clients connect from the web origin; the bearer token is
		// the trust anchor here, not the Origin header.
		return true
	},
}

type inboundFrame struct {
	Type     string `json:"type"`
	ThreadID string `json:"thread_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
}

type ackFrame struct {
	Type     string   `json:"type"`
	ThreadID string   `json:"thread_id,omitempty"`
	UserID   string   `json:"user_id,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades the HTTP connection and processes frames until the client
// disconnects.
func (ctl *SocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := ctl.verifier.Verify(c.Query("token"))
		if err != nil {
			ctl.logger.Debug("websocket handshake rejected", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response.
			return
		}

		conn := realtime.NewConnection(identity.UserID, identity.RoleStrings(), ws)
		ctl.hub.Register(conn)
		defer func() {
			ctl.hub.Unregister(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 16) // control frames only; no bulk payloads inbound
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		// The ack echoes the verified session identity so clients can
		// confirm which principal and roles the socket is bound to.
		ctl.reply(conn, ackFrame{Type: "connected", UserID: conn.UserID, Roles: conn.Roles})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.replyError(conn, "read_error", err.Error())
				return
			}
			_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "join_thread":
				ctl.handleJoinThread(conn, frame)
			case "join_user_room":
				ctl.handleJoinUserRoom(conn, frame)
			case "leave_thread":
				ctl.handleLeaveThread(conn, frame)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

// handleJoinThread subscribes the session to a thread room. Joining performs
// no membership check by design: every send and list re-validates membership,
// so room subscription alone never yields message content to outsiders.
func (ctl *SocketController) handleJoinThread(conn *realtime.Connection, frame inboundFrame) {
	if frame.ThreadID == "" {
		ctl.replyError(conn, "bad_request", "thread_id is required")
		return
	}
	ctl.hub.JoinThread(conn, frame.ThreadID)
	ctl.reply(conn, ackFrame{Type: "joined", ThreadID: frame.ThreadID})
}

func (ctl *SocketController) handleJoinUserRoom(conn *realtime.Connection, frame inboundFrame) {
	if frame.UserID == "" {
		ctl.replyError(conn, "bad_request", "user_id is required")
		return
	}
	if err := ctl.hub.JoinUserRoom(conn, frame.UserID); err != nil {
		ctl.replyError(conn, "forbidden", "cannot join another user's room")
		return
	}
	ctl.reply(conn, ackFrame{Type: "joined", UserID: frame.UserID})
}

func (ctl *SocketController) handleLeaveThread(conn *realtime.Connection, frame inboundFrame) {
	if frame.ThreadID == "" {
		ctl.replyError(conn, "bad_request", "thread_id is required")
		return
	}
	ctl.hub.LeaveThread(conn, frame.ThreadID)
	ctl.reply(conn, ackFrame{Type: "left", ThreadID: frame.ThreadID})
}

func (ctl *SocketController) reply(conn *realtime.Connection, frame any) {
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *SocketController) replyError(conn *realtime.Connection, code string, message string) {
	ctl.reply(conn, errorFrame{Type: "error", Code: code, Error: message})
}
