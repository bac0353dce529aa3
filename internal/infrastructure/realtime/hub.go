package realtime

import (
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrRoomForbidden is returned when a connection tries to join a personal room
// that does not belong to its authenticated user.
var ErrRoomForbidden = errors.New("realtime: room does not belong to this connection's user")

// ThreadRoom derives the room id for a conversation thread.
func ThreadRoom(threadID string) string { return "thread:" + threadID }

// UserRoom derives the personal notification room id for a user.
func UserRoom(userID string) string { return "user:" + userID }

// eventFrame is the envelope every server-originated event is delivered in.
type eventFrame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub tracks live websocket sessions and the logical rooms they subscribe to
// (per-thread rooms and per-user personal rooms). All membership state is
// guarded by a single mutex; broadcasts observe a consistent snapshot of the
// room under the read lock, and sends never block because Connection.Send is
// buffered and fire-and-forget.
type Hub struct {
	mu           sync.RWMutex
	sessions     map[string]*Connection            // sessionID -> connection
	userSessions map[string]map[string]*Connection // userID -> sessionID -> connection
	rooms        map[string]map[string]*Connection // roomID -> sessionID -> connection
	sessionRooms map[string]map[string]struct{}    // sessionID -> set of roomIDs

	logger *zap.Logger
}

// NewHub constructs an initialized Hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		sessions:     make(map[string]*Connection),
		userSessions: make(map[string]map[string]*Connection),
		rooms:        make(map[string]map[string]*Connection),
		sessionRooms: make(map[string]map[string]struct{}),
		logger:       logger,
	}
}

// Register tracks a new connection under its user and starts its write loop.
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	h.sessions[conn.ID] = conn
	byUser := h.userSessions[conn.UserID]
	if byUser == nil {
		byUser = make(map[string]*Connection)
		h.userSessions[conn.UserID] = byUser
	}
	byUser[conn.ID] = conn
	h.sessionRooms[conn.ID] = make(map[string]struct{})
	h.mu.Unlock()

	conn.Start()
}

// Unregister removes the connection from every room and from its user's
// session set. Safe to call for connections that were never registered.
func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	h.detachLocked(conn.ID)
	h.mu.Unlock()
}

// JoinUserRoom subscribes the connection to a personal notification room.
// The room must belong to the connection's own authenticated user; anything
// else is refused so one user can never observe another user's notifications.
func (h *Hub) JoinUserRoom(conn *Connection, userID string) error {
	if conn.UserID != userID {
		h.logger.Warn("rejected personal room join for foreign user",
			zap.String("session_id", conn.ID),
			zap.String("authenticated_user", conn.UserID),
			zap.String("requested_user", userID))
		return ErrRoomForbidden
	}
	h.joinRoom(UserRoom(userID), conn)
	return nil
}

// JoinThread subscribes the connection to a thread room. No authorization is
// performed here: thread access is enforced on every send and list, so room
// membership alone never exposes message content.
func (h *Hub) JoinThread(conn *Connection, threadID string) {
	h.joinRoom(ThreadRoom(threadID), conn)
}

// LeaveThread removes the connection from a thread room.
func (h *Hub) LeaveThread(conn *Connection, threadID string) {
	h.mu.Lock()
	h.leaveLocked(ThreadRoom(threadID), conn.ID)
	h.mu.Unlock()
}

// PublishToThread broadcasts an event to every connection in the thread room.
func (h *Hub) PublishToThread(threadID string, event string, payload any) int {
	return h.broadcast(ThreadRoom(threadID), event, payload)
}

// PublishToUser broadcasts an event to every live session in the user's
// personal room.
func (h *Hub) PublishToUser(userID string, event string, payload any) int {
	return h.broadcast(UserRoom(userID), event, payload)
}

// Close terminates all tracked connections and clears hub state.
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := make([]*Connection, 0, len(h.sessions))
	for _, conn := range h.sessions {
		sessions = append(sessions, conn)
	}
	h.sessions = make(map[string]*Connection)
	h.userSessions = make(map[string]map[string]*Connection)
	h.rooms = make(map[string]map[string]*Connection)
	h.sessionRooms = make(map[string]map[string]struct{})
	h.mu.Unlock()

	for _, conn := range sessions {
		conn.Close(1001, "hub shutdown")
	}
}

func (h *Hub) joinRoom(roomID string, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[conn.ID]; !ok {
		return
	}

	room := h.rooms[roomID]
	if room == nil {
		room = make(map[string]*Connection)
		h.rooms[roomID] = room
	}
	room[conn.ID] = conn

	memberships := h.sessionRooms[conn.ID]
	if memberships == nil {
		memberships = make(map[string]struct{})
		h.sessionRooms[conn.ID] = memberships
	}
	memberships[roomID] = struct{}{}
}

// broadcast delivers the event to every current member of the room.
// Delivery is best-effort: a connection that is mid-disconnect simply does not
// receive it. Returns the number of sessions the payload was handed to.
func (h *Hub) broadcast(roomID string, event string, payload any) int {
	raw, err := json.Marshal(eventFrame{Type: event, Data: payload})
	if err != nil {
		h.logger.Error("failed to encode event frame",
			zap.String("room_id", roomID),
			zap.String("event", event),
			zap.Error(err))
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	room := h.rooms[roomID]
	if len(room) == 0 {
		return 0
	}

	delivered := 0
	for _, conn := range room {
		if err := conn.Send(raw); err == nil {
			delivered++
		}
	}
	return delivered
}

func (h *Hub) detachLocked(sessionID string) {
	conn, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	delete(h.sessions, sessionID)

	if byUser, ok := h.userSessions[conn.UserID]; ok {
		delete(byUser, sessionID)
		if len(byUser) == 0 {
			delete(h.userSessions, conn.UserID)
		}
	}

	for roomID := range h.sessionRooms[sessionID] {
		h.leaveLocked(roomID, sessionID)
	}
	delete(h.sessionRooms, sessionID)
}

func (h *Hub) leaveLocked(roomID string, sessionID string) {
	room := h.rooms[roomID]
	if room == nil {
		return
	}
	delete(room, sessionID)
	if len(room) == 0 {
		delete(h.rooms, roomID)
	}
	if memberships, ok := h.sessionRooms[sessionID]; ok {
		delete(memberships, roomID)
	}
}
