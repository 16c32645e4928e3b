// Package realtime carries presence, listening activity and direct messages
// over websockets on the same listener as the HTTP API.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tunehub/backend/internal/repository"
	"tunehub/backend/internal/service"
	jwtpkg "tunehub/backend/pkg/jwt"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 8 << 10
	sendBuffer     = 32
	activityPrefix = "activity:"

	sessionCookieName = "__session"
	tokenQueryParam   = "token"
)

// Hub tracks connected clients. Every connection is authenticated with a
// session token during the upgrade and may only identify as its token's
// subject. A user is online while at least one of its connections has sent
// user_connected.
type Hub struct {
	chat     service.ChatService
	cache    repository.Cache
	jwt      *jwtpkg.Manager
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu         sync.RWMutex
	clients    map[*client]struct{}
	online     map[string]map[*client]struct{}
	activities map[string]string
	closed     bool
}

func NewHub(
	chat service.ChatService,
	cache repository.Cache,
	jwtManager *jwtpkg.Manager,
	allowedOrigins []string,
	logger *zap.Logger,
) *Hub {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	h := &Hub{
		chat:       chat,
		cache:      cache,
		jwt:        jwtManager,
		logger:     logger,
		clients:    make(map[*client]struct{}),
		online:     make(map[string]map[*client]struct{}),
		activities: make(map[string]string),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
	}
	return h
}

// ServeHTTP authenticates and upgrades the request, then serves the
// connection until it closes. Requests without a valid session token get 401.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, err := h.jwt.Validate(requestToken(r))
	if err != nil {
		h.logger.Debug("websocket auth failed", zap.Error(err))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(errorPayload{Message: "Unauthorized - you must be logged in"})
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	c := newClient(conn, claims.Subject)
	if !h.register(c) {
		c.closeNow()
		return
	}
	go c.writePump()
	h.readPump(c)
}

// Close disconnects every client. New connections are refused afterwards.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

// Online returns the ids of users with at least one identified connection.
func (h *Hub) Online() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.onlineLocked()
}

func (h *Hub) onlineLocked() []string {
	ids := make([]string, 0, len(h.online))
	for id := range h.online {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// requestToken reads the session token from the Authorization header, the
// session cookie or the token query parameter. Browsers cannot set headers on
// a websocket handshake, hence the last two.
func requestToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return r.URL.Query().Get(tokenQueryParam)
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	userID := c.userID
	lastConn := false
	if conns, ok := h.online[userID]; ok && userID != "" {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.online, userID)
			delete(h.activities, userID)
			lastConn = true
		}
	}
	h.mu.Unlock()
	c.close()

	if lastConn {
		if err := h.cache.Delete(context.Background(), activityPrefix+userID); err != nil {
			h.logger.Debug("activity cache delete failed", zap.String("user_id", userID), zap.Error(err))
		}
		h.broadcast(EventUserDisconnected, userPayload{UserID: userID}, nil)
	}
}

func (h *Hub) readPump(c *client) {
	defer h.unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("websocket read failed", zap.String("user_id", c.userID), zap.Error(err))
			}
			return
		}
		h.dispatch(c, env)
	}
}

func (h *Hub) dispatch(c *client, env Envelope) {
	switch env.Event {
	case EventUserConnected:
		var p userPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.UserID == "" {
			h.sendTo(c, EventMessageError, errorPayload{Message: "userId is required"})
			return
		}
		h.identify(c, p.UserID)
	case EventUpdateActivity:
		var p activityPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || c.userID == "" {
			return
		}
		h.setActivity(c.userID, p.Activity)
	case EventSendMessage:
		h.sendMessage(c, env.Data)
	default:
		h.logger.Debug("unknown websocket event", zap.String("event", env.Event))
	}
}

func (h *Hub) identify(c *client, userID string) {
	if userID != c.subject {
		h.logger.Debug("user_connected for another user refused",
			zap.String("subject", c.subject), zap.String("user_id", userID))
		h.sendTo(c, EventMessageError, errorPayload{Message: "userId does not match session"})
		return
	}
	h.mu.Lock()
	c.userID = userID
	conns, known := h.online[userID]
	if !known {
		conns = make(map[*client]struct{})
		h.online[userID] = conns
		h.activities[userID] = idleActivity
	}
	conns[c] = struct{}{}
	online := h.onlineLocked()
	activities := make(map[string]string, len(h.activities))
	for id, a := range h.activities {
		activities[id] = a
	}
	h.mu.Unlock()

	if !known {
		h.mirrorActivity(userID, idleActivity)
		h.broadcast(EventUserConnected, userPayload{UserID: userID}, c)
	}
	h.sendTo(c, EventUsersOnline, online)
	h.sendTo(c, EventActivities, activities)
}

func (h *Hub) setActivity(userID, activity string) {
	h.mu.Lock()
	if _, ok := h.online[userID]; !ok {
		h.mu.Unlock()
		return
	}
	h.activities[userID] = activity
	h.mu.Unlock()

	h.mirrorActivity(userID, activity)
	h.broadcast(EventActivityUpdated, activityPayload{UserID: userID, Activity: activity}, nil)
}

func (h *Hub) mirrorActivity(userID, activity string) {
	if err := h.cache.Set(context.Background(), activityPrefix+userID, []byte(activity), 0); err != nil {
		h.logger.Debug("activity cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (h *Hub) sendMessage(c *client, data json.RawMessage) {
	var p messagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		h.sendTo(c, EventMessageError, errorPayload{Message: "invalid message"})
		return
	}
	if c.userID == "" {
		h.sendTo(c, EventMessageError, errorPayload{Message: "send user_connected first"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	msg, err := h.chat.Send(ctx, c.userID, p.ReceiverID, p.Content)
	if err != nil {
		h.logger.Debug("message not sent", zap.String("from", c.userID), zap.Error(err))
		h.sendTo(c, EventMessageError, errorPayload{Message: err.Error()})
		return
	}

	h.sendToUser(p.ReceiverID, EventReceiveMessage, msg)
	h.sendTo(c, EventMessageSent, msg)
}

func (h *Hub) sendTo(c *client, event string, data interface{}) {
	frame, err := encode(event, data)
	if err != nil {
		h.logger.Error("encode websocket frame", zap.String("event", event), zap.Error(err))
		return
	}
	c.enqueue(frame)
}

func (h *Hub) sendToUser(userID, event string, data interface{}) {
	frame, err := encode(event, data)
	if err != nil {
		h.logger.Error("encode websocket frame", zap.String("event", event), zap.Error(err))
		return
	}
	h.mu.RLock()
	targets := make([]*client, 0, len(h.online[userID]))
	for c := range h.online[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	for _, c := range targets {
		c.enqueue(frame)
	}
}

// broadcast sends to every identified connection except skip.
func (h *Hub) broadcast(event string, data interface{}, skip *client) {
	frame, err := encode(event, data)
	if err != nil {
		h.logger.Error("encode websocket frame", zap.String("event", event), zap.Error(err))
		return
	}
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		if c != skip && c.userID != "" {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range targets {
		c.enqueue(frame)
	}
}
