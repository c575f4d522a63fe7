package services

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	EventMealLogged   = "meal.logged"
	EventMealDeleted  = "meal.deleted"
	EventAlertCreated = "alert.created"

	wsWriteTimeout = 10 * time.Second
)

// Event is the JSON frame pushed to a user's open sockets.
type Event struct {
	Kind string `json:"kind"`
	Data any    `json:"data"`
}

// EventPublisher fans events out to one user's live connections.
type EventPublisher interface {
	Publish(userID uint, ev Event)
}

type WSClient struct {
	UserID uint
	Conn   *websocket.Conn

	writeMu sync.Mutex
}

func NewWSClient(userID uint, conn *websocket.Conn) *WSClient {
	return &WSClient{UserID: userID, Conn: conn}
}

// Write serializes frames on the connection; gorilla allows one concurrent writer.
func (c *WSClient) Write(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.Conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.Conn.WriteMessage(messageType, data)
}

type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*WSClient]struct{}
	log     *slog.Logger
}

func NewRealtimeHub(log *slog.Logger) *RealtimeHub {
	return &RealtimeHub{
		clients: make(map[uint]map[*WSClient]struct{}),
		log:     log,
	}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

// Unregister is idempotent.
func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// Connections reports how many sockets the user has open.
func (h *RealtimeHub) Connections(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *RealtimeHub) Publish(userID uint, ev Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("encode realtime event", "kind", ev.Kind, "error", err)
		return
	}

	h.mu.RLock()
	targets := make([]*WSClient, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.Write(websocket.TextMessage, msg); err != nil {
			h.log.Debug("drop realtime client", "user_id", userID, "error", err)
			h.Unregister(c)
		}
	}
}
