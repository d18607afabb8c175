// Package realtime pushes order changes to connected clients over websockets.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Event is a message pushed to clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

const EventOrderUpdated = "order.updated"

type connection struct {
	userID int64
	admin  bool
	conn   *websocket.Conn
	send   chan []byte
}

// Hub tracks live connections per user. A user may hold several at once.
type Hub struct {
	mu    sync.RWMutex
	users map[int64]map[*connection]struct{}
}

func NewHub() *Hub {
	return &Hub{users: make(map[int64]map[*connection]struct{})}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.users[c.userID]
	if !ok {
		set = make(map[*connection]struct{})
		h.users[c.userID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.users[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.users, c.userID)
	}
}

// Online reports whether Publish with the same arguments would reach at least
// one open connection.
func (h *Hub) Online(userIDs []int64, admins bool) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, id := range userIDs {
		if len(h.users[id]) > 0 {
			return true
		}
	}
	if !admins {
		return false
	}
	for _, set := range h.users {
		for c := range set {
			if c.admin {
				return true
			}
		}
	}
	return false
}

// Publish sends the event to every connection of the listed users and, when
// admins is set, to every administrator connection. Each connection receives
// the event at most once. Slow clients drop events instead of blocking.
func (h *Hub) Publish(event Event, userIDs []int64, admins bool) int {
	data, err := json.Marshal(event)
	if err != nil {
		zap.S().Errorw("marshal realtime event", "type", event.Type, "error", err)
		return 0
	}

	want := make(map[int64]struct{}, len(userIDs))
	for _, id := range userIDs {
		want[id] = struct{}{}
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for uid, set := range h.users {
		_, direct := want[uid]
		for c := range set {
			if !direct && !(admins && c.admin) {
				continue
			}
			select {
			case c.send <- data:
				delivered++
			default:
				zap.S().Debugw("realtime client too slow, event dropped", "user_id", uid)
			}
		}
	}
	return delivered
}

// Serve registers conn and blocks until the client disconnects.
func (h *Hub) Serve(conn *websocket.Conn, userID int64, admin bool) {
	c := &connection{
		userID: userID,
		admin:  admin,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

// Close drops every connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for uid, set := range h.users {
		for c := range set {
			close(c.send)
		}
		delete(h.users, uid)
	}
}

// readPump only services control frames; clients have nothing to say.
func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.S().Debugw("websocket closed", "user_id", c.userID, "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
