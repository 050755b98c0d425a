package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

// Message is the envelope written to websocket clients.
type Message struct {
	Type      string `json:"type"`
	MachineID int64  `json:"machineId"`
	Data      any    `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	keys []string
}

// Hub fans messages out to websocket clients subscribed to machine rooms
// and per-user channels. A client whose buffer is full is dropped.
type Hub struct {
	mu       sync.Mutex
	rooms    map[string]map[*client]struct{}
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHub creates a Hub. An empty allowedOrigins accepts any origin.
func NewHub(allowedOrigins []string, logger zerolog.Logger) *Hub {
	h := &Hub{
		rooms:  make(map[string]map[*client]struct{}),
		logger: logger.With().Str("component", "realtime").Logger(),
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

func machineRoom(machineID int64) string { return fmt.Sprintf("machine:%d", machineID) }

func userRoom(userID int64) string { return fmt.Sprintf("user:%d", userID) }

// ServeWS upgrades the request and subscribes the connection to the
// machine room in ?machine_id and the user channel of the caller.
func (h *Hub) ServeWS(c *gin.Context) {
	var keys []string
	if raw := c.Query("machine_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": "invalid machine_id"})
			return
		}
		keys = append(keys, machineRoom(id))
	}
	if userID, ok := subscriberID(c); ok {
		keys = append(keys, userRoom(userID))
	}
	if len(keys) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": "machine_id or user identity is required"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	cl := &client{conn: conn, send: make(chan []byte, sendBuffer), keys: keys}
	h.register(cl)
	go h.writePump(cl)
	h.readPump(cl)
}

// subscriberID prefers the identity set by the auth middleware over the
// user_id query parameter, which browsers use since they cannot set headers
// on websocket requests.
func subscriberID(c *gin.Context) (int64, bool) {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(int64); ok && id > 0 {
			return id, true
		}
	}
	id, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, k := range cl.keys {
		room, ok := h.rooms[k]
		if !ok {
			room = make(map[*client]struct{})
			h.rooms[k] = room
		}
		room[cl] = struct{}{}
	}
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(cl)
}

func (h *Hub) removeLocked(cl *client) {
	removed := false
	for _, k := range cl.keys {
		room, ok := h.rooms[k]
		if !ok {
			continue
		}
		if _, ok := room[cl]; ok {
			delete(room, cl)
			removed = true
		}
		if len(room) == 0 {
			delete(h.rooms, k)
		}
	}
	if removed {
		close(cl.send)
	}
}

func (h *Hub) readPump(cl *client) {
	defer func() {
		h.unregister(cl)
		cl.conn.Close()
	}()
	cl.conn.SetReadLimit(512)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// PublishMachine sends msg to every observer of the machine.
func (h *Hub) PublishMachine(machineID int64, msg Message) {
	h.publish(machineRoom(machineID), msg)
}

// PublishUser sends msg to the user's private channel.
func (h *Hub) PublishUser(userID int64, msg Message) {
	h.publish(userRoom(userID), msg)
}

func (h *Hub) publish(key string, msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Str("room", key).Msg("failed to encode message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.rooms[key] {
		select {
		case cl.send <- payload:
		default:
			h.logger.Warn().Str("room", key).Msg("dropping slow websocket client")
			h.removeLocked(cl)
		}
	}
}

// Subscribers reports how many clients listen on the machine room.
func (h *Hub) Subscribers(machineID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[machineRoom(machineID)])
}
