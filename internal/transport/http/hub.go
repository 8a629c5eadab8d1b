package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gridscope/gridscope/internal/core"
	"github.com/gridscope/gridscope/pkg/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientSendBuf  = 16
	maxMessageSize = 4096
)

type wsMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Hub fans game state updates out to connected websocket clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*wsClient]struct{})}
}

// Broadcast queues a game state update for every connected client. Slow
// clients drop messages rather than blocking the state manager.
func (h *Hub) Broadcast(gs core.GameState) {
	h.broadcast(wsMessage{Type: "game_state_update", Data: gs})
}

func (h *Hub) broadcast(msg wsMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// CloseAll disconnects every client, typically during shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.conn.Close()
		delete(h.clients, c)
		close(c.send)
	}
}

type wsClient struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan wsMessage
	state func() core.GameState
}

func (h *Hub) serve(ctx context.Context, conn *websocket.Conn, state func() core.GameState) {
	c := &wsClient{hub: h, conn: conn, send: make(chan wsMessage, clientSendBuf), state: state}
	h.add(c)
	log.FromCtx(ctx).Info().Int("connections", h.Count()).Msg("websocket connected")

	// Initial state so new clients render immediately.
	c.trySend(wsMessage{Type: "connected", Data: map[string]any{
		"message":       "Connected to GridScope live updates",
		"initial_state": state(),
	}})

	go c.writeLoop()
	c.readLoop(ctx)
}

func (c *wsClient) readLoop(ctx context.Context) {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
		log.FromCtx(ctx).Info().Int("connections", c.hub.Count()).Msg("websocket disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg wsMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "ping":
			c.trySend(wsMessage{Type: "pong"})
		case "get_state":
			c.trySend(wsMessage{Type: "game_state_update", Data: c.state()})
		case "subscribe":
			c.trySend(wsMessage{Type: "subscribed", Data: msg.Data})
		}
	}
}

func (c *wsClient) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// trySend queues a message for the client unless its buffer is full. The
// hub lock prevents a send on a channel that remove or CloseAll already
// closed.
func (c *wsClient) trySend(msg wsMessage) {
	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()
	if _, ok := c.hub.clients[c]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}
