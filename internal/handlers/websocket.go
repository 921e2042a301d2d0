package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"vitrola/internal/game"
	"vitrola/internal/logger"
)

const (
	MessageConnected = "connected"

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second

	sendBuffer      = 64
	broadcastBuffer = 256
)

// WSMessage is the envelope of every message sent to clients
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string
}

// Hub fans session events out to every connected websocket client.
// It implements game.Publisher.
type Hub struct {
	log *zap.Logger

	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan []byte
	done       chan struct{}

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	state   func() game.State

	upgrader websocket.Upgrader
}

// NewHub creates a hub. Run must be started before clients connect.
func NewHub() *Hub {
	return &Hub{
		log:        logger.L().Named("ws"),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan []byte, broadcastBuffer),
		done:       make(chan struct{}),
		clients:    make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			// the operator screen and the display usually run on different hosts
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// SetStateSource sets the snapshot sent to every client on connect
func (h *Hub) SetStateSource(fn func() game.State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = fn
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return nil

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			total := len(h.clients)
			source := h.state
			h.mu.Unlock()

			h.log.Info("websocket client connected", zap.String("client_id", c.id), zap.Int("total_clients", total))

			h.sendTo(c, MessageConnected, map[string]string{"client_id": c.id})
			if source != nil {
				h.sendTo(c, game.EventState, NewStateView(source()))
			}

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.log.Info("websocket client disconnected", zap.String("client_id", c.id), zap.Int("remaining_clients", len(h.clients)))
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					// slow client, drop it
					delete(h.clients, c)
					close(c.send)
					h.log.Warn("dropping slow websocket client", zap.String("client_id", c.id))
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues a session event for every client. It never blocks; when
// the queue is full the event is dropped.
func (h *Hub) Publish(event string, state game.State) {
	data, err := encodeMessage(event, NewStateView(state))
	if err != nil {
		h.log.Error("failed to marshal websocket message", zap.String("type", event), zap.Error(err))
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.log.Warn("websocket broadcast queue full, message dropped", zap.String("type", event))
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and attaches the connection to the hub
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("failed to upgrade to websocket", zap.Error(err))
		return
	}

	c := &wsClient{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		id:   newClientID(),
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// sendTo is only called from Run
func (h *Hub) sendTo(c *wsClient, msgType string, v any) {
	data, err := encodeMessage(msgType, v)
	if err != nil {
		h.log.Error("failed to marshal websocket message", zap.String("type", msgType), zap.Error(err))
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *wsClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxBodyBytes)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		// the feed is one way, client messages are ignored
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("websocket read error", zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

func encodeMessage(msgType string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(WSMessage{Type: msgType, Data: data})
}

func newClientID() string {
	id, err := gonanoid.New()
	if err != nil {
		return uuid.NewString()
	}
	return "ws-" + id
}
