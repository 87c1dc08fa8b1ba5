// Package hub pushes fresh rankings to websocket clients on every snapshot refresh.
package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/navid-fn/spread-radar/internal/models"
	"github.com/navid-fn/spread-radar/server/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Subscriber is the push side of the snapshot store.
type Subscriber interface {
	Subscribe(buffer int) (<-chan models.Snapshot, func())
}

// Message is the envelope of every frame sent to clients.
type Message struct {
	Type  string                     `json:"type"`
	Data  *service.OpportunityResult `json:"data,omitempty"`
	Error string                     `json:"error,omitempty"`
}

type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	query service.OpportunityQuery
	asset string
}

type Hub struct {
	service  *service.OpportunityService
	logger   logrus.FieldLogger
	upgrader websocket.Upgrader

	snaps       <-chan models.Snapshot
	unsubscribe func()

	mu      sync.Mutex
	clients map[*Client]struct{}
	closed  bool
}

// NewHub subscribes to source right away so no refresh is missed before Run.
// Connections are accepted from allowedOrigins; "*" allows any origin.
func NewHub(svc *service.OpportunityService, source Subscriber, allowedOrigins []string, logger logrus.FieldLogger) *Hub {
	snaps, unsubscribe := source.Subscribe(sendBuffer)
	h := &Hub{
		service:     svc,
		logger:      logger.WithField("component", "hub"),
		snaps:       snaps,
		unsubscribe: unsubscribe,
		clients:     make(map[*Client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}
	return h
}

// Run fans snapshots out to clients until ctx is cancelled, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) error {
	defer h.unsubscribe()

	h.logger.Info("Starting websocket hub")
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.logger.Info("Stopping websocket hub")
			return nil
		case snap, ok := <-h.snaps:
			if !ok {
				h.closeAll()
				return nil
			}
			h.broadcast(snap)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Serve upgrades the request and streams rankings for q until the client leaves.
// The current ranking, when one exists, is sent right away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, q service.OpportunityQuery) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to upgrade connection")
		return
	}

	snap, err := h.service.Snapshot(q.Asset)
	asset := snap.Asset
	if err != nil {
		asset = h.service.ResolveAsset(q.Asset)
	}

	client := &Client{
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, sendBuffer),
		query: q,
		asset: asset,
	}

	if err == nil {
		if data, ok := h.render(client, snap); ok {
			client.send <- data
		}
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}
	h.clients[client] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	h.logger.WithFields(logrus.Fields{"asset": asset, "clients": total}).Debug("Client connected")

	go client.writePump()
	go client.readPump()
}

func (h *Hub) broadcast(snap models.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if c.asset != snap.Asset {
			continue
		}
		data, ok := h.render(c, snap)
		if !ok {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.logger.Warn("Dropping slow websocket client")
			h.removeLocked(c)
		}
	}
}

func (h *Hub) render(c *Client, snap models.Snapshot) ([]byte, bool) {
	msg := Message{Type: "opportunities"}
	result, err := h.service.RankSnapshot(snap, c.query)
	if err != nil {
		msg = Message{Type: "error", Error: err.Error()}
	} else {
		msg.Data = &result
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal message")
		return nil, false
	}
	return data, true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked must be called with mu held.
func (h *Hub) removeLocked(c *Client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// closeAll disconnects every client; Serve turns new clients away afterwards.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (c *Client) writePump() {
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

// readPump only watches for disconnects; clients never send commands.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.WithError(err).Debug("WebSocket closed unexpectedly")
			}
			return
		}
	}
}
