// Package notify pushes wave messages to websocket spectators and the log.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lawnchairsociety/wavecrawler/internal/config"
	"github.com/lawnchairsociety/wavecrawler/internal/logger"
)

const writeWait = 5 * time.Second

// replayOrder is the order latest-state messages are sent to a new spectator.
var replayOrder = []MessageType{TypeWave, TypeHostiles, TypeCleared, TypePortal}

type client struct {
	conn *websocket.Conn
	ip   string
	send chan []byte
}

// Hub is a wave.Notifier that broadcasts each message as JSON to every
// connected spectator. Spectators that fall behind by more than
// SendBuffer messages are disconnected.
type Hub struct {
	cfg      config.NotifierConfig
	upgrader websocket.Upgrader
	slots    *slots
	now      func() time.Time

	mu      sync.Mutex
	clients map[*client]struct{}
	last    map[MessageType][]byte
	closed  bool
}

// NewHub creates a hub. It does not listen; mount it as an http.Handler or
// call ListenAndServe.
func NewHub(cfg config.NotifierConfig) *Hub {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 1
	}
	h := &Hub{
		cfg:     cfg,
		slots:   newSlots(cfg.MaxSpectators, cfg.MaxPerIP),
		now:     time.Now,
		clients: make(map[*client]struct{}),
		last:    make(map[MessageType][]byte),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := h.cfg.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("Spectator connection rejected", "origin", origin, "host", r.Host)
			}
			return allowed
		},
	}
	return h
}

// ServeHTTP upgrades a spectator connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.cfg.TokenHash != "" && !CheckToken(h.cfg.TokenHash, r.URL.Query().Get("token")) {
		logger.Warning("Spectator token rejected", "remote", r.RemoteAddr)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ip := remoteIP(r.RemoteAddr)
	if !h.slots.acquire(ip) {
		logger.Warning("Spectator limit reached", "ip", ip)
		http.Error(w, "too many spectators", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.slots.release(ip)
		logger.Debug("Spectator upgrade failed", "error", err)
		return
	}
	if h.cfg.WebSocket.MaxMessageSize > 0 {
		conn.SetReadLimit(h.cfg.WebSocket.MaxMessageSize)
	}

	c := &client{conn: conn, ip: ip, send: make(chan []byte, h.cfg.SendBuffer+len(replayOrder))}
	if !h.register(c) {
		h.slots.release(ip)
		conn.Close()
		return
	}
	logger.Info("Spectator connected", "remote", conn.RemoteAddr().String())

	go h.writePump(c)
	go h.readPump(c)
}

// ListenAndServe serves the hub at cfg.Path until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	path := h.cfg.Path
	if path == "" {
		path = "/"
	}
	mux.Handle(path, h)

	srv := &http.Server{Addr: h.cfg.Address, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Spectator feed listening", "address", h.cfg.Address, "path", path)
	err := srv.ListenAndServe()
	h.Close()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Broadcast queues m for every spectator and remembers it for late joiners.
func (h *Hub) Broadcast(m Message) {
	if m.At.IsZero() {
		m.At = h.now()
	}
	data, err := json.Marshal(m)
	if err != nil {
		logger.Error("Failed to encode spectator message", "type", m.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}

	if m.Type == TypeWave {
		delete(h.last, TypeCleared)
		delete(h.last, TypePortal)
	}
	h.last[m.Type] = data

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			logger.Warning("Dropping slow spectator")
			h.removeLocked(c)
		}
	}
}

// ClientCount returns the number of connected spectators.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every spectator. Later broadcasts are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) WaveDisplayChanged(level int, boss bool) {
	h.Broadcast(Message{Type: TypeWave, Level: level, Boss: boss, Text: WaveText(level, boss)})
}

func (h *Hub) HostileCountChanged(count int) {
	h.Broadcast(Message{Type: TypeHostiles, Count: count, Text: HostilesText(count)})
}

func (h *Hub) ClearedMessage(boss bool) {
	h.Broadcast(Message{Type: TypeCleared, Boss: boss, Text: ClearedText(boss)})
}

func (h *Hub) PortalSearchMessage() {
	h.Broadcast(Message{Type: TypePortal, Text: PortalText()})
}

// register adds c and queues the latest state. It fails once the hub is closed.
func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	for _, t := range replayOrder {
		if data, ok := h.last[t]; ok {
			c.send <- data
		}
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.slots.release(c.ip)
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(c)
			break
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readPump discards inbound frames; it exists to notice disconnects.
func (h *Hub) readPump(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(c)
	logger.Info("Spectator disconnected", "remote", c.conn.RemoteAddr().String())
}
