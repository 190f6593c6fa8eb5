package handler

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sectionserver/sectionserver/pkg/metrics"
)

// EventType type of a preview event
type EventType string

const (
	// EventPageSaved a page aggregate was upserted
	EventPageSaved EventType = "pageSaved"
	// EventMenuSaved the navigation configuration was upserted
	EventMenuSaved EventType = "menuSaved"
)

// Event is broadcast to every connected view after a successful save, so
// open previews can refresh without polling.
type Event struct {
	Type EventType `json:"type"`
	ID   string    `json:"id,omitempty"`
	Slug string    `json:"slug,omitempty"`
}

// Hub fans save events out to connected preview websockets. A slow or gone
// client is dropped, delivery is best effort.
type Hub struct {
	l        *zap.Logger
	upgrader websocket.Upgrader
	mu       sync.Mutex
	writeMu  sync.Mutex
	clients  map[*websocket.Conn]bool
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewHub(l *zap.Logger) *Hub {
	return &Hub{
		l:       l.Named("preview"),
		clients: map[*websocket.Conn]bool{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.l.Warn("failed to upgrade preview connection", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	metrics.PreviewClientsGauge.WithLabelValues().Inc()
	h.l.Debug("preview client connected", zap.String("remote", conn.RemoteAddr().String()))

	// drain control frames until the client goes away
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends the event to every connected view.
func (h *Hub) Broadcast(event Event) {
	h.mu.Lock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		clients = append(clients, conn)
	}
	h.mu.Unlock()

	// gorilla connections allow one concurrent writer only
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for _, conn := range clients {
		if err := conn.WriteJSON(event); err != nil {
			h.l.Debug("dropping preview client", zap.Error(err))
			h.drop(conn)
		}
	}
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		clients = append(clients, conn)
	}
	h.mu.Unlock()

	for _, conn := range clients {
		h.drop(conn)
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	if ok {
		delete(h.clients, conn)
	}
	h.mu.Unlock()
	if ok {
		_ = conn.Close()
		metrics.PreviewClientsGauge.WithLabelValues().Dec()
	}
}
