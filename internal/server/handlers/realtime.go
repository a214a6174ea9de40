package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iudanet/missionflow/internal/validation"
	"github.com/iudanet/missionflow/pkg/api"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 64
)

// Hub раздает изменения строк подписчикам realtime канала.
// Каждый подписчик слушает одну коллекцию.
type Hub struct {
	logger   *slog.Logger
	clients  map[*wsClient]struct{}
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	closed   bool
}

type wsClient struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	actorID    string
	collection string
	once       sync.Once
}

// NewHub создает hub realtime подписок
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CLI клиенты не присылают Origin; авторизация по bearer токену
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Publish отправляет событие всем подписчикам коллекции.
// Медленный подписчик с переполненным буфером отключается.
func (h *Hub) Publish(event api.ChangeEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to marshal change event", "error", err)
		return
	}

	h.mu.RLock()
	var slow []*wsClient
	for c := range h.clients {
		if c.collection != event.Collection {
			continue
		}
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Realtime client too slow, disconnecting", "actor_id", c.actorID, "collection", c.collection)
		h.unregister(c)
	}
}

// Clients возвращает количество подключенных подписчиков
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close отключает всех подписчиков; новые подключения отклоняются
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.unregister(c)
	}
}

// ServeWS обрабатывает GET /api/v1/realtime?collection=<name>
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	collection := r.URL.Query().Get("collection")
	if err := validation.ValidateCollection(collection); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid collection", err.Error())
		return
	}

	actorID, _ := GetActorID(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		h.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}

	c := &wsClient{
		hub:        h,
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
		actorID:    actorID,
		collection: collection,
	}
	if !h.register(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	h.logger.Info("Realtime client subscribed", "actor_id", actorID, "collection", collection)

	go c.writePump()
	c.readPump()
}

func (h *Hub) register(c *wsClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if ok {
		c.once.Do(func() { close(c.send) })
		h.logger.Info("Realtime client unsubscribed", "actor_id", c.actorID, "collection", c.collection)
	}
}

// readPump читает входящие кадры, чтобы обрабатывать pong и close.
// Сообщения клиента не имеют смысла и отбрасываются.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("Realtime read error", "error", err)
			}
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
