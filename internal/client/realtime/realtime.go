// Package realtime держит websocket-подписки клиента на изменения коллекций.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iudanet/missionflow/pkg/api"
)

const (
	// pongWait время ожидания любого кадра от сервера
	pongWait = 60 * time.Second
	// writeWait таймаут записи управляющих кадров
	writeWait = 10 * time.Second
)

// Handler вызывается для каждого события изменения
type Handler func(api.ChangeEvent)

// Manager открывает подписки и закрывает их пачкой
type Manager struct {
	dialer  *websocket.Dialer
	token   func() string
	logger  *slog.Logger
	subs    map[uint64]*Subscription
	baseURL string
	nextID  uint64
	mu      sync.Mutex
}

// NewManager создает менеджер подписок для сервера baseURL.
// token вызывается при каждом подключении, может быть nil.
func NewManager(baseURL string, token func() string, logger *slog.Logger) *Manager {
	return &Manager{
		dialer:  &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		token:   token,
		logger:  logger,
		subs:    make(map[uint64]*Subscription),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Subscription одна открытая подписка на коллекцию
type Subscription struct {
	conn       *websocket.Conn
	manager    *Manager
	done       chan struct{}
	collection string
	id         uint64
	closeOnce  sync.Once
}

// Subscribe открывает подписку на изменения коллекции.
// handler вызывается из горутины чтения подписки последовательно.
func (m *Manager) Subscribe(ctx context.Context, collection string, handler Handler) (*Subscription, error) {
	endpoint, err := m.endpoint(collection)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	if m.token != nil {
		if token := m.token(); token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	conn, resp, err := m.dialer.DialContext(ctx, endpoint, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", collection, err)
	}

	m.mu.Lock()
	m.nextID++
	sub := &Subscription{
		conn:       conn,
		manager:    m,
		done:       make(chan struct{}),
		collection: collection,
		id:         m.nextID,
	}
	m.subs[sub.id] = sub
	m.mu.Unlock()

	go sub.readLoop(handler)

	m.logger.Debug("Realtime subscription opened", "collection", collection)
	return sub, nil
}

// CloseAll закрывает все открытые подписки и возвращает их количество
func (m *Manager) CloseAll() int {
	m.mu.Lock()
	subs := make([]*Subscription, 0, len(m.subs))
	for _, sub := range m.subs {
		subs = append(subs, sub)
	}
	m.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Close()
	}
	if len(subs) > 0 {
		m.logger.Info("Realtime subscriptions closed", "count", len(subs))
	}
	return len(subs)
}

// Active возвращает количество открытых подписок
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// Subscribed сообщает, есть ли открытая подписка на коллекцию
func (m *Manager) Subscribed(collection string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.subs {
		if sub.collection == collection {
			return true
		}
	}
	return false
}

func (m *Manager) endpoint(collection string) (string, error) {
	u, err := url.Parse(m.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/v1/realtime"
	u.RawQuery = url.Values{"collection": {collection}}.Encode()
	return u.String(), nil
}

func (m *Manager) forget(id uint64) {
	m.mu.Lock()
	delete(m.subs, id)
	m.mu.Unlock()
}

// Collection возвращает имя коллекции подписки
func (s *Subscription) Collection() string {
	return s.collection
}

// Done закрывается, когда подписка завершена
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close закрывает подписку. Повторный вызов безопасен.
func (s *Subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.manager.forget(s.id)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		err = s.conn.Close()
	})
	return err
}

func (s *Subscription) readLoop(handler Handler) {
	defer func() {
		_ = s.Close()
		close(s.done)
	}()

	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPingHandler(func(appData string) error {
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		err := s.conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(writeWait))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	for {
		var event api.ChangeEvent
		if err := s.conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.manager.logger.Debug("Realtime read failed", "collection", s.collection, "error", err)
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		if handler != nil {
			handler(event)
		}
	}
}
