// Package state хранит наблюдаемое состояние клиента: сеть, очередь, настройки.
package state

import (
	"sync"
	"time"

	clientsync "github.com/iudanet/missionflow/internal/client/sync"
)

// AppState снимок состояния приложения
type AppState struct {
	LastSync      *clientsync.SyncResult // LastSync итог последнего прохода синхронизации
	LastSyncError string
	PendingCount  int
	FailedCount   int
	Online        bool
	DataSaver     bool
	Hidden        bool // Hidden приложение свернуто (нет активного пользователя)
}

// LastSyncAt время завершения последнего прохода или нулевое время
func (s AppState) LastSyncAt() time.Time {
	if s.LastSync == nil {
		return time.Time{}
	}
	return s.LastSync.FinishedAt
}

// Store потокобезопасный контейнер AppState с подписками.
// Подписчики вызываются вне блокировки состояния, по одному обновлению за раз;
// вызывать Update из подписчика нельзя.
type Store struct {
	subs     map[int]func(AppState)
	state    AppState
	nextID   int
	mu       sync.RWMutex
	notifyMu sync.Mutex
}

// NewStore создает контейнер с начальным состоянием
func NewStore(initial AppState) *Store {
	return &Store{
		state: initial,
		subs:  make(map[int]func(AppState)),
	}
}

// Get возвращает копию текущего состояния
func (s *Store) Get() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Update применяет fn к состоянию и уведомляет подписчиков
func (s *Store) Update(fn func(*AppState)) AppState {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state
	subs := make([]func(AppState), 0, len(s.subs))
	for id := 0; id < s.nextID; id++ {
		if sub, ok := s.subs[id]; ok {
			subs = append(subs, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
	return snapshot
}

// Subscribe регистрирует подписчика, возвращает функцию отписки
func (s *Store) Subscribe(fn func(AppState)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
