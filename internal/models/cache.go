package models

import (
	"errors"
	"fmt"
	"time"
)

// EntityKind тип кешируемой сущности, совпадает с именем коллекции на сервере
type EntityKind string

const (
	KindTasks         EntityKind = "tasks"
	KindDocuments     EntityKind = "documents_metadata"
	KindMessages      EntityKind = "messages"
	KindTimesheets    EntityKind = "timesheets"
	KindNotifications EntityKind = "notifications"
)

// EntityKinds все кешируемые типы в порядке обновления
var EntityKinds = []EntityKind{
	KindTasks,
	KindDocuments,
	KindMessages,
	KindTimesheets,
	KindNotifications,
}

// ErrNoIdentity означает, что строка сервера не содержит id
var ErrNoIdentity = errors.New("record has no server identity")

// CachedEntity облегченная проекция серверной строки для офлайн-чтения
type CachedEntity interface {
	EntityID() string
	EntityKind() EntityKind
}

// CachedTask проекция задачи
type CachedTask struct {
	LastKnownGood time.Time  `json:"last_known_good"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	ProjectID     string     `json:"project_id,omitempty"`
	AssignedTo    string     `json:"assigned_to,omitempty"`
	Synced        bool       `json:"_synced"`
}

func (t CachedTask) EntityID() string       { return t.ID }
func (t CachedTask) EntityKind() EntityKind { return KindTasks }

// CachedDocument проекция метаданных документа
type CachedDocument struct {
	LastKnownGood time.Time `json:"last_known_good"`
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	MimeType      string    `json:"mime_type,omitempty"`
	ProjectID     string    `json:"project_id,omitempty"`
	UploadedBy    string    `json:"uploaded_by,omitempty"`
	Size          int64     `json:"size"`
}

func (d CachedDocument) EntityID() string       { return d.ID }
func (d CachedDocument) EntityKind() EntityKind { return KindDocuments }

// CachedMessage проекция сообщения
type CachedMessage struct {
	LastKnownGood time.Time `json:"last_known_good"`
	SentAt        time.Time `json:"sent_at"`
	ID            string    `json:"id"`
	SenderID      string    `json:"sender_id"`
	RecipientID   string    `json:"recipient_id"`
	Content       string    `json:"content"`
	Read          bool      `json:"read"`
	Synced        bool      `json:"_synced"`
}

func (m CachedMessage) EntityID() string       { return m.ID }
func (m CachedMessage) EntityKind() EntityKind { return KindMessages }

// CachedTimesheet проекция записи табеля
type CachedTimesheet struct {
	LastKnownGood time.Time `json:"last_known_good"`
	Date          time.Time `json:"date"`
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	TaskID        string    `json:"task_id,omitempty"`
	Status        string    `json:"status"`
	Hours         float64   `json:"hours"`
	Synced        bool      `json:"_synced"`
}

func (t CachedTimesheet) EntityID() string       { return t.ID }
func (t CachedTimesheet) EntityKind() EntityKind { return KindTimesheets }

// CachedNotification проекция уведомления
type CachedNotification struct {
	LastKnownGood time.Time `json:"last_known_good"`
	CreatedAt     time.Time `json:"created_at"`
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Type          string    `json:"type"`
	Link          string    `json:"link,omitempty"`
	Read          bool      `json:"read"`
}

func (n CachedNotification) EntityID() string       { return n.ID }
func (n CachedNotification) EntityKind() EntityKind { return KindNotifications }

// ProjectRecord строит проекцию строки сервера для заданного типа.
// Строка подтверждена сервером, поэтому _synced выставляется в true.
func ProjectRecord(kind EntityKind, r map[string]any, fetchedAt time.Time) (CachedEntity, error) {
	id := stringField(r, IdentityField)
	if id == "" {
		return nil, ErrNoIdentity
	}

	switch kind {
	case KindTasks:
		return CachedTask{
			ID:            id,
			Title:         stringField(r, "title"),
			Status:        stringField(r, "status"),
			Priority:      stringField(r, "priority"),
			DueDate:       optionalTimeField(r, "due_date"),
			ProjectID:     stringField(r, "project_id"),
			AssignedTo:    stringField(r, "assigned_to"),
			Synced:        true,
			LastKnownGood: fetchedAt,
		}, nil
	case KindDocuments:
		return CachedDocument{
			ID:            id,
			Name:          stringField(r, "name"),
			MimeType:      stringField(r, "mime_type"),
			Size:          int64(intField(r, "size")),
			ProjectID:     stringField(r, "project_id"),
			UploadedBy:    stringField(r, "uploaded_by"),
			LastKnownGood: fetchedAt,
		}, nil
	case KindMessages:
		return CachedMessage{
			ID:            id,
			SenderID:      stringField(r, "sender_id"),
			RecipientID:   stringField(r, "recipient_id"),
			Content:       stringField(r, "content"),
			Read:          boolField(r, "read"),
			SentAt:        timeField(r, "created_at"),
			Synced:        true,
			LastKnownGood: fetchedAt,
		}, nil
	case KindTimesheets:
		return CachedTimesheet{
			ID:            id,
			UserID:        stringField(r, "user_id"),
			TaskID:        stringField(r, "task_id"),
			Date:          timeField(r, "date"),
			Hours:         floatField(r, "hours"),
			Status:        stringField(r, "status"),
			Synced:        true,
			LastKnownGood: fetchedAt,
		}, nil
	case KindNotifications:
		return CachedNotification{
			ID:            id,
			UserID:        stringField(r, "user_id"),
			Title:         stringField(r, "title"),
			Message:       stringField(r, "message"),
			Type:          stringField(r, "type"),
			Read:          boolField(r, "read"),
			Link:          stringField(r, "link"),
			CreatedAt:     timeField(r, "created_at"),
			LastKnownGood: fetchedAt,
		}, nil
	}

	return nil, fmt.Errorf("unknown entity kind %q", kind)
}
