package api

import "time"

// ChangeType тип изменения строки в realtime потоке
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// ChangeEvent сообщение realtime канала об изменении строки коллекции
type ChangeEvent struct {
	CommitTimestamp time.Time  `json:"commit_timestamp"`
	Record          Record     `json:"record,omitempty"`
	Type            ChangeType `json:"type"`
	Collection      string     `json:"collection"`
	OldID           string     `json:"old_id,omitempty"`
}
