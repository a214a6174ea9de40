package models

import "time"

// Operation тип мутации, сохраненной в очереди синхронизации
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationUpsert Operation = "upsert"
	OperationDelete Operation = "delete"
)

// IdentityField имя поля с идентификатором строки в payload
const IdentityField = "id"

// Valid проверяет, что операция входит в допустимый набор
func (o Operation) Valid() bool {
	switch o {
	case OperationCreate, OperationUpdate, OperationUpsert, OperationDelete:
		return true
	}
	return false
}

// RequiresIdentity сообщает, должна ли операция нести id целевой строки
func (o Operation) RequiresIdentity() bool {
	return o == OperationUpdate || o == OperationDelete
}

// ActionStatus статус жизненного цикла действия в очереди
type ActionStatus string

const (
	StatusPending    ActionStatus = "pending"
	StatusProcessing ActionStatus = "processing"
	StatusDone       ActionStatus = "done"
	StatusError      ActionStatus = "error"
)

// QueuedAction представляет одну отложенную мутацию.
// Payload намеренно нетипизирован: очередь воспроизводит действия над
// любой коллекцией без изменения собственной схемы.
type QueuedAction struct {
	Timestamp  time.Time      `json:"timestamp"`  // Timestamp момент постановки в очередь (монотонный)
	UpdatedAt  time.Time      `json:"updated_at"` // UpdatedAt время последней смены статуса
	Payload    map[string]any `json:"payload"`    // Payload поля строки, для update/delete включает id
	Operation  Operation      `json:"operation"`
	Collection string         `json:"collection"`
	Status     ActionStatus   `json:"status"`
	Error      string         `json:"error,omitempty"` // Error описание последней ошибки
	ID         uint64         `json:"id"`              // ID локальный монотонный идентификатор
	Attempts   int            `json:"attempts"`        // Attempts количество неудачных попыток
}

// TargetID возвращает id целевой строки из payload
func (a *QueuedAction) TargetID() string {
	id, _ := Identity(a.Payload)
	return id
}

// Identity возвращает id строки из payload.
// Идентификатором считается только непустая строка.
func Identity(payload map[string]any) (string, bool) {
	id, _ := payload[IdentityField].(string)
	return id, id != ""
}

// HasForeignIdentity сообщает, что поле id задано, но не является
// непустой строкой
func HasForeignIdentity(payload map[string]any) bool {
	v, present := payload[IdentityField]
	if !present || v == nil {
		return false
	}
	_, ok := Identity(payload)
	return !ok
}

// CanTransition проверяет допустимость перехода статуса.
// Переходы монотонны: из done вернуться нельзя, error снимается только
// ручным retry (error -> pending).
func CanTransition(from, to ActionStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusProcessing || to == StatusError
	case StatusProcessing:
		return to == StatusDone || to == StatusError
	case StatusError:
		return to == StatusPending
	}
	return false
}
