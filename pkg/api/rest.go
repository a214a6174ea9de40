package api

import "strings"

// Record представляет одну строку коллекции в формате JSON-объекта
type Record map[string]any

// ID возвращает значение поля "id" записи или пустую строку
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// FilterOp оператор фильтра в query string (field=op.value)
type FilterOp string

const (
	OpEq  FilterOp = "eq"
	OpNeq FilterOp = "neq"
	OpGt  FilterOp = "gt"
	OpGte FilterOp = "gte"
	OpLt  FilterOp = "lt"
	OpLte FilterOp = "lte"
	OpIs  FilterOp = "is" // is.null / is.notnull
	OpIn  FilterOp = "in" // in.(a,b,c)
)

// Filter одно условие выборки
type Filter struct {
	Field string   `json:"field"`
	Op    FilterOp `json:"op"`
	Value string   `json:"value"`
}

// Query описывает выборку строк коллекции
type Query struct {
	Filters   []Filter
	OrderBy   string
	Limit     int
	OrderDesc bool
}

// Eq добавляет фильтр равенства
func (q Query) Eq(field, value string) Query {
	q.Filters = append(q.Filters, Filter{Field: field, Op: OpEq, Value: value})
	return q
}

// Where добавляет произвольный фильтр
func (q Query) Where(field string, op FilterOp, value string) Query {
	q.Filters = append(q.Filters, Filter{Field: field, Op: op, Value: value})
	return q
}

// In добавляет фильтр field=in.(v1,v2,...)
func (q Query) In(field string, values ...string) Query {
	q.Filters = append(q.Filters, Filter{Field: field, Op: OpIn, Value: "(" + strings.Join(values, ",") + ")"})
	return q
}

// NotNull добавляет фильтр field=is.notnull
func (q Query) NotNull(field string) Query {
	q.Filters = append(q.Filters, Filter{Field: field, Op: OpIs, Value: "notnull"})
	return q
}

// Order задает сортировку
func (q Query) Order(field string, desc bool) Query {
	q.OrderBy = field
	q.OrderDesc = desc
	return q
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
