package handlers

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/iudanet/missionflow/internal/server/storage"
	"github.com/iudanet/missionflow/pkg/api"
)

// Зарезервированные параметры query string, не являющиеся фильтрами
const (
	paramOrder = "order"
	paramLimit = "limit"
)

// ParseQuery разбирает query string вида field=op.value&order=field.desc&limit=N
func ParseQuery(values url.Values) (api.Query, error) {
	var q api.Query

	if order := values.Get(paramOrder); order != "" {
		field, dir, _ := strings.Cut(order, ".")
		switch dir {
		case "", "asc":
		case "desc":
			q.OrderDesc = true
		default:
			return api.Query{}, fmt.Errorf("%w: bad order direction %q", storage.ErrInvalidQuery, dir)
		}
		q.OrderBy = field
	}

	if limit := values.Get(paramLimit); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return api.Query{}, fmt.Errorf("%w: bad limit %q", storage.ErrInvalidQuery, limit)
		}
		q.Limit = n
	}

	// порядок фильтров детерминирован, чтобы ошибки были воспроизводимы
	fields := make([]string, 0, len(values))
	for field := range values {
		if field != paramOrder && field != paramLimit {
			fields = append(fields, field)
		}
	}
	slices.Sort(fields)

	for _, field := range fields {
		for _, raw := range values[field] {
			op, value, ok := strings.Cut(raw, ".")
			if !ok {
				return api.Query{}, fmt.Errorf("%w: filter %s=%s must be op.value", storage.ErrInvalidQuery, field, raw)
			}
			q.Filters = append(q.Filters, api.Filter{Field: field, Op: api.FilterOp(op), Value: value})
		}
	}

	if err := storage.ValidateQuery(q); err != nil {
		return api.Query{}, err
	}
	return q, nil
}
