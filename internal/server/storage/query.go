package storage

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/iudanet/missionflow/internal/models"
	"github.com/iudanet/missionflow/internal/validation"
	"github.com/iudanet/missionflow/pkg/api"
)

// ValidateQuery проверяет имена полей и операторы выборки
func ValidateQuery(q api.Query) error {
	for _, f := range q.Filters {
		if err := validation.ValidateField(f.Field); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
		}
		switch f.Op {
		case api.OpEq, api.OpNeq, api.OpGt, api.OpGte, api.OpLt, api.OpLte:
		case api.OpIs:
			switch f.Value {
			case "null", "notnull", "true", "false":
			default:
				return fmt.Errorf("%w: unsupported is.%s", ErrInvalidQuery, f.Value)
			}
		case api.OpIn:
			if _, err := parseList(f.Value); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unsupported operator %q", ErrInvalidQuery, f.Op)
		}
	}
	if q.OrderBy != "" {
		if err := validation.ValidateField(q.OrderBy); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
		}
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: negative limit", ErrInvalidQuery)
	}
	return nil
}

// ApplyQuery фильтрует, сортирует и обрезает строки.
// Строки без сортировки упорядочены по id, чтобы ответ был детерминирован.
func ApplyQuery(records []api.Record, q api.Query) ([]api.Record, error) {
	if err := ValidateQuery(q); err != nil {
		return nil, err
	}

	out := make([]api.Record, 0, len(records))
	for _, r := range records {
		if matchAll(r, q.Filters) {
			out = append(out, r)
		}
	}

	slices.SortStableFunc(out, func(a, b api.Record) int {
		if q.OrderBy != "" {
			if c := compareForOrder(a[q.OrderBy], b[q.OrderBy], q.OrderDesc); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID(), b.ID())
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func matchAll(r api.Record, filters []api.Filter) bool {
	for _, f := range filters {
		if !match(r[f.Field], f) {
			return false
		}
	}
	return true
}

func match(v any, f api.Filter) bool {
	switch f.Op {
	case api.OpIs:
		switch f.Value {
		case "null":
			return v == nil
		case "notnull":
			return v != nil
		default:
			b, ok := v.(bool)
			return ok && strconv.FormatBool(b) == f.Value
		}
	case api.OpIn:
		if v == nil {
			return false
		}
		items, _ := parseList(f.Value)
		for _, item := range items {
			if c, ok := compareValue(v, item); ok && c == 0 {
				return true
			}
		}
		return false
	}

	// null не сравнимо ни с чем, включая neq
	if v == nil {
		return false
	}
	c, ok := compareValue(v, f.Value)
	if !ok {
		return false
	}
	switch f.Op {
	case api.OpEq:
		return c == 0
	case api.OpNeq:
		return c != 0
	case api.OpGt:
		return c > 0
	case api.OpGte:
		return c >= 0
	case api.OpLt:
		return c < 0
	case api.OpLte:
		return c <= 0
	}
	return false
}

// compareValue сравнивает значение поля с литералом из query string.
// Литерал приводится к типу значения: число, bool, время или строка.
func compareValue(v any, literal string) (int, bool) {
	switch x := v.(type) {
	case float64:
		n, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return 0, false
		}
		return cmp.Compare(x, n), true
	case bool:
		b, err := strconv.ParseBool(literal)
		if err != nil {
			return 0, false
		}
		if x == b {
			return 0, true
		}
		if !x {
			return -1, true
		}
		return 1, true
	case string:
		if t, ok := models.ParseTime(x); ok {
			if lt, ok := models.ParseTime(literal); ok {
				return t.Compare(lt), true
			}
		}
		return strings.Compare(x, literal), true
	}
	return 0, false
}

// compareForOrder упорядочивает значения одного поля; null всегда в конце
func compareForOrder(a, b any, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	c := compareAny(a, b)
	if desc {
		return -c
	}
	return c
}

func compareAny(a, b any) int {
	switch x := a.(type) {
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			return cmp.Compare(boolRank(x), boolRank(y))
		}
	case string:
		if y, ok := b.(string); ok {
			tx, okx := models.ParseTime(x)
			ty, oky := models.ParseTime(y)
			if okx && oky {
				return tx.Compare(ty)
			}
			return strings.Compare(x, y)
		}
	}
	// разные типы: детерминированный порядок по имени типа
	return cmp.Compare(fmt.Sprintf("%T", a), fmt.Sprintf("%T", b))
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseList разбирает значение in.(a,b,"c d")
func parseList(value string) ([]string, error) {
	if !strings.HasPrefix(value, "(") || !strings.HasSuffix(value, ")") {
		return nil, fmt.Errorf("%w: in list must be wrapped in parentheses", ErrInvalidQuery)
	}
	inner := strings.TrimSpace(value[1 : len(value)-1])
	if inner == "" {
		return nil, nil
	}
	parts := strings.Split(inner, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if unq, err := strconv.Unquote(p); err == nil {
			p = unq
		}
		items = append(items, p)
	}
	return items, nil
}
