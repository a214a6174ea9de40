package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// CollectionPattern определяет допустимый формат имени коллекции
// Только строчные латинские буквы, цифры и нижнее подчеркивание,
// первый символ - буква. Длина: 1-63 символа
var CollectionPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

// FieldPattern определяет допустимый формат имени поля в фильтрах и сортировке
var FieldPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)

const (
	// MaxIdentityLen максимальная длина идентификатора строки
	MaxIdentityLen = 128
)

// ValidateCollection проверяет имя коллекции.
// Имя попадает в SQL-запросы и URL, поэтому формат строгий.
func ValidateCollection(name string) error {
	if name == "" {
		return fmt.Errorf("collection name cannot be empty")
	}

	if !CollectionPattern.MatchString(name) {
		return fmt.Errorf("invalid collection name %q: only lowercase letters, digits and underscores are allowed", name)
	}

	return nil
}

// ValidateField проверяет имя поля строки
func ValidateField(name string) error {
	if name == "" {
		return fmt.Errorf("field name cannot be empty")
	}

	if !FieldPattern.MatchString(name) {
		return fmt.Errorf("invalid field name %q", name)
	}

	return nil
}

// ValidateIdentity проверяет идентификатор строки
func ValidateIdentity(id string) error {
	if id == "" {
		return fmt.Errorf("identity cannot be empty")
	}

	if len(id) > MaxIdentityLen {
		return fmt.Errorf("identity must not exceed %d characters", MaxIdentityLen)
	}

	if strings.ContainsAny(id, "/?#% \t\r\n") {
		return fmt.Errorf("identity contains forbidden characters")
	}

	return nil
}
