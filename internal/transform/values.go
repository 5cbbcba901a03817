// Пакет transform - единственная граница перевода строк БД (snake_case)
// в доменные модели (camelCase в JSON).
//
// Драйверы возвращают значения разных типов для одной и той же колонки
// (pgx: int16/int32/int64, time.Time; MySQL: int64, string, []byte),
// поэтому чтение колонок выполняется через приведение ниже.
package transform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/bigkaa/symds-dashboard/internal/domain/model"
)

// Форматы времени, которые встречаются в текстовом представлении колонок.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// int64Valuer - числовые типы pgtype (Numeric и др.).
type int64Valuer interface {
	Int64Value() (pgtype.Int8, error)
}

// asInt64 приводит значение колонки к int64. ok=false для NULL и
// нечисловых значений.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case int8:
		return int64(n), true
	case int:
		return int64(n), true
	case uint64:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint8:
		return int64(n), true
	case float64:
		return int64(n), true
	case float32:
		return int64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		return parseInt(n)
	case []byte:
		return parseInt(string(n))
	case int64Valuer:
		i, err := n.Int64Value()
		if err != nil || !i.Valid {
			return 0, false
		}
		return i.Int64, true
	default:
		return 0, false
	}
}

func parseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}

// intOrZero возвращает число или 0 для отсутствующего значения.
func intOrZero(v any) int64 {
	n, _ := asInt64(v)
	return n
}

// intPtr возвращает указатель на число или nil.
func intPtr(v any) *int64 {
	n, ok := asInt64(v)
	if !ok {
		return nil
	}
	return &n
}

// asString приводит значение колонки к строке. ok=false для NULL.
func asString(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", false
	case string:
		return s, true
	case []byte:
		return string(s), true
	case fmt.Stringer:
		return s.String(), true
	default:
		return fmt.Sprint(v), true
	}
}

// stringOrEmpty возвращает строку или "" для NULL.
func stringOrEmpty(v any) string {
	s, _ := asString(v)
	return s
}

// stringPtr возвращает указатель на строку или nil для NULL.
func stringPtr(v any) *string {
	s, ok := asString(v)
	if !ok {
		return nil
	}
	return &s
}

// timePtr приводит значение колонки ко времени. nil для NULL и
// нераспознанного текста.
func timePtr(v any) *time.Time {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return &t
	case *time.Time:
		return t
	case pgtype.Timestamp:
		if !t.Valid {
			return nil
		}
		return &t.Time
	case pgtype.Timestamptz:
		if !t.Valid {
			return nil
		}
		return &t.Time
	case string:
		return parseTime(t)
	case []byte:
		return parseTime(string(t))
	default:
		return nil
	}
}

func parseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// flag трактует smallint/tinyint/boolean-колонку: true только для 1.
func flag(v any) bool {
	n, ok := asInt64(v)
	return ok && n == 1
}

// column возвращает значение колонки без учёта регистра имени.
// MySQL возвращает алиасы в регистре запроса, PostgreSQL - в нижнем.
func column(row model.Row, name string) any {
	if v, ok := row[name]; ok {
		return v
	}
	for k, v := range row {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return nil
}
