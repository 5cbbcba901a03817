// Пакет query - построитель параметризованных SELECT-запросов
// с необязательными фильтрами.
//
// Условие WHERE добавляется только если его значение задано: nil и
// nil-указатель означают «фильтр не задан», пустая строка и 0 - заданы.
// Плейсхолдеры всегда `?`; перевод в диалект ($1, $2, ...) выполняет executor.
package query

import (
	"reflect"
	"strconv"
	"strings"
)

// Порядок сортировки.
const (
	Asc  = "ASC"
	Desc = "DESC"
)

// Filter - пара (условие, необязательное значение) для декларативного
// применения через Builder.Filters.
type Filter struct {
	Cond  string
	Value any
}

// Builder собирает один SELECT. Не потокобезопасен, используется в пределах
// одного запроса.
type Builder struct {
	table      string
	fields     string
	conditions []string
	params     []any
	orderBy    string
	groupBy    string
	limit      int
	hasLimit   bool
}

// New создаёт построитель для таблицы (или выражения FROM с JOIN).
func New(table string) *Builder {
	return &Builder{table: table, fields: "*"}
}

// Select задаёт список полей. Повторный вызов заменяет предыдущий.
func (b *Builder) Select(fields string) *Builder {
	if fields != "" {
		b.fields = fields
	}
	return b
}

// Where добавляет условие с одним плейсхолдером, если value задано.
// Ненулевой указатель разыменовывается.
func (b *Builder) Where(cond string, value any) *Builder {
	v, ok := present(value)
	if !ok {
		return b
	}
	b.conditions = append(b.conditions, cond)
	b.params = append(b.params, v)
	return b
}

// Filters применяет список фильтров по правилам Where.
func (b *Builder) Filters(filters ...Filter) *Builder {
	for _, f := range filters {
		b.Where(f.Cond, f.Value)
	}
	return b
}

// Order задаёт сортировку. Пустое направление означает DESC.
func (b *Builder) Order(field, direction string) *Builder {
	dir := strings.ToUpper(strings.TrimSpace(direction))
	if dir != Asc {
		dir = Desc
	}
	b.orderBy = field + " " + dir
	return b
}

// Limit задаёт LIMIT.
func (b *Builder) Limit(n int) *Builder {
	b.limit = n
	b.hasLimit = true
	return b
}

// Group задаёт GROUP BY.
func (b *Builder) Group(field string) *Builder {
	b.groupBy = field
	return b
}

// Build возвращает текст запроса и параметры в порядке плейсхолдеров.
// Порядок секций: SELECT, FROM, WHERE, GROUP BY, ORDER BY, LIMIT.
func (b *Builder) Build() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(b.fields)
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)

	if len(b.conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.conditions, " AND "))
	}
	if b.groupBy != "" {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(b.groupBy)
	}
	if b.orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(b.orderBy)
	}
	if b.hasLimit {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(b.limit))
	}

	params := make([]any, len(b.params))
	copy(params, b.params)
	return sb.String(), params
}

// present возвращает значение фильтра и признак того, что оно задано.
func present(value any) (any, bool) {
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		return rv.Elem().Interface(), true
	}
	return value, true
}
