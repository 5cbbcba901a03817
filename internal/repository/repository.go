// Пакет repository - read-only доступ к таблицам SymmetricDS.
// Все запросы - чистый SQL с плейсхолдерами `?`, без ORM.
// Имена таблиц строятся из настраиваемого префикса (по умолчанию sym).
package repository

import (
	"context"

	"github.com/bigkaa/symds-dashboard/internal/domain/model"
)

// Executor - интерфейс выполнения SELECT.
// Реализуется database.InstrumentedQuerier (PostgreSQL и MySQL).
type Executor interface {
	Query(ctx context.Context, query string, args ...any) ([]model.Row, error)
}

// Tables - имена таблиц SymmetricDS с учётом префикса.
type Tables struct {
	prefix string
}

// NewTables создаёт набор имён. Пустой префикс заменяется на sym.
func NewTables(prefix string) Tables {
	if prefix == "" {
		prefix = "sym"
	}
	return Tables{prefix: prefix}
}

func (t Tables) name(s string) string { return t.prefix + "_" + s }

// Batch возвращает таблицу батчей направления.
func (t Tables) Batch(dir model.Direction) string {
	if dir == model.DirectionIncoming {
		return t.name("incoming_batch")
	}
	return t.name("outgoing_batch")
}

func (t Tables) Data() string      { return t.name("data") }
func (t Tables) DataEvent() string { return t.name("data_event") }
func (t Tables) Node() string      { return t.name("node") }
func (t Tables) NodeHost() string  { return t.name("node_host") }
func (t Tables) NodeGroup() string { return t.name("node_group") }
func (t Tables) Channel() string   { return t.name("channel") }
func (t Tables) Trigger() string   { return t.name("trigger") }
