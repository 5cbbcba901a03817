package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bigkaa/symds-dashboard/internal/domain/model"
)

// Querier выполняет SELECT с плейсхолдерами `?` и возвращает строки
// в виде карт колонка → значение.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) ([]model.Row, error)
}

// PostgresQuerier - Querier поверх pgxpool. Плейсхолдеры переводятся в $n.
type PostgresQuerier struct {
	pool *pgxpool.Pool
}

// NewPostgresQuerier создаёт Querier для PostgreSQL.
func NewPostgresQuerier(pool *pgxpool.Pool) *PostgresQuerier {
	return &PostgresQuerier{pool: pool}
}

// Query выполняет запрос и собирает все строки.
func (q *PostgresQuerier) Query(ctx context.Context, query string, args ...any) ([]model.Row, error) {
	rows, err := q.pool.Query(ctx, Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	result, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MySQLQuerier - Querier поверх database/sql с драйвером MySQL.
type MySQLQuerier struct {
	db *sql.DB
}

// NewMySQLQuerier создаёт Querier для MySQL.
func NewMySQLQuerier(db *sql.DB) *MySQLQuerier {
	return &MySQLQuerier{db: db}
}

// Query выполняет запрос и собирает все строки.
// []byte из текстового протокола MySQL переводится в string.
func (q *MySQLQuerier) Query(ctx context.Context, query string, args ...any) ([]model.Row, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

// scanner - подмножество *sql.Rows, нужное для чтения результата.
type scanner interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRows(rows scanner) ([]model.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("чтение колонок: %w", err)
	}

	result := make([]model.Row, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("сканирование строки: %w", err)
		}

		row := make(model.Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
