// Пакет database - подключение к БД SymmetricDS (PostgreSQL через pgxpool
// или MySQL через database/sql), выполнение read-only запросов и проверка
// готовности.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql" // регистрация драйвера "mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bigkaa/symds-dashboard/internal/config"
)

// DB - открытое подключение к БД репликации.
// Querier выполняет запросы сервисов, SQL используется dephealth
// (для PostgreSQL - адаптер поверх того же пула).
type DB struct {
	Querier Querier
	SQL     *sql.DB
	Driver  string

	pool *pgxpool.Pool
}

// Connect открывает подключение согласно cfg.DBDriver и проверяет его ping.
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*DB, error) {
	var (
		db  *DB
		err error
	)
	switch cfg.DBDriver {
	case config.DriverMySQL:
		db, err = connectMySQL(ctx, cfg)
	default:
		db, err = connectPostgres(ctx, cfg)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Подключение к БД SymmetricDS установлено",
		slog.String("driver", cfg.DBDriver),
		slog.String("host", cfg.DBHost),
		slog.Int("port", cfg.DBPort),
		slog.String("database", cfg.DBName),
	)
	return db, nil
}

// connectPostgres создаёт пул pgxpool и *sql.DB поверх него.
func connectPostgres(ctx context.Context, cfg *config.Config) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания пула подключений: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка подключения к PostgreSQL: %w", err)
	}

	return &DB{
		Querier: NewPostgresQuerier(pool),
		SQL:     stdlib.OpenDBFromPool(pool),
		Driver:  config.DriverPostgres,
		pool:    pool,
	}, nil
}

// connectMySQL открывает *sql.DB с драйвером go-sql-driver/mysql.
func connectMySQL(ctx context.Context, cfg *config.Config) (*DB, error) {
	sqlDB, err := sql.Open("mysql", cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия подключения MySQL: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxConns)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ошибка подключения к MySQL: %w", err)
	}

	return &DB{
		Querier: NewMySQLQuerier(sqlDB),
		SQL:     sqlDB,
		Driver:  config.DriverMySQL,
	}, nil
}

// Ping проверяет доступность БД.
func (db *DB) Ping(ctx context.Context) error {
	if db.pool != nil {
		return db.pool.Ping(ctx)
	}
	return db.SQL.PingContext(ctx)
}

// Close закрывает подключения.
func (db *DB) Close() {
	if db.SQL != nil {
		_ = db.SQL.Close()
	}
	if db.pool != nil {
		db.pool.Close()
	}
}

// Pinger - всё, что умеет проверять доступность БД.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessChecker - проверка готовности БД для health endpoint.
// Реализует интерфейс handlers.ReadinessChecker.
type ReadinessChecker struct {
	db      Pinger
	timeout time.Duration
}

// NewReadinessChecker создаёт проверку готовности БД.
func NewReadinessChecker(db Pinger) *ReadinessChecker {
	return &ReadinessChecker{db: db, timeout: 3 * time.Second}
}

// CheckReady проверяет подключение через ping.
// Возвращает статус ("ok", "fail") и сообщение.
func (c *ReadinessChecker) CheckReady() (status string, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if err := c.db.Ping(ctx); err != nil {
		return "fail", fmt.Sprintf("БД SymmetricDS недоступна: %v", err)
	}
	return "ok", "подключение активно"
}
