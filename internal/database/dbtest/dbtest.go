// Пакет dbtest - интеграционное окружение для тестов: PostgreSQL в
// testcontainers со схемой SymmetricDS и тестовыми данными (golang-migrate).
// Тесты запускаются только при установленной TEST_INTEGRATION.
package dbtest

import (
	"context"
	"embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bigkaa/symds-dashboard/internal/config"
	"github.com/bigkaa/symds-dashboard/internal/database"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	testDBName     = "symmetric_test"
	testDBUser     = "symmetric"
	testDBPassword = "test-password"
)

// Setup запускает PostgreSQL в Docker-контейнере, применяет схему и
// тестовые данные, возвращает конфиг для подключения.
func Setup(t *testing.T) *config.Config {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase(testDBName),
		postgres.WithUsername(testDBUser),
		postgres.WithPassword(testDBPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}
	portNum, err := strconv.Atoi(port.Port())
	if err != nil {
		t.Fatalf("Некорректный порт контейнера %q: %v", port.Port(), err)
	}

	cfg := &config.Config{
		DBDriver:           config.DriverPostgres,
		DBHost:             host,
		DBPort:             portNum,
		DBName:             testDBName,
		DBUser:             testDBUser,
		DBPassword:         testDBPassword,
		DBSSLMode:          "disable",
		DBMaxConns:         4,
		TablePrefix:        "sym",
		BatchLimit:         100,
		DeadNodeThreshold:  30 * time.Minute,
		SlowQueryThreshold: time.Second,
	}

	if err := applyMigrations(cfg); err != nil {
		t.Fatalf("Не удалось применить миграции: %v", err)
	}

	return cfg
}

// Connect поднимает окружение через Setup и открывает подключение.
func Connect(t *testing.T) (*config.Config, *database.DB) {
	t.Helper()

	cfg := Setup(t)
	db, err := database.Connect(context.Background(), cfg, Logger())
	if err != nil {
		t.Fatalf("database.Connect() вернул ошибку: %v", err)
	}
	t.Cleanup(db.Close)
	return cfg, db
}

// Logger возвращает логгер, отбрасывающий вывод.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// applyMigrations применяет embedded миграции через golang-migrate (драйвер pgx5).
func applyMigrations(cfg *config.Config) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("ошибка создания источника миграций: %w", err)
	}

	dbURL := fmt.Sprintf(
		"pgx5://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode,
	)

	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return fmt.Errorf("ошибка инициализации миграций: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("ошибка применения миграций: %w", err)
	}
	return nil
}
