// dephealth.go - мониторинг БД SymmetricDS через topologymetrics SDK.
//
// Проверка идёт через существующий пул соединений (для PostgreSQL -
// pgxpool -> *sql.DB, для MySQL - *sql.DB драйвера), поэтому исчерпание
// пула видно в метриках. Зависимость критическая.
//
// Метрики публикуются на /metrics:
//   - app_dependency_health - состояние зависимости (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds - задержка проверки
//   - app_dependency_status - категория статуса
package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/mysqlcheck"
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bigkaa/symds-dashboard/internal/config"
)

// dependencyName - имя БД SymmetricDS в графе зависимостей.
const dependencyName = "symmetricds-db"

// DephealthConfig - параметры мониторинга зависимостей.
type DephealthConfig struct {
	// ServiceID - имя вершины графа текущего приложения.
	ServiceID string
	// Group - SD_DEPHEALTH_GROUP.
	Group string
	// Driver - SD_DB_DRIVER.
	Driver string
	// DB - *sql.DB поверх пула приложения.
	DB *sql.DB
	// DBURL - URL БД без пароля, из него берутся лейблы host/port.
	DBURL string
	// CheckInterval - SD_DEPHEALTH_CHECK_INTERVAL.
	CheckInterval time.Duration
	// Registerer - registry для метрик; nil означает глобальный.
	Registerer prometheus.Registerer
}

// DephealthService - периодическая проверка БД SymmetricDS.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService создаёт мониторинг БД для драйвера cfg.Driver.
func NewDephealthService(cfg DephealthConfig, logger *slog.Logger) (*DephealthService, error) {
	logger = logger.With(slog.String("component", "dephealth"))

	var dep dephealth.Option
	switch cfg.Driver {
	case config.DriverPostgres:
		dep = dephealth.AddDependency(dependencyName, dephealth.TypePostgres,
			pgcheck.New(pgcheck.WithDB(cfg.DB)),
			dephealth.FromURL(cfg.DBURL),
			dephealth.CheckInterval(cfg.CheckInterval),
			dephealth.Critical(true),
		)
	case config.DriverMySQL:
		dep = dephealth.AddDependency(dependencyName, dephealth.TypeMySQL,
			mysqlcheck.New(mysqlcheck.WithDB(cfg.DB)),
			dephealth.FromURL(cfg.DBURL),
			dephealth.CheckInterval(cfg.CheckInterval),
			dephealth.Critical(true),
		)
	default:
		return nil, fmt.Errorf("мониторинг зависимостей: неизвестный драйвер %q", cfg.Driver)
	}

	opts := []dephealth.Option{dephealth.WithLogger(logger), dep}
	if cfg.Registerer != nil {
		opts = append(opts, dephealth.WithRegisterer(cfg.Registerer))
	}

	dh, err := dephealth.New(cfg.ServiceID, cfg.Group, opts...)
	if err != nil {
		return nil, err
	}
	return &DephealthService{dh: dh, logger: logger}, nil
}

// Start запускает периодические проверки.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг БД SymmetricDS запущен")
	return ds.dh.Start(ctx)
}

// Stop останавливает проверки.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг БД SymmetricDS остановлен")
}
