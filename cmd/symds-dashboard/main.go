// Точка входа SymmetricDS Dashboard - read-only API мониторинга репликации.
// Загружает конфигурацию, подключается к БД SymmetricDS (PostgreSQL или MySQL),
// создаёт репозиторий и сервисный слой, запускает topologymetrics и
// HTTP-сервер с OpenAPI валидацией и graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/bigkaa/symds-dashboard/internal/api/handlers"
	"github.com/bigkaa/symds-dashboard/internal/api/middleware"
	"github.com/bigkaa/symds-dashboard/internal/api/openapi"
	"github.com/bigkaa/symds-dashboard/internal/config"
	"github.com/bigkaa/symds-dashboard/internal/database"
	"github.com/bigkaa/symds-dashboard/internal/repository"
	"github.com/bigkaa/symds-dashboard/internal/server"
	"github.com/bigkaa/symds-dashboard/internal/service"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("SymmetricDS Dashboard запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("env", cfg.Env),
	)

	// 3. Подключение к БД SymmetricDS
	ctx := context.Background()
	db, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к БД SymmetricDS", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	// 4. Исполнитель запросов с логированием и метриками
	querier := database.NewInstrumentedQuerier(db.Querier, db.Driver, cfg.SlowQueryThreshold, logger)
	tables := repository.NewTables(cfg.TablePrefix)

	// 5. Repositories
	nodeRepo := repository.NewNodeRepository(querier, tables)

	// 6. Services
	batchStatusSvc := service.NewBatchStatusService(querier, tables, cfg.BatchLimit, logger)
	batchDataSvc := service.NewBatchDataService(querier, tables, cfg.BatchLimit, logger)
	batchSvc := service.NewBatchService(batchStatusSvc, batchDataSvc, nodeRepo, logger)
	nodeInfoSvc := service.NewNodeInfoService(nodeRepo, cfg.DeadNodeThreshold, time.Now, logger)
	nodeStatusSvc := service.NewNodeStatusService(nodeRepo, cfg.DeadNodeThreshold, time.Now, logger)
	configCache := service.NewCacheService(cfg.ConfigCacheSize, cfg.ConfigCacheTTL)
	nodeConfigSvc := service.NewNodeConfigService(nodeRepo, configCache, logger)

	// 7. topologymetrics - мониторинг БД SymmetricDS
	dephealthSvc, err := service.NewDephealthService(service.DephealthConfig{
		ServiceID:     "symds-dashboard",
		Group:         cfg.DephealthGroup,
		Driver:        db.Driver,
		DB:            db.SQL,
		DBURL:         cfg.DatabaseURL(),
		CheckInterval: cfg.DephealthCheckInterval,
	}, logger)
	if err != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", err.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			defer dephealthSvc.Stop()
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 8. Health и API handlers
	healthHandler := handlers.NewHealthHandler(database.NewReadinessChecker(db))
	apiHandler := handlers.NewAPIHandler(
		healthHandler,
		batchSvc,
		nodeInfoSvc,
		nodeStatusSvc,
		nodeConfigSvc,
		cfg.DevMode(),
		logger,
	)

	// 9. Валидация запросов по OpenAPI контракту
	routeOpts := handlers.RouterOptions{ErrorHandlerFunc: apiHandler.ParamErrorHandler}
	if cfg.OpenAPIValidation {
		doc, docErr := openapi.Load()
		if docErr != nil {
			logger.Error("Ошибка загрузки OpenAPI контракта", slog.String("error", docErr.Error()))
			os.Exit(1)
		}
		routeOpts.Middlewares = []handlers.MiddlewareFunc{middleware.OpenAPIValidator(doc)}
		logger.Info("OpenAPI валидация запросов включена")
	}

	// 10. HTTP-сервер
	srv := server.New(cfg, logger, apiHandler, routeOpts,
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.MetricsMiddleware(),
	)

	// 11. Запуск сервера (блокирующий вызов с graceful shutdown)
	if err := srv.Run(ctx); err != nil {
		logger.Error("Сервер завершился с ошибкой", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("SymmetricDS Dashboard остановлен")
}
