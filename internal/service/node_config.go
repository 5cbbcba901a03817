// node_config.go - конфигурация движка репликации: группы узлов, каналы, триггеры.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/bigkaa/symds-dashboard/internal/domain/model"
	"github.com/bigkaa/symds-dashboard/internal/transform"
)

// engineConfigKey - ключ единственной записи кэша.
const engineConfigKey = "engine"

// ConfigReader - запросы к таблицам конфигурации.
type ConfigReader interface {
	NodeGroups(ctx context.Context) ([]model.Row, error)
	Channels(ctx context.Context) ([]model.Row, error)
	Triggers(ctx context.Context) ([]model.Row, error)
}

// NodeConfigService возвращает конфигурацию движка с кэшированием.
type NodeConfigService struct {
	repo   ConfigReader
	cache  *CacheService
	logger *slog.Logger
}

// NewNodeConfigService создаёт сервис. cache может быть nil.
func NewNodeConfigService(repo ConfigReader, cache *CacheService, logger *slog.Logger) *NodeConfigService {
	return &NodeConfigService{
		repo:   repo,
		cache:  cache,
		logger: logger.With(slog.String("component", "node_config_service")),
	}
}

// GetConfiguration запрашивает три таблицы параллельно.
func (s *NodeConfigService) GetConfiguration(ctx context.Context) (*model.EngineConfig, error) {
	if cfg, ok := s.cache.Get(engineConfigKey); ok {
		return cfg, nil
	}

	var (
		g                          errgroup.Group
		groups, channels, triggers []model.Row
	)
	g.Go(func() error {
		var err error
		groups, err = s.repo.NodeGroups(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		channels, err = s.repo.Channels(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		triggers, err = s.repo.Triggers(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("получение конфигурации движка: %w", err)
	}

	cfg := &model.EngineConfig{
		NodeGroups: transform.Map(groups, transform.NodeGroup),
		Channels:   transform.Map(channels, transform.Channel),
		Triggers:   transform.Map(triggers, transform.Trigger),
	}
	s.cache.Set(engineConfigKey, cfg)

	s.logger.DebugContext(ctx, "Конфигурация движка получена",
		slog.Int("node_groups", len(cfg.NodeGroups)),
		slog.Int("channels", len(cfg.Channels)),
		slog.Int("triggers", len(cfg.Triggers)),
	)
	return cfg, nil
}
