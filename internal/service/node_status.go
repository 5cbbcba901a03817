// node_status.go - агрегат статуса узлов и синхронизации для карточек дашборда.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bigkaa/symds-dashboard/internal/domain/model"
	"github.com/bigkaa/symds-dashboard/internal/transform"
)

// NodeStatusService - счётчики узлов по статусу и исходящих батчей по статусу.
type NodeStatusService struct {
	repo      NodeReader
	threshold time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewNodeStatusService создаёт сервис. Значения по умолчанию как у NewNodeInfoService.
func NewNodeStatusService(repo NodeReader, threshold time.Duration, now func() time.Time, logger *slog.Logger) *NodeStatusService {
	if threshold <= 0 {
		threshold = DefaultDeadNodeThreshold
	}
	if now == nil {
		now = time.Now
	}
	return &NodeStatusService{
		repo:      repo,
		threshold: threshold,
		now:       now,
		logger:    logger.With(slog.String("component", "node_status_service")),
	}
}

// GetNodeStatusStats запрашивает heartbeat узлов и статистику исходящих
// батчей параллельно и возвращает две независимые коллекции.
func (s *NodeStatusService) GetNodeStatusStats(ctx context.Context) (*model.NodeStatusStats, error) {
	var (
		g          errgroup.Group
		heartbeats []model.Row
		syncRows   []model.Row
	)
	g.Go(func() error {
		var err error
		heartbeats, err = s.repo.NodeHeartbeats(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		syncRows, err = s.repo.SyncBatchStats(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("получение статуса узлов: %w", err)
	}

	return &model.NodeStatusStats{
		NodeStatus: s.countStatuses(heartbeats),
		SyncStats:  transform.SyncStats(syncRows),
	}, nil
}

// countStatuses считает узлы по производному статусу. Порядок элементов -
// порядок первого появления статуса во входных строках.
func (s *NodeStatusService) countStatuses(rows []model.Row) []model.NodeStatusCount {
	now := s.now()
	result := make([]model.NodeStatusCount, 0, 2)
	index := make(map[model.NodeStatus]int, 2)

	for _, row := range rows {
		node := transform.Node(row)
		status := DeriveNodeStatus(node.LastHeartbeat, now, s.threshold)
		i, ok := index[status]
		if !ok {
			i = len(result)
			index[status] = i
			result = append(result, model.NodeStatusCount{Status: status})
		}
		result[i].Count++
	}
	return result
}
