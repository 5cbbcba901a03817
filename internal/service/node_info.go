// node_info.go - сведения об узлах топологии со статусом по heartbeat.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bigkaa/symds-dashboard/internal/domain/model"
	"github.com/bigkaa/symds-dashboard/internal/transform"
)

// NodeReader - запросы к узлам (реализуется repository.NodeRepository).
type NodeReader interface {
	Nodes(ctx context.Context) ([]model.Row, error)
	NodeHeartbeats(ctx context.Context) ([]model.Row, error)
	SyncBatchStats(ctx context.Context) ([]model.Row, error)
}

// NodeInfoService - список узлов и сводка ONLINE/OFFLINE.
type NodeInfoService struct {
	repo      NodeReader
	threshold time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewNodeInfoService создаёт сервис. threshold <= 0 заменяется на
// DefaultDeadNodeThreshold, nil now - на time.Now.
func NewNodeInfoService(repo NodeReader, threshold time.Duration, now func() time.Time, logger *slog.Logger) *NodeInfoService {
	if threshold <= 0 {
		threshold = DefaultDeadNodeThreshold
	}
	if now == nil {
		now = time.Now
	}
	return &NodeInfoService{
		repo:      repo,
		threshold: threshold,
		now:       now,
		logger:    logger.With(slog.String("component", "node_info_service")),
	}
}

// GetNodesInfo возвращает узлы с производными полями. Статус вычисляется
// на момент вызова и не кэшируется.
func (s *NodeInfoService) GetNodesInfo(ctx context.Context) ([]model.Node, error) {
	rows, err := s.repo.Nodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение узлов: %w", err)
	}

	now := s.now()
	nodes := make([]model.Node, 0, len(rows))
	for _, row := range rows {
		node := transform.Node(row)
		node.Status = DeriveNodeStatus(node.LastHeartbeat, now, s.threshold)
		nodes = append(nodes, node)
	}

	s.logger.DebugContext(ctx, "Узлы получены", slog.Int("count", len(nodes)))
	return nodes, nil
}

// GetNodesSummary возвращает количество узлов всего, ONLINE и OFFLINE.
func (s *NodeInfoService) GetNodesSummary(ctx context.Context) (model.NodeSummary, error) {
	nodes, err := s.GetNodesInfo(ctx)
	if err != nil {
		return model.NodeSummary{}, err
	}
	return Summarize(nodes), nil
}

// Summarize считает узлы по статусу.
func Summarize(nodes []model.Node) model.NodeSummary {
	summary := model.NodeSummary{Total: len(nodes)}
	for _, n := range nodes {
		if n.Status == model.NodeOnline {
			summary.Online++
		} else {
			summary.Offline++
		}
	}
	return summary
}
