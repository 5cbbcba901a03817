// batch_status.go - агрегация статуса батчей обоих направлений:
// списки с фильтрами и счётчики по статусам, четыре запроса параллельно.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/bigkaa/symds-dashboard/internal/domain/model"
	"github.com/bigkaa/symds-dashboard/internal/repository"
	"github.com/bigkaa/symds-dashboard/internal/repository/query"
	"github.com/bigkaa/symds-dashboard/internal/transform"
)

// DefaultBatchLimit - максимум батчей в списке одного направления.
const DefaultBatchLimit = 100

// BatchStatusService - снимок статуса батчей по фильтрам.
type BatchStatusService struct {
	exec   repository.Executor
	tables repository.Tables
	limit  int
	logger *slog.Logger
}

// NewBatchStatusService создаёт сервис. limit <= 0 заменяется на DefaultBatchLimit.
func NewBatchStatusService(exec repository.Executor, tables repository.Tables, limit int, logger *slog.Logger) *BatchStatusService {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	return &BatchStatusService{
		exec:   exec,
		tables: tables,
		limit:  limit,
		logger: logger.With(slog.String("component", "batch_status_service")),
	}
}

// GetBatchStatus выполняет четыре независимых запроса (список и статистика
// для каждого направления) параллельно. Ошибка любого из них возвращается
// целиком, частичный снимок не формируется. Остальные запросы не отменяются.
func (s *BatchStatusService) GetBatchStatus(ctx context.Context, filters model.BatchFilters) (*model.BatchStatusSnapshot, error) {
	s.logger.DebugContext(ctx, "Получение статуса батчей",
		slog.Any("incoming_status", filters.IncomingStatus),
		slog.Any("outgoing_status", filters.OutgoingStatus),
		slog.Any("channel", filters.Channel),
		slog.Any("node_id", filters.NodeID),
	)

	var (
		g                  errgroup.Group
		outgoing, incoming []model.Row
		outStats, inStats  []model.Row
	)

	g.Go(func() error {
		var err error
		outgoing, err = s.query(ctx, s.listQuery(model.DirectionOutgoing, filters.OutgoingStatus, filters))
		return err
	})
	g.Go(func() error {
		var err error
		incoming, err = s.query(ctx, s.listQuery(model.DirectionIncoming, filters.IncomingStatus, filters))
		return err
	})
	g.Go(func() error {
		var err error
		outStats, err = s.query(ctx, s.statsQuery(model.DirectionOutgoing, filters))
		return err
	})
	g.Go(func() error {
		var err error
		inStats, err = s.query(ctx, s.statsQuery(model.DirectionIncoming, filters))
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("получение статуса батчей: %w", err)
	}

	snapshot := &model.BatchStatusSnapshot{
		Outgoing: transform.Batches(outgoing),
		Incoming: transform.Batches(incoming),
		Stats: model.BatchStats{
			Outgoing: transform.Stats(outStats),
			Incoming: transform.Stats(inStats),
		},
	}

	s.logger.DebugContext(ctx, "Статус батчей получен",
		slog.Int("outgoing_count", len(snapshot.Outgoing)),
		slog.Int("incoming_count", len(snapshot.Incoming)),
	)
	return snapshot, nil
}

// listQuery - список батчей направления: статус направления, канал, узел;
// новые первыми, не больше limit.
func (s *BatchStatusService) listQuery(dir model.Direction, status *string, f model.BatchFilters) *query.Builder {
	return query.New(s.tables.Batch(dir)).
		Filters(
			query.Filter{Cond: "status = ?", Value: status},
			query.Filter{Cond: "channel_id = ?", Value: f.Channel},
			query.Filter{Cond: "node_id = ?", Value: f.NodeID},
		).
		Order("create_time", query.Desc).
		Limit(s.limit)
}

// statsQuery - счётчики по статусам. Фильтр статуса не применяется:
// в статистике должны присутствовать все статусы при выбранном канале и узле.
func (s *BatchStatusService) statsQuery(dir model.Direction, f model.BatchFilters) *query.Builder {
	return query.New(s.tables.Batch(dir)).
		Select("status, COUNT(*) AS count").
		Filters(
			query.Filter{Cond: "channel_id = ?", Value: f.Channel},
			query.Filter{Cond: "node_id = ?", Value: f.NodeID},
		).
		Group("status")
}

func (s *BatchStatusService) query(ctx context.Context, b *query.Builder) ([]model.Row, error) {
	q, params := b.Build()
	return s.exec.Query(ctx, q, params...)
}
