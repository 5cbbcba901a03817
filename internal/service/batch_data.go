// batch_data.go - данные конкретного батча: существование, строки sym_data
// и события sym_data_event.
package service

import (
	"context"
	"log/slog"

	"github.com/bigkaa/symds-dashboard/internal/domain/model"
	"github.com/bigkaa/symds-dashboard/internal/repository"
	"github.com/bigkaa/symds-dashboard/internal/repository/query"
	"github.com/bigkaa/symds-dashboard/internal/transform"
)

// BatchDataService - запросы к данным батча.
type BatchDataService struct {
	exec   repository.Executor
	tables repository.Tables
	limit  int
	logger *slog.Logger
}

// NewBatchDataService создаёт сервис. limit <= 0 заменяется на DefaultBatchLimit.
func NewBatchDataService(exec repository.Executor, tables repository.Tables, limit int, logger *slog.Logger) *BatchDataService {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	return &BatchDataService{
		exec:   exec,
		tables: tables,
		limit:  limit,
		logger: logger.With(slog.String("component", "batch_data_service")),
	}
}

// FetchBatch возвращает строку батча направления или nil, если её нет.
func (s *BatchDataService) FetchBatch(ctx context.Context, batchID int64, dir model.Direction) (model.Row, error) {
	q, params := query.New(s.tables.Batch(dir)).
		Where("batch_id = ?", batchID).
		Limit(1).
		Build()

	rows, err := s.exec.Query(ctx, q, params...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// BatchExists проверяет наличие батча в таблице направления.
func (s *BatchDataService) BatchExists(ctx context.Context, batchID int64, dir model.Direction) (bool, error) {
	q, params := query.New(s.tables.Batch(dir)).
		Select("batch_id").
		Where("batch_id = ?", batchID).
		Limit(1).
		Build()

	rows, err := s.exec.Query(ctx, q, params...)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// GetBatchData возвращает изменения строк, перенесённые батчем,
// в порядке data_id, не больше limit.
func (s *BatchDataService) GetBatchData(ctx context.Context, batchID int64) ([]model.DataEntry, error) {
	q, params := query.New(s.tables.DataEvent()+" de JOIN "+s.tables.Data()+" d ON de.data_id = d.data_id").
		Select("d.*").
		Where("de.batch_id = ?", batchID).
		Order("d.data_id", query.Asc).
		Limit(s.limit).
		Build()

	rows, err := s.exec.Query(ctx, q, params...)
	if err != nil {
		return nil, err
	}
	return transform.DataEntries(rows), nil
}

// FetchBatchDataEvents возвращает события данных батча. Ошибка запроса
// не прерывает формирование деталей батча: она логируется, результат пуст.
func (s *BatchDataService) FetchBatchDataEvents(ctx context.Context, batchID int64) []model.DataEvent {
	q, params := query.New(s.tables.DataEvent()+" de LEFT JOIN "+s.tables.Data()+" d ON de.data_id = d.data_id").
		Select("de.data_id, de.batch_id, de.router_id, de.create_time, d.table_name").
		Where("de.batch_id = ?", batchID).
		Order("de.data_id", query.Asc).
		Limit(s.limit).
		Build()

	rows, err := s.exec.Query(ctx, q, params...)
	if err != nil {
		s.logger.WarnContext(ctx, "События данных батча недоступны, возвращается пустой список",
			slog.Int64("batch_id", batchID),
			slog.String("error", err.Error()),
		)
		return []model.DataEvent{}
	}
	return transform.DataEvents(rows)
}
