// batch.go - оркестратор операций с батчами для HTTP-слоя:
// валидация направления, детали батча, данные батча, каналы.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bigkaa/symds-dashboard/internal/domain/model"
	"github.com/bigkaa/symds-dashboard/internal/transform"
)

// ChannelReader - источник списка каналов, встречающихся в батчах.
type ChannelReader interface {
	UniqueChannels(ctx context.Context) ([]model.Row, error)
}

// BatchService объединяет BatchStatusService и BatchDataService.
type BatchService struct {
	status   *BatchStatusService
	data     *BatchDataService
	channels ChannelReader
	logger   *slog.Logger
}

// NewBatchService создаёт оркестратор.
func NewBatchService(status *BatchStatusService, data *BatchDataService, channels ChannelReader, logger *slog.Logger) *BatchService {
	return &BatchService{
		status:   status,
		data:     data,
		channels: channels,
		logger:   logger.With(slog.String("component", "batch_service")),
	}
}

// GetBatchStatus возвращает снимок статуса батчей.
func (s *BatchService) GetBatchStatus(ctx context.Context, filters model.BatchFilters) (*model.BatchStatusSnapshot, error) {
	return s.status.GetBatchStatus(ctx, filters)
}

// GetBatchDetails возвращает батч направления. Для исходящих батчей
// добавляются события данных. ErrNotFound, если батча нет.
func (s *BatchService) GetBatchDetails(ctx context.Context, batchID int64, direction string) (*model.BatchDetail, error) {
	dir, err := ValidateDirection(direction)
	if err != nil {
		return nil, err
	}

	row, err := s.data.FetchBatch(ctx, batchID, dir)
	if err != nil {
		return nil, fmt.Errorf("получение батча %d (%s): %w", batchID, dir, err)
	}
	if row == nil {
		s.logger.DebugContext(ctx, "Батч не найден",
			slog.Int64("batch_id", batchID),
			slog.String("direction", string(dir)),
		)
		return nil, ErrNotFound
	}

	detail := &model.BatchDetail{Batch: transform.Batch(row)}
	if dir == model.DirectionOutgoing {
		detail.DataEvents = s.data.FetchBatchDataEvents(ctx, batchID)
	}
	return detail, nil
}

// GetBatchData возвращает данные батча. Для отсутствующего батча -
// пустой список без ошибки.
func (s *BatchService) GetBatchData(ctx context.Context, batchID int64, direction string) ([]model.DataEntry, error) {
	dir, err := ValidateDirection(direction)
	if err != nil {
		return nil, err
	}

	exists, err := s.data.BatchExists(ctx, batchID, dir)
	if err != nil {
		return nil, fmt.Errorf("проверка батча %d (%s): %w", batchID, dir, err)
	}
	if !exists {
		s.logger.DebugContext(ctx, "Батч не найден, данные пусты",
			slog.Int64("batch_id", batchID),
			slog.String("direction", string(dir)),
		)
		return []model.DataEntry{}, nil
	}

	entries, err := s.data.GetBatchData(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("получение данных батча %d: %w", batchID, err)
	}
	return entries, nil
}

// GetUniqueChannels возвращает отсортированный список каналов обоих направлений.
func (s *BatchService) GetUniqueChannels(ctx context.Context) ([]string, error) {
	rows, err := s.channels.UniqueChannels(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение каналов: %w", err)
	}
	return transform.ChannelIDs(rows), nil
}
