// handler.go - основной обработчик API, реализующий ServerInterface.
// Объединяет health и бизнес-обработчики, делегируя запросы в сервисный слой.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/symds-dashboard/internal/api/errors"
	"github.com/bigkaa/symds-dashboard/internal/api/openapi"
	"github.com/bigkaa/symds-dashboard/internal/database"
	"github.com/bigkaa/symds-dashboard/internal/domain/model"
	"github.com/bigkaa/symds-dashboard/internal/service"
)

// BatchReader - операции с батчами (service.BatchService).
type BatchReader interface {
	GetBatchStatus(ctx context.Context, filters model.BatchFilters) (*model.BatchStatusSnapshot, error)
	GetBatchDetails(ctx context.Context, batchID int64, direction string) (*model.BatchDetail, error)
	GetBatchData(ctx context.Context, batchID int64, direction string) ([]model.DataEntry, error)
	GetUniqueChannels(ctx context.Context) ([]string, error)
}

// NodeInfoReader - сведения об узлах (service.NodeInfoService).
type NodeInfoReader interface {
	GetNodesInfo(ctx context.Context) ([]model.Node, error)
	GetNodesSummary(ctx context.Context) (model.NodeSummary, error)
}

// NodeStatusReader - агрегат статусов узлов (service.NodeStatusService).
type NodeStatusReader interface {
	GetNodeStatusStats(ctx context.Context) (*model.NodeStatusStats, error)
}

// EngineConfigReader - конфигурация движка (service.NodeConfigService).
type EngineConfigReader interface {
	GetConfiguration(ctx context.Context) (*model.EngineConfig, error)
}

// APIHandler - основной обработчик dashboard API.
type APIHandler struct {
	health     *HealthHandler
	batches    BatchReader
	nodes      NodeInfoReader
	nodeStatus NodeStatusReader
	engine     EngineConfigReader
	devMode    bool
	logger     *slog.Logger
}

var _ ServerInterface = (*APIHandler)(nil)

// NewAPIHandler создаёт основной обработчик API.
// devMode включает текст внутренних ошибок в ответах 500.
func NewAPIHandler(
	health *HealthHandler,
	batches BatchReader,
	nodes NodeInfoReader,
	nodeStatus NodeStatusReader,
	engine EngineConfigReader,
	devMode bool,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:     health,
		batches:    batches,
		nodes:      nodes,
		nodeStatus: nodeStatus,
		engine:     engine,
		devMode:    devMode,
		logger:     logger.With(slog.String("component", "api_handler")),
	}
}

// --- Health endpoints (делегируются в HealthHandler) ---

// HealthLive - liveness probe.
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady - readiness probe.
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics - Prometheus метрики.
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// GetOpenAPISpec отдаёт встроенный OpenAPI контракт.
func (h *APIHandler) GetOpenAPISpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openapi.Spec())
}

// --- Ошибки ---

// ParamErrorHandler отвечает 400 на ошибки разбора параметров запроса.
func (h *APIHandler) ParamErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	var pe *InvalidParamFormatError
	if errors.As(err, &pe) && pe.ParamName == "batchId" {
		apierrors.ValidationError(w, service.ErrInvalidBatchID.Error())
		return
	}
	apierrors.ValidationError(w, err.Error())
}

// handleServiceError преобразует ошибку сервиса в HTTP-ответ.
// Ошибки доступа к данным уже залогированы исполнителем запросов.
func (h *APIHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, err.Error())
	default:
		var qe *database.QueryError
		if !errors.As(err, &qe) {
			h.logger.ErrorContext(r.Context(), "Внутренняя ошибка",
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()),
			)
		}
		msg := "Внутренняя ошибка сервера"
		if h.devMode {
			msg = err.Error()
		}
		apierrors.InternalError(w, msg)
	}
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
