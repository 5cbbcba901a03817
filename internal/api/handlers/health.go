// health.go - обработчики health endpoints.
// /health/live - liveness probe (процесс жив)
// /health/ready - readiness probe (БД SymmetricDS доступна)
// /metrics - Prometheus метрики
package handlers

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigkaa/symds-dashboard/internal/config"
)

// serviceName - имя сервиса в ответах health endpoints.
const serviceName = "symds-dashboard"

// ReadinessChecker - интерфейс проверки готовности зависимости.
type ReadinessChecker interface {
	// CheckReady возвращает статус ("ok", "fail") и сообщение.
	CheckReady() (status, message string)
}

// HealthHandler - обработчик health endpoints.
type HealthHandler struct {
	dbChecker   ReadinessChecker
	promHandler http.Handler
}

// NewHealthHandler создаёт обработчик health endpoints.
// dbChecker может быть nil, тогда readiness вернёт "fail".
func NewHealthHandler(dbChecker ReadinessChecker) *HealthHandler {
	return &HealthHandler{
		dbChecker:   dbChecker,
		promHandler: promhttp.Handler(),
	}
}

type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// probeInfo - общие поля ответов health endpoints.
type probeInfo struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

type healthReadyResponse struct {
	probeInfo
	Checks map[string]healthCheckResult `json:"checks"`
}

const (
	statusOK   = "ok"
	statusFail = "fail"
)

func newProbeInfo(status string) probeInfo {
	return probeInfo{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	}
}

// HealthLive - liveness probe. Всегда 200.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newProbeInfo(statusOK))
}

// HealthReady - readiness probe по ping БД SymmetricDS: 200 или 503.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	db := healthCheckResult{Status: statusFail, Message: "не инициализирован"}
	if h.dbChecker != nil {
		db.Status, db.Message = h.dbChecker.CheckReady()
	}

	code := http.StatusOK
	if db.Status == statusFail {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, healthReadyResponse{
		probeInfo: newProbeInfo(db.Status),
		Checks:    map[string]healthCheckResult{"database": db},
	})
}

// GetMetrics - Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}
