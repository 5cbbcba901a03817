// instrumented.go - обёртка Querier: логирование запросов, детекция
// медленных запросов, Prometheus-метрики и ошибки с контекстом запроса.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/symds-dashboard/internal/domain/model"
)

var (
	// queryDuration - длительность SQL-запросов.
	queryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sd_db_query_duration_seconds",
			Help:    "Длительность запросов к БД SymmetricDS в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"driver"},
	)

	// queryErrorsTotal - количество ошибочных запросов.
	queryErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sd_db_query_errors_total",
			Help: "Количество ошибок запросов к БД SymmetricDS",
		},
		[]string{"driver"},
	)

	// slowQueriesTotal - количество запросов дольше порога.
	slowQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sd_db_slow_queries_total",
			Help: "Количество медленных запросов к БД SymmetricDS",
		},
		[]string{"driver"},
	)
)

// QueryError - ошибка доступа к данным с текстом запроса и параметрами.
// Исходная ошибка драйвера доступна через errors.Unwrap.
type QueryError struct {
	Query    string
	Params   []any
	Duration time.Duration
	Err      error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("ошибка выполнения запроса (%s): %v", e.Duration, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// InstrumentedQuerier логирует и измеряет каждый запрос вложенного Querier.
type InstrumentedQuerier struct {
	next          Querier
	driver        string
	slowThreshold time.Duration
	logger        *slog.Logger
}

// NewInstrumentedQuerier создаёт обёртку. slowThreshold <= 0 отключает
// предупреждения о медленных запросах.
func NewInstrumentedQuerier(next Querier, driver string, slowThreshold time.Duration, logger *slog.Logger) *InstrumentedQuerier {
	return &InstrumentedQuerier{
		next:          next,
		driver:        driver,
		slowThreshold: slowThreshold,
		logger:        logger.With(slog.String("component", "db")),
	}
}

// Query выполняет запрос. Ошибка логируется здесь один раз и возвращается
// как *QueryError.
func (q *InstrumentedQuerier) Query(ctx context.Context, query string, args ...any) ([]model.Row, error) {
	start := time.Now()
	rows, err := q.next.Query(ctx, query, args...)
	duration := time.Since(start)

	queryDuration.WithLabelValues(q.driver).Observe(duration.Seconds())

	if err != nil {
		queryErrorsTotal.WithLabelValues(q.driver).Inc()
		q.logger.ErrorContext(ctx, "Ошибка выполнения запроса",
			slog.String("query", query),
			slog.Any("params", args),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
		)
		return nil, &QueryError{Query: query, Params: args, Duration: duration, Err: err}
	}

	if q.slowThreshold > 0 && duration > q.slowThreshold {
		slowQueriesTotal.WithLabelValues(q.driver).Inc()
		q.logger.WarnContext(ctx, "Медленный запрос",
			slog.String("query", query),
			slog.Any("params", args),
			slog.Duration("duration", duration),
			slog.Duration("threshold", q.slowThreshold),
		)
	} else {
		q.logger.DebugContext(ctx, "Запрос выполнен",
			slog.String("query", query),
			slog.Any("params", args),
			slog.Duration("duration", duration),
			slog.Int("rows", len(rows)),
		)
	}

	return rows, nil
}
