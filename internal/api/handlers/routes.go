// routes.go - маршруты HTTP API и привязка параметров запроса.
// Параметры пути и query разбираются через oapi-codegen runtime в стиле
// контракта internal/api/openapi/openapi.yaml.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// GetBatchStatusParams - фильтры снимка статуса батчей.
type GetBatchStatusParams struct {
	IncomingStatus *string
	OutgoingStatus *string
	Channel        *string
	NodeID         *string
}

// GetBatchDataParams - параметры запроса данных батча.
type GetBatchDataParams struct {
	Direction *string
}

// ServerInterface - операции dashboard API.
type ServerInterface interface {
	HealthLive(w http.ResponseWriter, r *http.Request)
	HealthReady(w http.ResponseWriter, r *http.Request)
	GetMetrics(w http.ResponseWriter, r *http.Request)
	GetOpenAPISpec(w http.ResponseWriter, r *http.Request)

	GetBatchStatus(w http.ResponseWriter, r *http.Request, params GetBatchStatusParams)
	GetBatchChannels(w http.ResponseWriter, r *http.Request)
	GetBatchDetails(w http.ResponseWriter, r *http.Request, direction string, batchID int64)
	GetBatchData(w http.ResponseWriter, r *http.Request, batchID int64, params GetBatchDataParams)

	GetNodes(w http.ResponseWriter, r *http.Request)
	GetNodeStatus(w http.ResponseWriter, r *http.Request)
	GetNodeSummary(w http.ResponseWriter, r *http.Request)
	GetEngineConfig(w http.ResponseWriter, r *http.Request)
}

// MiddlewareFunc - middleware, применяемый после маршрутизации.
type MiddlewareFunc func(http.Handler) http.Handler

// InvalidParamFormatError - параметр запроса не удалось разобрать.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("некорректный формат параметра %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// RouterOptions - параметры регистрации маршрутов.
type RouterOptions struct {
	// Middlewares выполняются после маршрутизации, когда шаблон маршрута уже известен.
	Middlewares []MiddlewareFunc
	// ErrorHandlerFunc обрабатывает ошибки разбора параметров.
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// serverInterfaceWrapper разбирает параметры и вызывает ServerInterface.
type serverInterfaceWrapper struct {
	handler          ServerInterface
	middlewares      []MiddlewareFunc
	errorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Шаблон направления ограничен буквами, чтобы /api/batch/{batchId}/data
// с числовым идентификатором не попадал в маршрут деталей батча.
const batchDetailsPattern = "/api/batch/{direction:[A-Za-z]+}/{batchId}"

// RegisterRoutes регистрирует все маршруты API на chi-роутере.
func RegisterRoutes(si ServerInterface, r chi.Router, opts RouterOptions) {
	if opts.ErrorHandlerFunc == nil {
		opts.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := &serverInterfaceWrapper{
		handler:          si,
		middlewares:      opts.Middlewares,
		errorHandlerFunc: opts.ErrorHandlerFunc,
	}

	r.Get("/health/live", wrapper.HealthLive)
	r.Get("/health/ready", wrapper.HealthReady)
	r.Get("/metrics", wrapper.GetMetrics)
	r.Get("/api/openapi.yaml", wrapper.GetOpenAPISpec)

	r.Get("/api/batch/status", wrapper.GetBatchStatus)
	r.Get("/api/batch/channels", wrapper.GetBatchChannels)
	r.Get(batchDetailsPattern, wrapper.GetBatchDetails)
	r.Get("/api/batch/{batchId}/data", wrapper.GetBatchData)

	r.Get("/api/node/nodes", wrapper.GetNodes)
	r.Get("/api/node/status", wrapper.GetNodeStatus)
	r.Get("/api/node/summary", wrapper.GetNodeSummary)
	r.Get("/api/engine/config", wrapper.GetEngineConfig)
}

// serve применяет middlewares и выполняет обработчик.
func (siw *serverInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	var handler http.Handler = fn
	for _, mw := range siw.middlewares {
		handler = mw(handler)
	}
	handler.ServeHTTP(w, r)
}

func (siw *serverInterfaceWrapper) HealthLive(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.handler.HealthLive)
}

func (siw *serverInterfaceWrapper) HealthReady(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.handler.HealthReady)
}

func (siw *serverInterfaceWrapper) GetMetrics(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.handler.GetMetrics)
}

func (siw *serverInterfaceWrapper) GetOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.handler.GetOpenAPISpec)
}

func (siw *serverInterfaceWrapper) GetBatchStatus(w http.ResponseWriter, r *http.Request) {
	var params GetBatchStatusParams
	query := r.URL.Query()

	bindings := []struct {
		name string
		dest **string
	}{
		{"incomingStatus", &params.IncomingStatus},
		{"outgoingStatus", &params.OutgoingStatus},
		{"channel", &params.Channel},
		{"nodeId", &params.NodeID},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, query, b.dest); err != nil {
			siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: b.name, Err: err})
			return
		}
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.handler.GetBatchStatus(w, r, params)
	})
}

func (siw *serverInterfaceWrapper) GetBatchChannels(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.handler.GetBatchChannels)
}

func (siw *serverInterfaceWrapper) GetBatchDetails(w http.ResponseWriter, r *http.Request) {
	var direction string
	err := runtime.BindStyledParameterWithOptions("simple", "direction", chi.URLParam(r, "direction"), &direction,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "direction", Err: err})
		return
	}

	batchID, ok := siw.bindBatchID(w, r)
	if !ok {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.handler.GetBatchDetails(w, r, direction, batchID)
	})
}

func (siw *serverInterfaceWrapper) GetBatchData(w http.ResponseWriter, r *http.Request) {
	batchID, ok := siw.bindBatchID(w, r)
	if !ok {
		return
	}

	var params GetBatchDataParams
	// direction обязателен, но его отсутствие сообщается сервисом как некорректное направление
	if err := runtime.BindQueryParameter("form", true, false, "direction", r.URL.Query(), &params.Direction); err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "direction", Err: err})
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.handler.GetBatchData(w, r, batchID, params)
	})
}

// bindBatchID разбирает batchId из пути как int64.
func (siw *serverInterfaceWrapper) bindBatchID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var batchID int64
	err := runtime.BindStyledParameterWithOptions("simple", "batchId", chi.URLParam(r, "batchId"), &batchID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "batchId", Err: err})
		return 0, false
	}
	return batchID, true
}

func (siw *serverInterfaceWrapper) GetNodes(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.handler.GetNodes)
}

func (siw *serverInterfaceWrapper) GetNodeStatus(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.handler.GetNodeStatus)
}

func (siw *serverInterfaceWrapper) GetNodeSummary(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.handler.GetNodeSummary)
}

func (siw *serverInterfaceWrapper) GetEngineConfig(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.handler.GetEngineConfig)
}
