package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/symds-dashboard/internal/database"
	"github.com/bigkaa/symds-dashboard/internal/domain/model"
	"github.com/bigkaa/symds-dashboard/internal/service"
)

// --- Fakes ---

type fakeBatches struct {
	filters   model.BatchFilters
	direction string
	batchID   int64
	err       error
}

func (f *fakeBatches) GetBatchStatus(_ context.Context, filters model.BatchFilters) (*model.BatchStatusSnapshot, error) {
	f.filters = filters
	if f.err != nil {
		return nil, f.err
	}
	return &model.BatchStatusSnapshot{
		Outgoing: []model.Batch{{BatchID: 102, Status: "ER", ChannelID: "sales"}},
		Incoming: []model.Batch{},
		Stats: model.BatchStats{
			Outgoing: model.StatusCountMap{"ER": 1},
			Incoming: model.StatusCountMap{},
		},
	}, nil
}

func (f *fakeBatches) GetBatchDetails(_ context.Context, batchID int64, direction string) (*model.BatchDetail, error) {
	f.batchID, f.direction = batchID, direction
	dir, err := service.ValidateDirection(direction)
	if err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	detail := &model.BatchDetail{Batch: model.Batch{BatchID: batchID, Status: "OK"}}
	if dir == model.DirectionOutgoing {
		detail.DataEvents = []model.DataEvent{}
	}
	return detail, nil
}

func (f *fakeBatches) GetBatchData(_ context.Context, batchID int64, direction string) ([]model.DataEntry, error) {
	f.batchID, f.direction = batchID, direction
	if _, err := service.ValidateDirection(direction); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return []model.DataEntry{{DataID: 1, TableName: "orders", EventType: "I"}}, nil
}

func (f *fakeBatches) GetUniqueChannels(_ context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []string{"config", "sales"}, nil
}

type fakeNodes struct{ err error }

func (f *fakeNodes) GetNodesInfo(_ context.Context) ([]model.Node, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []model.Node{{NodeID: "000", NodeGroupID: "corp", Status: model.NodeOnline}}, nil
}

func (f *fakeNodes) GetNodesSummary(_ context.Context) (model.NodeSummary, error) {
	if f.err != nil {
		return model.NodeSummary{}, f.err
	}
	return model.NodeSummary{Total: 3, Online: 1, Offline: 2}, nil
}

func (f *fakeNodes) GetNodeStatusStats(_ context.Context) (*model.NodeStatusStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.NodeStatusStats{
		NodeStatus: []model.NodeStatusCount{{Status: model.NodeOnline, Count: 1}},
		SyncStats:  []model.SyncStat{{Name: "OK", Value: 4}},
	}, nil
}

type fakeEngine struct{}

func (fakeEngine) GetConfiguration(_ context.Context) (*model.EngineConfig, error) {
	return &model.EngineConfig{
		NodeGroups: []model.NodeGroup{{ID: "corp"}},
		Channels:   []model.Channel{},
		Triggers:   []model.Trigger{},
	}, nil
}

type fakeChecker struct{ status, message string }

func (c fakeChecker) CheckReady() (string, string) { return c.status, c.message }

// --- Helpers ---

type testEnv struct {
	router  http.Handler
	batches *fakeBatches
	nodes   *fakeNodes
	logs    *bytes.Buffer
}

func newTestEnv(devMode bool) *testEnv {
	env := &testEnv{
		batches: &fakeBatches{},
		nodes:   &fakeNodes{},
		logs:    &bytes.Buffer{},
	}
	logger := slog.New(slog.NewJSONHandler(env.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := NewAPIHandler(
		NewHealthHandler(fakeChecker{status: "ok"}),
		env.batches, env.nodes, env.nodes, fakeEngine{},
		devMode, logger,
	)
	r := chi.NewRouter()
	RegisterRoutes(h, r, RouterOptions{ErrorHandlerFunc: h.ParamErrorHandler})
	env.router = r
	return env
}

func (e *testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("некорректный JSON ошибки: %v", err)
	}
	return env
}

// --- Batch ---

func TestGetBatchStatus_PassesFilters(t *testing.T) {
	env := newTestEnv(false)

	rec := env.get(t, "/api/batch/status?outgoingStatus=ER&channel=sales")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, ожидается 200", rec.Code)
	}

	f := env.batches.filters
	if f.OutgoingStatus == nil || *f.OutgoingStatus != "ER" {
		t.Errorf("OutgoingStatus = %v", f.OutgoingStatus)
	}
	if f.Channel == nil || *f.Channel != "sales" {
		t.Errorf("Channel = %v", f.Channel)
	}
	if f.IncomingStatus != nil || f.NodeID != nil {
		t.Errorf("отсутствующие фильтры должны быть nil: %+v", f)
	}

	var snap model.BatchStatusSnapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Outgoing) != 1 || snap.Stats.Outgoing["ER"] != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestGetBatchChannels(t *testing.T) {
	env := newTestEnv(false)

	rec := env.get(t, "/api/batch/channels")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var channels []string
	_ = json.NewDecoder(rec.Body).Decode(&channels)
	if strings.Join(channels, ",") != "config,sales" {
		t.Errorf("channels = %v", channels)
	}
}

func TestGetBatchDetails_Routing(t *testing.T) {
	env := newTestEnv(false)

	rec := env.get(t, "/api/batch/OUTGOING/101")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if env.batches.batchID != 101 || env.batches.direction != "OUTGOING" {
		t.Errorf("вызов с (%d, %q)", env.batches.batchID, env.batches.direction)
	}
}

func TestGetBatchDetails_DataEventsInJSON(t *testing.T) {
	env := newTestEnv(false)

	rec := env.get(t, "/api/batch/outgoing/101")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"dataEvents":[]`) {
		t.Errorf("исходящий батч без событий должен содержать пустой dataEvents: %s", rec.Body.String())
	}

	rec = env.get(t, "/api/batch/incoming/201")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "dataEvents") {
		t.Errorf("у входящего батча нет ключа dataEvents: %s", rec.Body.String())
	}
}

func TestGetBatchData_Routing(t *testing.T) {
	env := newTestEnv(false)

	rec := env.get(t, "/api/batch/101/data?direction=incoming")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if env.batches.batchID != 101 || env.batches.direction != "incoming" {
		t.Errorf("вызов с (%d, %q)", env.batches.batchID, env.batches.direction)
	}

	var entries []model.DataEntry
	_ = json.NewDecoder(rec.Body).Decode(&entries)
	if len(entries) != 1 || entries[0].TableName != "orders" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestBatchEndpoints_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		message string
	}{
		{"нечисловой id в деталях", "/api/batch/outgoing/abc", service.ErrInvalidBatchID.Error()},
		{"нечисловой id в данных", "/api/batch/abc/data?direction=outgoing", service.ErrInvalidBatchID.Error()},
		{"неизвестное направление", "/api/batch/sideways/5", service.ErrInvalidDirection.Error()},
		{"нет direction для данных", "/api/batch/5/data", service.ErrInvalidDirection.Error()},
		{"неверный direction для данных", "/api/batch/5/data?direction=up", service.ErrInvalidDirection.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(false)
			rec := env.get(t, tt.target)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, ожидается 400", rec.Code)
			}
			body := decodeError(t, rec)
			if body.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("code = %q", body.Error.Code)
			}
			if body.Error.Message != tt.message {
				t.Errorf("message = %q, ожидается %q", body.Error.Message, tt.message)
			}
		})
	}
}

func TestGetBatchDetails_NotFound(t *testing.T) {
	env := newTestEnv(false)
	env.batches.err = service.ErrNotFound

	rec := env.get(t, "/api/batch/incoming/999")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, ожидается 404", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Error.Code != "NOT_FOUND" || !strings.Contains(body.Error.Message, "999") || !strings.Contains(body.Error.Message, "incoming") {
		t.Errorf("body = %+v", body)
	}
}

// --- Internal errors ---

func TestInternalError_DetailOnlyInDevMode(t *testing.T) {
	cause := errors.New("connection refused")

	prod := newTestEnv(false)
	prod.batches.err = cause
	rec := prod.get(t, "/api/batch/channels")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, ожидается 500", rec.Code)
	}
	if msg := decodeError(t, rec).Error.Message; strings.Contains(msg, "connection refused") {
		t.Errorf("в production детали не раскрываются: %q", msg)
	}

	dev := newTestEnv(true)
	dev.batches.err = cause
	rec = dev.get(t, "/api/batch/channels")
	body := decodeError(t, rec)
	if body.Error.Code != "INTERNAL_ERROR" || !strings.Contains(body.Error.Message, "connection refused") {
		t.Errorf("в development ожидается текст ошибки: %+v", body)
	}
}

func TestInternalError_QueryErrorNotLoggedTwice(t *testing.T) {
	qe := &database.QueryError{Query: "SELECT 1", Duration: time.Millisecond, Err: errors.New("boom")}

	env := newTestEnv(false)
	env.nodes.err = fmt.Errorf("получение узлов: %w", qe)
	rec := env.get(t, "/api/node/nodes")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(env.logs.String(), "Внутренняя ошибка") {
		t.Errorf("ошибка запроса не должна логироваться повторно: %s", env.logs.String())
	}

	env = newTestEnv(false)
	env.nodes.err = errors.New("unexpected")
	env.get(t, "/api/node/nodes")
	if !strings.Contains(env.logs.String(), "Внутренняя ошибка") {
		t.Error("прочие ошибки должны логироваться")
	}
}

// --- Node / engine ---

func TestNodeEndpoints(t *testing.T) {
	env := newTestEnv(false)

	tests := []struct {
		target string
		want   string
	}{
		{"/api/node/nodes", `"nodeId":"000"`},
		{"/api/node/status", `"nodeStatus":[{"status":"ONLINE","count":1}]`},
		{"/api/node/summary", `{"total":3,"online":1,"offline":2}`},
		{"/api/engine/config", `"nodeGroups":[{"id":"corp","description":null}]`},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := env.get(t, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body = %s, ожидается фрагмент %s", rec.Body.String(), tt.want)
			}
		})
	}
}

func TestGetOpenAPISpec(t *testing.T) {
	env := newTestEnv(false)

	rec := env.get(t, "/api/openapi.yaml")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !bytes.HasPrefix(body, []byte("openapi:")) {
		t.Errorf("ожидается YAML контракт, получено %q", string(body[:min(len(body), 40)]))
	}
}
