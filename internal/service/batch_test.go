package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/bigkaa/symds-dashboard/internal/domain/model"
	"github.com/bigkaa/symds-dashboard/internal/repository"
)

func newBatchService(exec *mockExecutor, channels ChannelReader) *BatchService {
	tables := repository.NewTables("sym")
	logger := testLogger()
	return NewBatchService(
		NewBatchStatusService(exec, tables, 0, logger),
		NewBatchDataService(exec, tables, 0, logger),
		channels,
		logger,
	)
}

func TestValidateDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    model.Direction
		wantErr bool
	}{
		{"incoming", model.DirectionIncoming, false},
		{"OUTGOING", model.DirectionOutgoing, false},
		{"Incoming", model.DirectionIncoming, false},
		{"sideways", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateDirection(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDirection) || !errors.Is(err, ErrValidation) {
					t.Errorf("ValidateDirection(%q) ошибка = %v, ожидалась ErrInvalidDirection", tt.input, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ValidateDirection(%q) = %q, %v; ожидалось %q", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestGetBatchDetails_InvalidDirection(t *testing.T) {
	exec := &mockExecutor{}
	svc := newBatchService(exec, &mockNodeRepo{})

	_, err := svc.GetBatchDetails(context.Background(), 1, "sideways")
	if !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("ошибка = %v, ожидалась ErrInvalidDirection", err)
	}
	if exec.count() != 0 {
		t.Errorf("выполнено %d запросов, ожидалось 0", exec.count())
	}
}

func TestGetBatchDetails_NotFound(t *testing.T) {
	exec := &mockExecutor{}
	svc := newBatchService(exec, &mockNodeRepo{})

	detail, err := svc.GetBatchDetails(context.Background(), 999, "outgoing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ошибка = %v, ожидалась ErrNotFound", err)
	}
	if detail != nil {
		t.Errorf("detail = %+v, ожидался nil", detail)
	}
	if _, ok := exec.find("sym_data_event"); ok {
		t.Error("события данных не должны запрашиваться для отсутствующего батча")
	}
}

func TestGetBatchDetails_Outgoing(t *testing.T) {
	exec := &mockExecutor{
		queryFn: func(query string, params []any) ([]model.Row, error) {
			switch {
			case strings.Contains(query, "FROM sym_outgoing_batch"):
				if len(params) != 1 || params[0] != int64(101) {
					t.Errorf("params = %v, ожидался [101]", params)
				}
				return []model.Row{{"batch_id": int64(101), "status": "OK", "node_id": "001"}}, nil
			case strings.Contains(query, "FROM sym_data_event"):
				return []model.Row{
					{"data_id": int64(1), "batch_id": int64(101), "router_id": "r1", "table_name": "orders"},
					{"data_id": int64(2), "batch_id": int64(101), "router_id": "r1", "table_name": "orders"},
				}, nil
			}
			return nil, nil
		},
	}
	svc := newBatchService(exec, &mockNodeRepo{})

	detail, err := svc.GetBatchDetails(context.Background(), 101, "Outgoing")
	if err != nil {
		t.Fatalf("GetBatchDetails ошибка: %v", err)
	}
	if detail.BatchID != 101 || detail.Status != "OK" {
		t.Errorf("detail = %+v", detail.Batch)
	}
	if len(detail.DataEvents) != 2 {
		t.Fatalf("DataEvents = %d, ожидалось 2", len(detail.DataEvents))
	}
	if detail.DataEvents[0].TableID == nil || *detail.DataEvents[0].TableID != "orders" {
		t.Errorf("TableID = %v, ожидался orders", detail.DataEvents[0].TableID)
	}

	q, _ := exec.find("FROM sym_outgoing_batch")
	if q.query != "SELECT * FROM sym_outgoing_batch WHERE batch_id = ? LIMIT 1" {
		t.Errorf("query = %q", q.query)
	}
}

func TestGetBatchDetails_IncomingHasNoEvents(t *testing.T) {
	exec := &mockExecutor{
		queryFn: func(query string, _ []any) ([]model.Row, error) {
			if strings.Contains(query, "FROM sym_incoming_batch") {
				return []model.Row{{"batch_id": int64(201), "status": "OK"}}, nil
			}
			return nil, nil
		},
	}
	svc := newBatchService(exec, &mockNodeRepo{})

	detail, err := svc.GetBatchDetails(context.Background(), 201, "incoming")
	if err != nil {
		t.Fatalf("GetBatchDetails ошибка: %v", err)
	}
	if detail.DataEvents != nil {
		t.Errorf("DataEvents = %v, ожидался nil для входящего батча", detail.DataEvents)
	}
	if _, ok := exec.find("sym_data_event"); ok {
		t.Error("события данных не должны запрашиваться для входящего батча")
	}
}

func TestGetBatchDetails_EventsFailureIsEmpty(t *testing.T) {
	exec := &mockExecutor{
		queryFn: func(query string, _ []any) ([]model.Row, error) {
			if strings.Contains(query, "FROM sym_data_event") {
				return nil, errors.New("deadlock detected")
			}
			return []model.Row{{"batch_id": int64(101)}}, nil
		},
	}
	svc := newBatchService(exec, &mockNodeRepo{})

	detail, err := svc.GetBatchDetails(context.Background(), 101, "outgoing")
	if err != nil {
		t.Fatalf("GetBatchDetails ошибка: %v", err)
	}
	if detail.DataEvents == nil || len(detail.DataEvents) != 0 {
		t.Errorf("DataEvents = %#v, ожидался пустой срез", detail.DataEvents)
	}
	data, err := json.Marshal(detail)
	if err != nil {
		t.Fatalf("Marshal ошибка: %v", err)
	}
	if !strings.Contains(string(data), `"dataEvents":[]`) {
		t.Errorf("JSON = %s, ожидался пустой dataEvents", data)
	}
}

func TestGetBatchDetails_BatchQueryFailure(t *testing.T) {
	dbErr := errors.New("connection reset")
	exec := &mockExecutor{
		queryFn: func(string, []any) ([]model.Row, error) { return nil, dbErr },
	}
	svc := newBatchService(exec, &mockNodeRepo{})

	_, err := svc.GetBatchDetails(context.Background(), 101, "outgoing")
	if !errors.Is(err, dbErr) {
		t.Errorf("ошибка = %v, ожидалась ошибка БД", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("ошибка БД не должна превращаться в ErrNotFound")
	}
}

func TestGetBatchData_NonexistentIsEmpty(t *testing.T) {
	exec := &mockExecutor{}
	svc := newBatchService(exec, &mockNodeRepo{})

	data, err := svc.GetBatchData(context.Background(), 999, "incoming")
	if err != nil {
		t.Fatalf("GetBatchData ошибка: %v", err)
	}
	if data == nil || len(data) != 0 {
		t.Errorf("data = %#v, ожидался пустой срез", data)
	}
	if exec.count() != 1 {
		t.Errorf("выполнено %d запросов, ожидался 1 (проверка существования)", exec.count())
	}
	q, _ := exec.find("sym_incoming_batch")
	if q.query != "SELECT batch_id FROM sym_incoming_batch WHERE batch_id = ? LIMIT 1" {
		t.Errorf("query = %q", q.query)
	}
}

func TestGetBatchData_Entries(t *testing.T) {
	exec := &mockExecutor{
		queryFn: func(query string, _ []any) ([]model.Row, error) {
			if strings.Contains(query, "JOIN") {
				return []model.Row{
					{"data_id": int64(1), "table_name": "orders", "event_type": "I"},
					{"data_id": int64(2), "table_name": "orders", "event_type": "U"},
				}, nil
			}
			return []model.Row{{"batch_id": int64(101)}}, nil
		},
	}
	svc := newBatchService(exec, &mockNodeRepo{})

	data, err := svc.GetBatchData(context.Background(), 101, "outgoing")
	if err != nil {
		t.Fatalf("GetBatchData ошибка: %v", err)
	}
	if len(data) != 2 || data[1].EventType != "U" {
		t.Errorf("data = %+v", data)
	}

	q, _ := exec.find("JOIN")
	want := "SELECT d.* FROM sym_data_event de JOIN sym_data d ON de.data_id = d.data_id WHERE de.batch_id = ? ORDER BY d.data_id ASC LIMIT 100"
	if q.query != want {
		t.Errorf("query = %q, ожидался %q", q.query, want)
	}
}

func TestGetBatchData_InvalidDirection(t *testing.T) {
	svc := newBatchService(&mockExecutor{}, &mockNodeRepo{})
	if _, err := svc.GetBatchData(context.Background(), 1, "up"); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("ошибка = %v, ожидалась ErrInvalidDirection", err)
	}
}

func TestGetUniqueChannels(t *testing.T) {
	repo := &mockNodeRepo{
		uniqueChannelsFn: func(context.Context) ([]model.Row, error) {
			return []model.Row{{"channel_id": "config"}, {"channel_id": nil}, {"channel_id": "sales"}}, nil
		},
	}
	svc := newBatchService(&mockExecutor{}, repo)

	got, err := svc.GetUniqueChannels(context.Background())
	if err != nil {
		t.Fatalf("GetUniqueChannels ошибка: %v", err)
	}
	if len(got) != 2 || got[0] != "config" || got[1] != "sales" {
		t.Errorf("GetUniqueChannels = %v, ожидался [config sales]", got)
	}
}
