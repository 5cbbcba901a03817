package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNode_JSONKeys(t *testing.T) {
	version := "3.15.0"
	processors := int64(4)
	data, err := json.Marshal(Node{NodeID: "000", SymmetricVersion: &version, AvailableProcessors: &processors})
	if err != nil {
		t.Fatalf("Marshal ошибка: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal ошибка: %v", err)
	}
	if got["version"] != "3.15.0" {
		t.Errorf("version = %v, JSON = %s", got["version"], data)
	}
	if got["processors"] != float64(4) {
		t.Errorf("processors = %v, JSON = %s", got["processors"], data)
	}
	for _, key := range []string{"symmetricVersion", "availableProcessors"} {
		if _, ok := got[key]; ok {
			t.Errorf("лишний ключ %q в %s", key, data)
		}
	}
}

func TestBatchDetail_DataEventsKey(t *testing.T) {
	tests := []struct {
		name    string
		detail  BatchDetail
		wantKey bool
		want    string
	}{
		{"исходящий без событий", BatchDetail{Batch: Batch{BatchID: 1}, DataEvents: []DataEvent{}}, true, `"dataEvents":[]`},
		{"исходящий с событием", BatchDetail{Batch: Batch{BatchID: 1}, DataEvents: []DataEvent{{DataID: 7, BatchID: 1}}}, true, `"dataEvents":[{"dataId":7`},
		{"входящий", BatchDetail{Batch: Batch{BatchID: 2}}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.detail)
			if err != nil {
				t.Fatalf("Marshal ошибка: %v", err)
			}
			s := string(data)
			if !strings.Contains(s, `"batchId":`) {
				t.Errorf("поля батча отсутствуют: %s", s)
			}
			if has := strings.Contains(s, `"dataEvents"`); has != tt.wantKey {
				t.Fatalf("наличие dataEvents = %v, ожидается %v: %s", has, tt.wantKey, s)
			}
			if tt.wantKey && !strings.Contains(s, tt.want) {
				t.Errorf("JSON = %s, ожидается фрагмент %s", s, tt.want)
			}
		})
	}
}

func TestBatchDetail_PointerMarshal(t *testing.T) {
	data, err := json.Marshal(&BatchDetail{Batch: Batch{BatchID: 3}, DataEvents: []DataEvent{}})
	if err != nil {
		t.Fatalf("Marshal ошибка: %v", err)
	}
	if !strings.Contains(string(data), `"dataEvents":[]`) {
		t.Errorf("JSON = %s", data)
	}
}
