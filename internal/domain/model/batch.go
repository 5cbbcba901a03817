// Пакет model - доменные модели SymmetricDS Dashboard.
// Batch, DataEntry, DataEvent - проекции таблиц sym_outgoing_batch,
// sym_incoming_batch, sym_data и sym_data_event (owned by SymmetricDS).
package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Row - одна строка результата запроса, ключи - имена колонок в snake_case.
type Row = map[string]any

// Direction - направление батча относительно локального узла.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// ParseDirection разбирает направление без учёта регистра.
// Второе значение false, если строка не является допустимым направлением.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(strings.ToLower(s)) {
	case DirectionIncoming:
		return DirectionIncoming, true
	case DirectionOutgoing:
		return DirectionOutgoing, true
	default:
		return "", false
	}
}

// Batch - единица репликации. Идентификатор уникален только внутри направления.
type Batch struct {
	BatchID        int64      `json:"batchId"`
	NodeID         string     `json:"nodeId"`
	ChannelID      string     `json:"channelId"`
	Status         string     `json:"status"`
	ErrorFlag      bool       `json:"errorFlag"`
	ByteCount      int64      `json:"byteCount"`
	DataEventCount int64      `json:"dataEventCount"`
	CreateTime     *time.Time `json:"createTime"`
	LoadTime       *time.Time `json:"loadTime"`
	RouterID       *string    `json:"routerId"`
}

// StatusCountMap - количество батчей по коду статуса.
// Статусы без батчей отсутствуют в карте.
type StatusCountMap map[string]int64

// BatchStats - агрегаты по обоим направлениям.
type BatchStats struct {
	Outgoing StatusCountMap `json:"outgoing"`
	Incoming StatusCountMap `json:"incoming"`
}

// BatchStatusSnapshot - результат одного запроса статуса батчей.
type BatchStatusSnapshot struct {
	Outgoing []Batch    `json:"outgoing"`
	Incoming []Batch    `json:"incoming"`
	Stats    BatchStats `json:"stats"`
}

// BatchFilters - необязательные фильтры списка батчей. nil - фильтр не задан.
// IncomingStatus и OutgoingStatus применяются только к своему направлению.
type BatchFilters struct {
	IncomingStatus *string
	OutgoingStatus *string
	Channel        *string
	NodeID         *string
}

// DataEntry - изменение строки, перенесённое батчем (sym_data).
type DataEntry struct {
	DataID        int64      `json:"dataId"`
	TableName     string     `json:"tableName"`
	EventType     string     `json:"eventType"`
	RowData       *string    `json:"rowData"`
	OldData       *string    `json:"oldData"`
	PkData        *string    `json:"pkData"`
	CreateTime    *time.Time `json:"createTime"`
	SourceNodeID  *string    `json:"sourceNodeId"`
	ChannelID     *string    `json:"channelId"`
	TriggerHistID *int64     `json:"triggerHistId"`
}

// DataEvent - связь данных с батчем (sym_data_event).
type DataEvent struct {
	DataID     int64      `json:"dataId"`
	BatchID    int64      `json:"batchId"`
	RouterID   *string    `json:"routerId"`
	CreateTime *time.Time `json:"createTime"`
	TableID    *string    `json:"tableId"`
}

// BatchDetail - батч с событиями данных. DataEvents заполняется только
// для исходящих батчей; для входящих ключ в JSON отсутствует.
type BatchDetail struct {
	Batch
	DataEvents []DataEvent `json:"dataEvents"`
}

// MarshalJSON пишет dataEvents, если срез задан, в том числе пустой.
// nil (входящий батч) означает отсутствие ключа.
func (d BatchDetail) MarshalJSON() ([]byte, error) {
	if d.DataEvents == nil {
		return json.Marshal(d.Batch)
	}
	return json.Marshal(struct {
		Batch
		DataEvents []DataEvent `json:"dataEvents"`
	}{d.Batch, d.DataEvents})
}
