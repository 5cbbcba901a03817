package transform

import (
	"github.com/bigkaa/symds-dashboard/internal/domain/model"
)

// Batch переводит строку sym_*_batch в модель.
func Batch(row model.Row) model.Batch {
	return model.Batch{
		BatchID:        intOrZero(column(row, "batch_id")),
		NodeID:         stringOrEmpty(column(row, "node_id")),
		ChannelID:      stringOrEmpty(column(row, "channel_id")),
		Status:         stringOrEmpty(column(row, "status")),
		ErrorFlag:      flag(column(row, "error_flag")),
		ByteCount:      intOrZero(column(row, "byte_count")),
		DataEventCount: intOrZero(column(row, "data_event_count")),
		CreateTime:     timePtr(column(row, "create_time")),
		LoadTime:       timePtr(column(row, "load_time")),
		RouterID:       stringPtr(column(row, "router_id")),
	}
}

// Batches переводит список строк. Для пустого входа возвращает пустой срез.
func Batches(rows []model.Row) []model.Batch {
	return Map(rows, Batch)
}

// Stats сворачивает строки {status, count} в карту статус → количество.
// При повторе статуса побеждает последняя строка.
func Stats(rows []model.Row) model.StatusCountMap {
	out := make(model.StatusCountMap, len(rows))
	for _, row := range rows {
		status, ok := asString(column(row, "status"))
		if !ok {
			continue
		}
		out[status] = intOrZero(column(row, "count"))
	}
	return out
}

// DataEntry переводит строку sym_data в модель.
func DataEntry(row model.Row) model.DataEntry {
	return model.DataEntry{
		DataID:        intOrZero(column(row, "data_id")),
		TableName:     stringOrEmpty(column(row, "table_name")),
		EventType:     stringOrEmpty(column(row, "event_type")),
		RowData:       stringPtr(column(row, "row_data")),
		OldData:       stringPtr(column(row, "old_data")),
		PkData:        stringPtr(column(row, "pk_data")),
		CreateTime:    timePtr(column(row, "create_time")),
		SourceNodeID:  stringPtr(column(row, "source_node_id")),
		ChannelID:     stringPtr(column(row, "channel_id")),
		TriggerHistID: intPtr(column(row, "trigger_hist_id")),
	}
}

// DataEntries переводит список строк sym_data.
func DataEntries(rows []model.Row) []model.DataEntry {
	return Map(rows, DataEntry)
}

// DataEvent переводит строку sym_data_event в модель.
// TableID берётся из table_name, если запрос её вернул.
func DataEvent(row model.Row) model.DataEvent {
	return model.DataEvent{
		DataID:     intOrZero(column(row, "data_id")),
		BatchID:    intOrZero(column(row, "batch_id")),
		RouterID:   stringPtr(column(row, "router_id")),
		CreateTime: timePtr(column(row, "create_time")),
		TableID:    stringPtr(column(row, "table_name")),
	}
}

// DataEvents переводит список строк sym_data_event.
func DataEvents(rows []model.Row) []model.DataEvent {
	return Map(rows, DataEvent)
}

// ChannelIDs извлекает непустые channel_id в порядке строк.
func ChannelIDs(rows []model.Row) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if id, ok := asString(column(row, "channel_id")); ok && id != "" {
			out = append(out, id)
		}
	}
	return out
}

// SyncStats переводит строки {status, count} в пары {name, value}
// в порядке строк.
func SyncStats(rows []model.Row) []model.SyncStat {
	out := make([]model.SyncStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.SyncStat{
			Name:  stringOrEmpty(column(row, "status")),
			Value: intOrZero(column(row, "count")),
		})
	}
	return out
}
