package transform

import (
	"regexp"
	"strings"

	"github.com/bigkaa/symds-dashboard/internal/domain/model"
)

// vesselGroupPrefix - префикс группы узлов судов.
const vesselGroupPrefix = "vessel_"

// vesselPattern извлекает название судна из описания группы вида
// "Node Group for Sea Star vessel".
var vesselPattern = regexp.MustCompile(`Node Group for ([^\d]+).*vessel`)

// Node переводит строку sym_node (+ sym_node_host, sym_node_group) в модель.
// Status не заполняется: он зависит от текущего времени и вычисляется сервисом.
func Node(row model.Row) model.Node {
	groupID := stringOrEmpty(column(row, "node_group_id"))
	groupDesc := stringPtr(column(row, "node_group_description"))

	return model.Node{
		NodeID:               stringOrEmpty(column(row, "node_id")),
		NodeGroupID:          groupID,
		ExternalID:           stringPtr(column(row, "external_id")),
		SyncURL:              stringPtr(column(row, "sync_url")),
		HostName:             stringPtr(column(row, "host_name")),
		IPAddress:            stringPtr(column(row, "ip_address")),
		OSInfo:               OSInfo(column(row, "os_name"), column(row, "os_version")),
		AvailableProcessors:  intPtr(column(row, "available_processors")),
		MemoryUsage:          Memory(column(row, "free_memory_bytes"), column(row, "total_memory_bytes")),
		SymmetricVersion:     stringPtr(column(row, "symmetric_version")),
		LastHeartbeat:        timePtr(column(row, "heartbeat_time")),
		BatchInErrorCount:    intOrZero(column(row, "batch_in_error_count")),
		BatchToSendCount:     intOrZero(column(row, "batch_to_send_count")),
		NodeGroupDescription: groupDesc,
		VesselName:           VesselName(groupID, groupDesc),
	}
}

// Memory вычисляет использование памяти. nil, если общий объём неизвестен
// или не положителен. Отсутствующий свободный объём считается нулевым.
func Memory(free, total any) *model.MemoryUsage {
	t, ok := asInt64(total)
	if !ok || t <= 0 {
		return nil
	}
	f := intOrZero(free)
	return &model.MemoryUsage{
		Free:  f,
		Total: t,
		Used:  t - f,
	}
}

// OSInfo склеивает имя и версию ОС. nil, если имя отсутствует.
func OSInfo(name, version any) *string {
	n, ok := asString(name)
	if !ok || strings.TrimSpace(n) == "" {
		return nil
	}
	info := n
	if v, ok := asString(version); ok && strings.TrimSpace(v) != "" {
		info += " " + v
	}
	return &info
}

// VesselName извлекает название судна из описания группы.
// nil, если группа не судовая, описания нет или шаблон не совпал.
func VesselName(nodeGroupID string, description *string) *string {
	if !strings.HasPrefix(nodeGroupID, vesselGroupPrefix) || description == nil {
		return nil
	}
	m := vesselPattern.FindStringSubmatch(*description)
	if len(m) < 2 {
		return nil
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return nil
	}
	name = strings.ReplaceAll(strings.ToUpper(name), "_", " ")
	return &name
}

// NodeGroup переводит строку sym_node_group.
func NodeGroup(row model.Row) model.NodeGroup {
	return model.NodeGroup{
		ID:          stringOrEmpty(column(row, "id")),
		Description: stringPtr(column(row, "description")),
	}
}

// Channel переводит строку sym_channel.
func Channel(row model.Row) model.Channel {
	return model.Channel{
		ID:           stringOrEmpty(column(row, "id")),
		MaxBatchSize: intPtr(column(row, "max_batch_size")),
		Description:  stringPtr(column(row, "description")),
	}
}

// Trigger переводит строку sym_trigger.
func Trigger(row model.Row) model.Trigger {
	return model.Trigger{
		ID:              stringOrEmpty(column(row, "trigger_id")),
		SourceTableName: stringOrEmpty(column(row, "source_table_name")),
		ChannelID:       stringOrEmpty(column(row, "channel_id")),
		LastUpdateTime:  timePtr(column(row, "last_update_time")),
	}
}

// Map переводит список строк функцией fn.
func Map[T any](rows []model.Row, fn func(model.Row) T) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		out = append(out, fn(row))
	}
	return out
}
