// node.go - запросы к таблицам узлов и конфигурации движка.
package repository

import (
	"context"

	"github.com/bigkaa/symds-dashboard/internal/domain/model"
)

// NodeRepository - запросы фиксированной формы к узлам и конфигурации.
type NodeRepository struct {
	exec   Executor
	tables Tables
}

// NewNodeRepository создаёт репозиторий.
func NewNodeRepository(exec Executor, tables Tables) *NodeRepository {
	return &NodeRepository{exec: exec, tables: tables}
}

// NodeHeartbeats возвращает узлы с временем последнего heartbeat.
func (r *NodeRepository) NodeHeartbeats(ctx context.Context) ([]model.Row, error) {
	return r.exec.Query(ctx,
		"SELECT n.node_id, n.batch_in_error_count, n.batch_to_send_count, h.heartbeat_time"+
			" FROM "+r.tables.Node()+" n"+
			" LEFT JOIN "+r.tables.NodeHost()+" h ON n.node_id = h.node_id")
}

// Nodes возвращает подробную информацию об узлах: хост, память, группа.
func (r *NodeRepository) Nodes(ctx context.Context) ([]model.Row, error) {
	return r.exec.Query(ctx,
		"SELECT n.node_id, n.node_group_id, n.external_id, n.sync_url,"+
			" n.batch_in_error_count, n.batch_to_send_count,"+
			" h.heartbeat_time, h.host_name, h.ip_address,"+
			" h.os_name, h.os_version, h.available_processors,"+
			" h.free_memory_bytes, h.total_memory_bytes,"+
			" h.symmetric_version, g.description AS node_group_description"+
			" FROM "+r.tables.Node()+" n"+
			" LEFT JOIN "+r.tables.NodeHost()+" h ON n.node_id = h.node_id"+
			" LEFT JOIN "+r.tables.NodeGroup()+" g ON n.node_group_id = g.node_group_id"+
			" ORDER BY n.node_id")
}

// SyncBatchStats возвращает количество исходящих батчей по статусам.
func (r *NodeRepository) SyncBatchStats(ctx context.Context) ([]model.Row, error) {
	return r.exec.Query(ctx,
		"SELECT status, COUNT(*) AS count FROM "+r.tables.Batch(model.DirectionOutgoing)+
			" GROUP BY status ORDER BY status")
}

// NodeGroups возвращает группы узлов.
func (r *NodeRepository) NodeGroups(ctx context.Context) ([]model.Row, error) {
	return r.exec.Query(ctx,
		"SELECT node_group_id AS id, description FROM "+r.tables.NodeGroup()+" ORDER BY node_group_id")
}

// Channels возвращает каналы репликации.
func (r *NodeRepository) Channels(ctx context.Context) ([]model.Row, error) {
	return r.exec.Query(ctx,
		"SELECT channel_id AS id, max_batch_size, description FROM "+r.tables.Channel()+" ORDER BY channel_id")
}

// Triggers возвращает триггеры захвата изменений.
func (r *NodeRepository) Triggers(ctx context.Context) ([]model.Row, error) {
	return r.exec.Query(ctx,
		"SELECT trigger_id, source_table_name, channel_id, last_update_time FROM "+r.tables.Trigger()+
			" ORDER BY trigger_id")
}

// UniqueChannels возвращает различные channel_id обоих направлений.
func (r *NodeRepository) UniqueChannels(ctx context.Context) ([]model.Row, error) {
	return r.exec.Query(ctx,
		"SELECT DISTINCT channel_id FROM "+r.tables.Batch(model.DirectionOutgoing)+
			" UNION SELECT DISTINCT channel_id FROM "+r.tables.Batch(model.DirectionIncoming)+
			" ORDER BY channel_id")
}
