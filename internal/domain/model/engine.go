package model

import "time"

// NodeGroup - группа узлов (sym_node_group).
type NodeGroup struct {
	ID          string  `json:"id"`
	Description *string `json:"description"`
}

// Channel - канал репликации (sym_channel).
type Channel struct {
	ID           string  `json:"id"`
	MaxBatchSize *int64  `json:"maxBatchSize"`
	Description  *string `json:"description"`
}

// Trigger - триггер захвата изменений (sym_trigger).
type Trigger struct {
	ID              string     `json:"triggerId"`
	SourceTableName string     `json:"sourceTableName"`
	ChannelID       string     `json:"channelId"`
	LastUpdateTime  *time.Time `json:"lastUpdateTime"`
}

// EngineConfig - конфигурация движка репликации.
type EngineConfig struct {
	NodeGroups []NodeGroup `json:"nodeGroups"`
	Channels   []Channel   `json:"channels"`
	Triggers   []Trigger   `json:"triggers"`
}
