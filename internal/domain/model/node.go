package model

import "time"

// NodeStatus - производный статус узла по heartbeat.
type NodeStatus string

const (
	NodeOnline  NodeStatus = "ONLINE"
	NodeOffline NodeStatus = "OFFLINE"
)

// MemoryUsage - использование памяти узла в байтах.
type MemoryUsage struct {
	Free  int64 `json:"free"`
	Total int64 `json:"total"`
	Used  int64 `json:"used"`
}

// Node - участник топологии репликации (sym_node + sym_node_host).
type Node struct {
	NodeID               string       `json:"nodeId"`
	NodeGroupID          string       `json:"nodeGroupId"`
	ExternalID           *string      `json:"externalId"`
	SyncURL              *string      `json:"syncUrl"`
	HostName             *string      `json:"hostName"`
	IPAddress            *string      `json:"ipAddress"`
	OSInfo               *string      `json:"osInfo"`
	AvailableProcessors  *int64       `json:"processors"`
	MemoryUsage          *MemoryUsage `json:"memoryUsage"`
	SymmetricVersion     *string      `json:"version"`
	LastHeartbeat        *time.Time   `json:"lastHeartbeat"`
	Status               NodeStatus   `json:"status"`
	BatchInErrorCount    int64        `json:"batchInErrorCount"`
	BatchToSendCount     int64        `json:"batchToSendCount"`
	NodeGroupDescription *string      `json:"nodeGroupDescription"`
	VesselName           *string      `json:"vesselName"`
}

// NodeSummary - сводка по узлам.
type NodeSummary struct {
	Total   int `json:"total"`
	Online  int `json:"online"`
	Offline int `json:"offline"`
}

// NodeStatusCount - количество узлов с данным производным статусом.
type NodeStatusCount struct {
	Status NodeStatus `json:"status"`
	Count  int64      `json:"count"`
}

// SyncStat - количество исходящих батчей в статусе (формат для графиков).
type SyncStat struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// NodeStatusStats - агрегированный статус узлов и синхронизации.
type NodeStatusStats struct {
	NodeStatus []NodeStatusCount `json:"nodeStatus"`
	SyncStats  []SyncStat        `json:"syncStats"`
}
