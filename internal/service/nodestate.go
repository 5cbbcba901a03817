package service

import (
	"time"

	"github.com/bigkaa/symds-dashboard/internal/domain/model"
)

// DefaultDeadNodeThreshold - возраст heartbeat, после которого узел OFFLINE.
const DefaultDeadNodeThreshold = 30 * time.Minute

// DeriveNodeStatus вычисляет статус узла: OFFLINE, если heartbeat нет или
// он старше threshold (строго больше), иначе ONLINE.
func DeriveNodeStatus(heartbeat *time.Time, now time.Time, threshold time.Duration) model.NodeStatus {
	if heartbeat == nil || now.Sub(*heartbeat) > threshold {
		return model.NodeOffline
	}
	return model.NodeOnline
}
