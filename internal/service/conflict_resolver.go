package service

import (
	"fmt"
	"time"

	"github.com/MKhiriev/device-sync/models"
)

// ResolveConflict decides which device keeps an entity when an incoming
// write is older than the latest committed state.
//
// Rules, first match wins:
//  1. the incoming device has the higher priority: current_wins;
//  2. the existing device has the higher priority: latest_wins;
//  3. equal priority: most_recent_wins when the write was modified after the
//     existing device was last seen, latest_wins otherwise.
//
// The function only reads its arguments.
func ResolveConflict(incoming models.Device, write models.SyncWrite, existing models.Device, state models.SyncState) models.Resolution {
	switch {
	case incoming.Priority > existing.Priority:
		return models.Resolution{
			WinnerDeviceID: incoming.DeviceID,
			Kind:           models.ResolutionCurrentWins,
			Conflict:       true,
			Reason: fmt.Sprintf("device %s has higher priority (%d > %d)",
				incoming.DeviceID, incoming.Priority, existing.Priority),
		}
	case existing.Priority > incoming.Priority:
		return models.Resolution{
			WinnerDeviceID: existing.DeviceID,
			Kind:           models.ResolutionLatestWins,
			Conflict:       true,
			Reason: fmt.Sprintf("device %s holding version %d has higher priority (%d > %d)",
				existing.DeviceID, state.LastSyncVersion, existing.Priority, incoming.Priority),
		}
	case write.ModifiedAt.After(existing.LastSeen):
		return models.Resolution{
			WinnerDeviceID: incoming.DeviceID,
			Kind:           models.ResolutionMostRecentWins,
			Conflict:       true,
			Reason: fmt.Sprintf("equal priority %d, write modified at %s after device %s was last seen at %s",
				incoming.Priority, write.ModifiedAt.UTC().Format(time.RFC3339),
				existing.DeviceID, existing.LastSeen.UTC().Format(time.RFC3339)),
		}
	default:
		return models.Resolution{
			WinnerDeviceID: existing.DeviceID,
			Kind:           models.ResolutionLatestWins,
			Conflict:       true,
			Reason: fmt.Sprintf("equal priority %d, device %s holding version %d is more recent",
				existing.Priority, existing.DeviceID, state.LastSyncVersion),
		}
	}
}
