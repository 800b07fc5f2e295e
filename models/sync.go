package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncState is the last known version of one entity as seen by one device.
// The triple (DeviceID, Domain, EntityID) is unique.
type SyncState struct {
	DeviceID        string    `json:"device_id"`
	Domain          string    `json:"domain"`
	EntityID        uuid.UUID `json:"entity_id"`
	LastSyncVersion int64     `json:"last_sync_version"`
	LastModifiedAt  time.Time `json:"last_modified_at"`
	IsDirty         bool      `json:"is_dirty"`
	Checksum        string    `json:"checksum,omitempty"`

	// Payload is the canonical JSON body of the committed write. It is stored
	// as-is and never inspected by the sync core.
	Payload []byte `json:"-"`
}

// LatestSyncState pairs the highest-versioned state of an entity with the
// device that wrote it.
type LatestSyncState struct {
	State  SyncState
	Device Device
}

// SyncWrite is a single incoming write from a device.
type SyncWrite struct {
	Domain   string
	EntityID uuid.UUID
	Version  int64

	// ModifiedAt is the modification time claimed by the client. It drives the
	// equal-priority tie-break.
	ModifiedAt time.Time

	// Payload is an opaque blob. Only its checksum is computed by the core.
	Payload []byte
}

// ResolutionKind names which rule decided a conflict.
type ResolutionKind string

const (
	// ResolutionCurrentWins means the writing device has the higher priority.
	ResolutionCurrentWins ResolutionKind = "current_wins"
	// ResolutionLatestWins means the device holding the latest state keeps it.
	ResolutionLatestWins ResolutionKind = "latest_wins"
	// ResolutionMostRecentWins means priorities tie and the incoming write
	// claims a later modification time.
	ResolutionMostRecentWins ResolutionKind = "most_recent_wins"
)

// Resolution is the verdict of the conflict resolver.
type Resolution struct {
	WinnerDeviceID string         `json:"winning_device"`
	Kind           ResolutionKind `json:"resolution"`
	Conflict       bool           `json:"conflict"`
	Reason         string         `json:"reason,omitempty"`
}

// SyncNotification is the refresh signal delivered to a sibling device after
// a successful commit.
type SyncNotification struct {
	// DeviceID is the recipient.
	DeviceID       string    `json:"device_id"`
	SourceDeviceID string    `json:"source_device_id"`
	Domain         string    `json:"domain"`
	EntityID       uuid.UUID `json:"entity_id"`
	Action         string    `json:"action"`
	Version        int64     `json:"version"`
	IssuedAt       time.Time `json:"issued_at"`
}

// ActionRefresh tells a device to re-fetch the named entity.
const ActionRefresh = "refresh"

// DeliveryFailure records a notification that could not be handed to the
// transport for one device.
type DeliveryFailure struct {
	DeviceID string `json:"device_id"`
	Reason   string `json:"reason"`
}

// FanOutReport summarises a fan-out round.
type FanOutReport struct {
	Notified int
	Failures []DeliveryFailure
}
