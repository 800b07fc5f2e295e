package models

import (
	"time"

	"github.com/google/uuid"
)

// RegisterDeviceResponse is returned after a successful registration.
type RegisterDeviceResponse struct {
	DeviceID string `json:"device_id"`
	Priority int    `json:"priority"`
	Status   string `json:"status"`
}

// DeviceStatusRegistered is the status reported by a successful registration.
const DeviceStatusRegistered = "registered"

// DeviceListItem is one element of GET /api/devices.
type DeviceListItem struct {
	DeviceID   string     `json:"device_id"`
	DeviceType DeviceType `json:"device_type"`
	Priority   int        `json:"priority"`
	LastSeen   time.Time  `json:"last_seen"`
	IsActive   bool       `json:"is_active"`
}

// NewDeviceListItem projects a device into its list view.
func NewDeviceListItem(d Device) DeviceListItem {
	return DeviceListItem{
		DeviceID:   d.DeviceID,
		DeviceType: d.DeviceType,
		Priority:   d.Priority,
		LastSeen:   d.LastSeen.UTC(),
		IsActive:   d.IsActive,
	}
}

// DeactivateDeviceResponse is returned by DELETE /api/devices/{device_id}.
type DeactivateDeviceResponse struct {
	Deactivated bool `json:"deactivated"`
}

// SyncResponse is the wire form of [SyncOutcome]. Only the fields of the
// variant named by Status are populated.
type SyncResponse struct {
	Status SyncStatus `json:"status"`

	NotifiedDevices  *int  `json:"notified_devices,omitempty"`
	FailedDeliveries int   `json:"failed_deliveries,omitempty"`
	Conflict         *bool `json:"conflict,omitempty"`

	Resolution    ResolutionKind `json:"resolution,omitempty"`
	WinningDevice string         `json:"winning_device,omitempty"`

	ErrorKind SyncErrorKind `json:"error_kind,omitempty"`
	Message   string        `json:"message,omitempty"`
}

// BatchSyncResult is the outcome of one batch item.
type BatchSyncResult struct {
	Domain   string       `json:"domain"`
	EntityID uuid.UUID    `json:"entity_id"`
	Result   SyncResponse `json:"result"`
}

// BatchSyncResponse is returned by POST /api/sync/batch.
type BatchSyncResponse struct {
	Results   []BatchSyncResult `json:"results"`
	Synced    int               `json:"synced"`
	Conflicts int               `json:"conflicts"`
	Errors    int               `json:"errors"`
}

// EntityStateResponse is returned by GET /api/sync/{domain}/{entity_id}.
type EntityStateResponse struct {
	Domain   string      `json:"domain"`
	EntityID uuid.UUID   `json:"entity_id"`
	States   []SyncState `json:"states"`
}

// BuildInfoResponse is returned by GET /api/version.
type BuildInfoResponse struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}
