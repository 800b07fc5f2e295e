package models

import (
	"time"

	"github.com/google/uuid"
)

// RegisterDeviceRequest is the body of POST /api/devices.
type RegisterDeviceRequest struct {
	DeviceID   string         `json:"device_id"`
	DeviceType DeviceType     `json:"device_type"`
	Metadata   DeviceMetadata `json:"metadata"`
}

// SyncRequest is the body of POST /api/sync.
type SyncRequest struct {
	DeviceID   string      `json:"device_id"`
	Domain     string      `json:"domain"`
	EntityID   uuid.UUID   `json:"entity_id"`
	Version    int64       `json:"version"`
	ModifiedAt time.Time   `json:"modified_at"`
	Payload    SyncPayload `json:"payload"`
}

// VoiceSyncRequest is the body of POST /api/sync/voice. The domain is
// implied.
type VoiceSyncRequest struct {
	DeviceID   string       `json:"device_id"`
	EntityID   uuid.UUID    `json:"entity_id"`
	Version    int64        `json:"version"`
	ModifiedAt time.Time    `json:"modified_at"`
	Voice      VoicePayload `json:"voice"`
}

// SyncRequest converts the voice request into a generic sync request.
func (r VoiceSyncRequest) SyncRequest() SyncRequest {
	voice := r.Voice
	return SyncRequest{
		DeviceID:   r.DeviceID,
		Domain:     DomainVoice,
		EntityID:   r.EntityID,
		Version:    r.Version,
		ModifiedAt: r.ModifiedAt,
		Payload:    SyncPayload{Kind: PayloadKindVoice, Voice: &voice},
	}
}

// BatchSyncItem is one write of a batch. The device is shared by the batch.
type BatchSyncItem struct {
	Domain     string      `json:"domain"`
	EntityID   uuid.UUID   `json:"entity_id"`
	Version    int64       `json:"version"`
	ModifiedAt time.Time   `json:"modified_at"`
	Payload    SyncPayload `json:"payload"`
}

// BatchSyncRequest is the body of POST /api/sync/batch.
type BatchSyncRequest struct {
	DeviceID string          `json:"device_id"`
	Items    []BatchSyncItem `json:"items"`
}

// SyncRequest converts the i-th item into a standalone sync request.
func (r BatchSyncRequest) SyncRequest(i int) SyncRequest {
	item := r.Items[i]
	return SyncRequest{
		DeviceID:   r.DeviceID,
		Domain:     item.Domain,
		EntityID:   item.EntityID,
		Version:    item.Version,
		ModifiedAt: item.ModifiedAt,
		Payload:    item.Payload,
	}
}
