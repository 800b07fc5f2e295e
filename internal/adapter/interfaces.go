// Package adapter is the Go client of the device sync API.
//
// [SyncClient] hides the HTTP transport. Non-2xx statuses are mapped to the
// sentinel errors in errors.go so callers can branch with [errors.Is]. A 409
// from a sync endpoint is not an error: it carries a conflict_resolved
// outcome and is returned as a regular [models.SyncResponse].
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/MKhiriev/device-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// SyncClient talks to one sync server on behalf of one user.
type SyncClient interface {
	// SetToken stores the bearer token attached to every request.
	SetToken(token string)
	Token() string

	RegisterDevice(ctx context.Context, req models.RegisterDeviceRequest) (models.RegisterDeviceResponse, error)
	ListDevices(ctx context.Context) ([]models.DeviceListItem, error)
	DeactivateDevice(ctx context.Context, deviceID string) (bool, error)

	// Sync and SyncVoice return the outcome for both 200 and 409.
	Sync(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error)
	SyncVoice(ctx context.Context, req models.VoiceSyncRequest) (models.SyncResponse, error)
	SyncBatch(ctx context.Context, req models.BatchSyncRequest) (models.BatchSyncResponse, error)

	GetEntityStates(ctx context.Context, domain string, entityID uuid.UUID) (models.EntityStateResponse, error)
	GetVersion(ctx context.Context) (models.BuildInfoResponse, error)
}
