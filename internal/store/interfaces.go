package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/MKhiriev/device-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// DeviceRepository persists registered devices.
type DeviceRepository interface {
	// Upsert inserts the device or, when device_id exists for the same user,
	// overwrites its metadata and last_seen. Priority, device_type, is_active
	// and created_at of an existing row are kept. Returns the stored row.
	Upsert(ctx context.Context, device models.Device) (models.Device, error)

	// GetByIDForUser returns the device regardless of its active flag, or
	// ErrDeviceNotFound.
	GetByIDForUser(ctx context.Context, userID, deviceID string) (models.Device, error)

	// GetActiveForUser lists active devices ordered by last_seen descending.
	GetActiveForUser(ctx context.Context, userID string) ([]models.Device, error)

	// Deactivate clears is_active. It reports whether the device exists.
	Deactivate(ctx context.Context, userID, deviceID string) (bool, error)
}

// SyncStateRepository persists per-device sync states.
type SyncStateRepository interface {
	// GetLatest returns the highest-version state of the entity across all
	// of the user's devices, or ErrNoPriorState.
	GetLatest(ctx context.Context, userID, domain string, entityID uuid.UUID) (models.LatestSyncState, error)

	// Commit upserts state in one transaction. It fails with
	// ErrStaleSyncVersion when a higher version was committed meanwhile.
	Commit(ctx context.Context, userID string, state models.SyncState) error

	// ListForEntity returns the state of the entity on every device of the
	// user, highest version first.
	ListForEntity(ctx context.Context, userID, domain string, entityID uuid.UUID) ([]models.SyncState, error)
}
