package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/MKhiriev/device-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// DeviceRegistry manages the devices of a user.
type DeviceRegistry interface {
	RegisterDevice(ctx context.Context, userID string, req models.RegisterDeviceRequest) (models.Device, error)
	GetUserDevices(ctx context.Context, userID string) ([]models.Device, error)
	DeactivateDevice(ctx context.Context, userID, deviceID string) (bool, error)
}

// SyncService commits entity writes and propagates them to sibling devices.
//
// Sync outcomes are values: conflicts and failures are reported through
// [models.SyncOutcome], never through a panic or a second return value.
type SyncService interface {
	SyncAcrossDevices(ctx context.Context, userID, deviceID string, write models.SyncWrite) models.SyncOutcome

	// Sync decodes and validates a typed payload before calling SyncAcrossDevices.
	Sync(ctx context.Context, userID string, req models.SyncRequest) models.SyncOutcome

	// SyncBatch runs every item independently. The error is returned only
	// for an invalid envelope.
	SyncBatch(ctx context.Context, userID string, req models.BatchSyncRequest) (models.BatchSyncResponse, error)

	GetEntityStates(ctx context.Context, userID, domain string, entityID uuid.UUID) ([]models.SyncState, error)
}

// Notifier delivers refresh signals to devices. Implementations must not
// block on slow receivers.
type Notifier interface {
	FanOut(ctx context.Context, userID string, devices []models.Device, notification models.SyncNotification) models.FanOutReport
}

type AuthService interface {
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}
