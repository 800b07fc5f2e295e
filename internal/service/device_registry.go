package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/internal/store"
	"github.com/MKhiriev/device-sync/internal/validators"
	"github.com/MKhiriev/device-sync/models"
)

// deviceRegistry is the concrete implementation of DeviceRegistry.
type deviceRegistry struct {
	devices store.DeviceRepository

	// priorities assigns the initial priority of a new device. It is never
	// consulted for a device that already exists.
	priorities models.DevicePriorities

	validator validators.Validator
	now       func() time.Time

	logger *logger.Logger
}

func NewDeviceRegistry(devices store.DeviceRepository, priorities models.DevicePriorities, log *logger.Logger) DeviceRegistry {
	return &deviceRegistry{
		devices:    devices,
		priorities: priorities,
		validator:  validators.NewSyncValidator(),
		now:        time.Now,
		logger:     log,
	}
}

// RegisterDevice creates the device or refreshes its metadata and last_seen.
//
// Returns the stored device or:
//   - ErrValidation for an empty user id or a malformed request.
//   - ErrDeviceOwnedByAnotherUser when device_id belongs to someone else.
//   - ErrStorage for repository failures.
func (r *deviceRegistry) RegisterDevice(ctx context.Context, userID string, req models.RegisterDeviceRequest) (models.Device, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		return models.Device{}, fmt.Errorf("%w: %w", ErrValidation, validators.ErrInvalidUserID)
	}
	if err := r.validator.Validate(ctx, req); err != nil {
		log.Err(err).Str("func", "deviceRegistry.RegisterDevice").Str("device_id", req.DeviceID).Msg("invalid registration")
		return models.Device{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	now := r.now().UTC()
	device := models.Device{
		DeviceID:   req.DeviceID,
		UserID:     userID,
		DeviceType: req.DeviceType,
		Priority:   r.priorities.For(req.DeviceType),
		DeviceName: req.Metadata.DeviceName,
		OSType:     req.Metadata.OSType,
		OSVersion:  req.Metadata.OSVersion,
		AppVersion: req.Metadata.AppVersion,
		PushToken:  req.Metadata.PushToken,
		LastSeen:   now,
		IsActive:   true,
		CreatedAt:  now,
	}

	stored, err := r.devices.Upsert(ctx, device)
	switch {
	case errors.Is(err, store.ErrDeviceOwnedByAnotherUser):
		log.Warn().Str("func", "deviceRegistry.RegisterDevice").Str("device_id", req.DeviceID).Msg("device belongs to another user")
		return models.Device{}, fmt.Errorf("%w: %s", ErrDeviceOwnedByAnotherUser, req.DeviceID)
	case err != nil:
		log.Err(err).Str("func", "deviceRegistry.RegisterDevice").Str("device_id", req.DeviceID).Msg("device upsert failed")
		return models.Device{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	if !req.DeviceType.IsKnown() {
		log.Info().
			Str("func", "deviceRegistry.RegisterDevice").
			Str("device_type", string(req.DeviceType)).
			Int("priority", stored.Priority).
			Msg("unknown device type registered")
	}

	return stored, nil
}

// GetUserDevices returns the active devices of the user, most recently seen
// first.
func (r *deviceRegistry) GetUserDevices(ctx context.Context, userID string) ([]models.Device, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: %w", ErrValidation, validators.ErrInvalidUserID)
	}

	devices, err := r.devices.GetActiveForUser(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "deviceRegistry.GetUserDevices").Msg("listing devices failed")
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return devices, nil
}

// DeactivateDevice marks the device inactive. It reports false for a device
// the user does not own; repeating the call on an inactive device reports
// true.
func (r *deviceRegistry) DeactivateDevice(ctx context.Context, userID, deviceID string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("%w: %w", ErrValidation, validators.ErrInvalidUserID)
	}
	if !validators.ValidDeviceID(deviceID) {
		return false, fmt.Errorf("%w: %w", ErrValidation, validators.ErrInvalidDeviceID)
	}

	ok, err := r.devices.Deactivate(ctx, userID, deviceID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "deviceRegistry.DeactivateDevice").Str("device_id", deviceID).Msg("deactivation failed")
		return false, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return ok, nil
}
