package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/device-sync/internal/config"
	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/internal/store"
	"github.com/MKhiriev/device-sync/internal/telemetry"
	"github.com/MKhiriev/device-sync/internal/utils"
	"github.com/MKhiriev/device-sync/internal/validators"
	"github.com/MKhiriev/device-sync/models"
)

const defaultMaxCommitAttempts = 3

// syncCoordinator commits writes with priority-based conflict resolution
// and fans the result out to the user's other devices.
type syncCoordinator struct {
	devices  store.DeviceRepository
	states   store.SyncStateRepository
	notifier Notifier

	validator   validators.Validator
	metrics     *telemetry.SyncMetrics
	maxAttempts int
	now         func() time.Time

	logger *logger.Logger
}

func NewSyncCoordinator(
	devices store.DeviceRepository,
	states store.SyncStateRepository,
	notifier Notifier,
	metrics *telemetry.SyncMetrics,
	cfg config.Sync,
	log *logger.Logger,
) SyncService {
	maxAttempts := cfg.MaxCommitAttempts
	if maxAttempts < 1 {
		maxAttempts = defaultMaxCommitAttempts
	}
	if metrics == nil {
		metrics = telemetry.NopSyncMetrics()
	}

	return &syncCoordinator{
		devices:     devices,
		states:      states,
		notifier:    notifier,
		validator:   validators.NewSyncValidator(),
		metrics:     metrics,
		maxAttempts: maxAttempts,
		now:         time.Now,
		logger:      log,
	}
}

// SyncAcrossDevices commits write on behalf of deviceID unless a newer
// version of the entity already exists, in which case the conflict is
// resolved and nothing is written.
func (s *syncCoordinator) SyncAcrossDevices(ctx context.Context, userID, deviceID string, write models.SyncWrite) models.SyncOutcome {
	log := logger.FromContext(ctx).With().
		Str("device_id", deviceID).
		Str("domain", write.Domain).
		Str("entity_id", write.EntityID.String()).
		Int64("version", write.Version).
		Logger()

	device, err := s.devices.GetByIDForUser(ctx, userID, deviceID)
	switch {
	case errors.Is(err, store.ErrDeviceNotFound):
		return models.SyncFailed(models.SyncErrorUnknownDevice, fmt.Errorf("%w: %s", ErrUnknownDevice, deviceID))
	case err != nil:
		log.Err(err).Str("func", "syncCoordinator.SyncAcrossDevices").Msg("device lookup failed")
		return models.SyncFailed(models.SyncErrorStorage, fmt.Errorf("%w: %w", ErrStorage, err))
	case !device.IsActive:
		return models.SyncFailed(models.SyncErrorUnknownDevice, fmt.Errorf("%w: %s is deactivated", ErrUnknownDevice, deviceID))
	}

	if err = s.validator.Validate(ctx, write); err != nil {
		return models.SyncFailed(models.SyncErrorValidation, fmt.Errorf("%w: %w", ErrValidation, err))
	}

	checksum := utils.Checksum(write.Payload)

	for attempt := 1; ; attempt++ {
		latest, err := s.states.GetLatest(ctx, userID, write.Domain, write.EntityID)
		switch {
		case errors.Is(err, store.ErrNoPriorState):
			// first write of the entity
		case err != nil:
			log.Err(err).Str("func", "syncCoordinator.SyncAcrossDevices").Msg("loading latest state failed")
			return models.SyncFailed(models.SyncErrorStorage, fmt.Errorf("%w: %w", ErrStorage, err))
		case latest.State.LastSyncVersion > write.Version:
			resolution := ResolveConflict(device, write, latest.Device, latest.State)
			log.Info().
				Str("func", "syncCoordinator.SyncAcrossDevices").
				Int64("latest_version", latest.State.LastSyncVersion).
				Str("winner", resolution.WinnerDeviceID).
				Str("resolution", string(resolution.Kind)).
				Msg("conflict resolved, write not committed")
			return models.ConflictResolved(resolution)
		}

		err = s.states.Commit(ctx, userID, models.SyncState{
			DeviceID:        device.DeviceID,
			Domain:          write.Domain,
			EntityID:        write.EntityID,
			LastSyncVersion: write.Version,
			LastModifiedAt:  s.now().UTC(),
			IsDirty:         false,
			Checksum:        checksum,
			Payload:         write.Payload,
		})
		if err == nil {
			break
		}

		retryable := errors.Is(err, store.ErrStaleSyncVersion) || errors.Is(err, store.ErrTransient)
		if !retryable {
			log.Err(err).Str("func", "syncCoordinator.SyncAcrossDevices").Msg("commit failed")
			return models.SyncFailed(models.SyncErrorStorage, fmt.Errorf("%w: %w", ErrStorage, err))
		}
		if attempt >= s.maxAttempts {
			log.Err(err).Str("func", "syncCoordinator.SyncAcrossDevices").Int("attempts", attempt).Msg("commit attempts exhausted")
			return models.SyncFailed(models.SyncErrorStorage, fmt.Errorf("%w: %w: %w", ErrStorage, ErrCommitAttemptsExhausted, err))
		}

		s.metrics.RecordCommitRetry(ctx, write.Domain)
		log.Debug().Str("func", "syncCoordinator.SyncAcrossDevices").Int("attempt", attempt).Err(err).Msg("commit lost a race, re-checking conflict")
	}

	report := s.notifySiblings(context.WithoutCancel(ctx), userID, device, write)
	log.Debug().
		Str("func", "syncCoordinator.SyncAcrossDevices").
		Int("notified", report.Notified).
		Int("failed", len(report.Failures)).
		Msg("write committed")

	return models.Synced(report)
}

// notifySiblings runs after the commit with no transaction open. Errors are
// reported in the result and never turn a committed write into a failure.
func (s *syncCoordinator) notifySiblings(ctx context.Context, userID string, writer models.Device, write models.SyncWrite) models.FanOutReport {
	devices, err := s.devices.GetActiveForUser(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "syncCoordinator.notifySiblings").Msg("listing devices for fan-out failed")
		return models.FanOutReport{}
	}

	recipients := make([]models.Device, 0, len(devices))
	for _, d := range devices {
		if d.DeviceID != writer.DeviceID {
			recipients = append(recipients, d)
		}
	}
	if len(recipients) == 0 {
		return models.FanOutReport{}
	}

	return s.notifier.FanOut(ctx, userID, recipients, models.SyncNotification{
		SourceDeviceID: writer.DeviceID,
		Domain:         write.Domain,
		EntityID:       write.EntityID,
		Action:         models.ActionRefresh,
		Version:        write.Version,
		IssuedAt:       s.now().UTC(),
	})
}

// Sync validates the typed payload of req and syncs its canonical bytes.
func (s *syncCoordinator) Sync(ctx context.Context, userID string, req models.SyncRequest) models.SyncOutcome {
	if err := s.validator.Validate(ctx, req, validators.FieldDeviceID, validators.FieldPayload); err != nil {
		return models.SyncFailed(models.SyncErrorValidation, fmt.Errorf("%w: %w", ErrValidation, err))
	}

	payload, err := req.Payload.Encode(req.Domain)
	if err != nil {
		return models.SyncFailed(models.SyncErrorValidation, fmt.Errorf("%w: %w", ErrValidation, err))
	}

	return s.SyncAcrossDevices(ctx, userID, req.DeviceID, models.SyncWrite{
		Domain:     req.Domain,
		EntityID:   req.EntityID,
		Version:    req.Version,
		ModifiedAt: req.ModifiedAt,
		Payload:    payload,
	})
}

func (s *syncCoordinator) SyncBatch(ctx context.Context, userID string, req models.BatchSyncRequest) (models.BatchSyncResponse, error) {
	if err := s.validator.Validate(ctx, req); err != nil {
		return models.BatchSyncResponse{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	resp := models.BatchSyncResponse{Results: make([]models.BatchSyncResult, 0, len(req.Items))}
	for i, item := range req.Items {
		outcome := s.Sync(ctx, userID, req.SyncRequest(i))

		switch outcome.Status {
		case models.SyncStatusSynced:
			resp.Synced++
		case models.SyncStatusConflictResolved:
			resp.Conflicts++
		default:
			resp.Errors++
		}

		resp.Results = append(resp.Results, models.BatchSyncResult{
			Domain:   item.Domain,
			EntityID: item.EntityID,
			Result:   outcome.Response(),
		})
	}

	return resp, nil
}

// GetEntityStates returns the per-device view of one entity.
func (s *syncCoordinator) GetEntityStates(ctx context.Context, userID, domain string, entityID uuid.UUID) ([]models.SyncState, error) {
	probe := models.SyncWrite{Domain: domain, EntityID: entityID}
	if err := s.validator.Validate(ctx, probe, validators.FieldDomain, validators.FieldEntityID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	states, err := s.states.ListForEntity(ctx, userID, domain, entityID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "syncCoordinator.GetEntityStates").Msg("listing states failed")
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return states, nil
}
