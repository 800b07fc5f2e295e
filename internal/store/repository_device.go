package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/models"
)

// deviceRepository is the SQL implementation of [DeviceRepository] over the
// "devices" table.
type deviceRepository struct {
	*DB
	logger *logger.Logger
}

// NewDeviceRepository constructs a [DeviceRepository] backed by db.
func NewDeviceRepository(db *DB, logger *logger.Logger) DeviceRepository {
	logger.Debug().Msg("creating device repository")
	return &deviceRepository{
		DB:     db,
		logger: logger,
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(row rowScanner, d *models.Device) error {
	err := row.Scan(
		&d.DeviceID,
		&d.UserID,
		&d.DeviceType,
		&d.Priority,
		&d.DeviceName,
		&d.OSType,
		&d.OSVersion,
		&d.AppVersion,
		&d.PushToken,
		&d.LastSeen,
		&d.IsActive,
		&d.CreatedAt,
	)
	if err != nil {
		return err
	}
	d.LastSeen = d.LastSeen.UTC()
	d.CreatedAt = d.CreatedAt.UTC()
	return nil
}

// Upsert inserts or refreshes a device and reads the stored row back inside
// one transaction. A conflicting row that belongs to another user is left
// untouched and reported as [ErrDeviceOwnedByAnotherUser].
func (r *deviceRepository) Upsert(ctx context.Context, device models.Device) (models.Device, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpsertDeviceQuery(r.builder, device)
	if err != nil {
		log.Err(err).Str("func", "deviceRepository.Upsert").Msg("failed to build query")
		return models.Device{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	selectQuery, selectArgs, err := buildGetDeviceQuery(r.builder, device.UserID, device.DeviceID)
	if err != nil {
		log.Err(err).Str("func", "deviceRepository.Upsert").Msg("failed to build query")
		return models.Device{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "deviceRepository.Upsert").Msg("failed to begin transaction")
		return models.Device{}, r.wrap(ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "deviceRepository.Upsert").
			Str("device_id", device.DeviceID).
			Msg("failed to upsert device")
		return models.Device{}, r.wrap(ErrExecutingStatement, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Device{}, r.wrap(ErrExecutingStatement, err)
	}
	if affected == 0 {
		log.Warn().
			Str("func", "deviceRepository.Upsert").
			Str("device_id", device.DeviceID).
			Msg("device id is registered to another user")
		return models.Device{}, ErrDeviceOwnedByAnotherUser
	}

	var stored models.Device
	if err = scanDevice(tx.QueryRowContext(ctx, selectQuery, selectArgs...), &stored); err != nil {
		log.Err(err).
			Str("func", "deviceRepository.Upsert").
			Str("device_id", device.DeviceID).
			Msg("failed to read upserted device")
		return models.Device{}, r.wrap(ErrExecutingQuery, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "deviceRepository.Upsert").Msg("failed to commit transaction")
		return models.Device{}, r.wrap(ErrCommitingTransaction, err)
	}

	return stored, nil
}

func (r *deviceRepository) GetByIDForUser(ctx context.Context, userID, deviceID string) (models.Device, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetDeviceQuery(r.builder, userID, deviceID)
	if err != nil {
		log.Err(err).Str("func", "deviceRepository.GetByIDForUser").Msg("failed to build query")
		return models.Device{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var device models.Device
	if err = scanDevice(r.QueryRowContext(ctx, query, args...), &device); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Device{}, ErrDeviceNotFound
		}
		log.Err(err).
			Str("func", "deviceRepository.GetByIDForUser").
			Str("device_id", deviceID).
			Msg("failed to get device")
		return models.Device{}, r.wrap(ErrExecutingQuery, err)
	}

	return device, nil
}

func (r *deviceRepository) GetActiveForUser(ctx context.Context, userID string) ([]models.Device, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildActiveDevicesQuery(r.builder, userID)
	if err != nil {
		log.Err(err).Str("func", "deviceRepository.GetActiveForUser").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "deviceRepository.GetActiveForUser").Msg("failed to query devices")
		return nil, r.wrap(ErrExecutingQuery, err)
	}
	defer rows.Close()

	devices := make([]models.Device, 0, 4)
	for rows.Next() {
		var d models.Device
		if err = scanDevice(rows, &d); err != nil {
			log.Err(err).Str("func", "deviceRepository.GetActiveForUser").Msg("failed to scan device row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		devices = append(devices, d)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "deviceRepository.GetActiveForUser").Msg("error during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return devices, nil
}

func (r *deviceRepository) Deactivate(ctx context.Context, userID, deviceID string) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildDeactivateDeviceQuery(r.builder, userID, deviceID)
	if err != nil {
		log.Err(err).Str("func", "deviceRepository.Deactivate").Msg("failed to build query")
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "deviceRepository.Deactivate").
			Str("device_id", deviceID).
			Msg("failed to deactivate device")
		return false, r.wrap(ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, r.wrap(ErrExecutingStatement, err)
	}

	return affected > 0, nil
}
