package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/models"
)

// syncStateRepository is the SQL implementation of [SyncStateRepository]
// over the "sync_states" table joined with "devices" for ownership.
type syncStateRepository struct {
	*DB
	logger *logger.Logger
}

// NewSyncStateRepository constructs a [SyncStateRepository] backed by db.
func NewSyncStateRepository(db *DB, logger *logger.Logger) SyncStateRepository {
	logger.Debug().Msg("creating sync state repository")
	return &syncStateRepository{
		DB:     db,
		logger: logger,
	}
}

func scanSyncState(row rowScanner, st *models.SyncState, extra ...any) error {
	dest := []any{
		&st.DeviceID,
		&st.Domain,
		&st.EntityID,
		&st.LastSyncVersion,
		&st.LastModifiedAt,
		&st.IsDirty,
		&st.Checksum,
		&st.Payload,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return err
	}
	st.LastModifiedAt = st.LastModifiedAt.UTC()
	return nil
}

func (r *syncStateRepository) GetLatest(ctx context.Context, userID, domain string, entityID uuid.UUID) (models.LatestSyncState, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildLatestStateQuery(r.builder, userID, domain, entityID)
	if err != nil {
		log.Err(err).Str("func", "syncStateRepository.GetLatest").Msg("failed to build query")
		return models.LatestSyncState{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		latest models.LatestSyncState
		d      = &latest.Device
	)
	err = scanSyncState(r.QueryRowContext(ctx, query, args...), &latest.State,
		&d.DeviceID, &d.UserID, &d.DeviceType, &d.Priority, &d.DeviceName, &d.OSType,
		&d.OSVersion, &d.AppVersion, &d.PushToken, &d.LastSeen, &d.IsActive, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LatestSyncState{}, ErrNoPriorState
		}
		log.Err(err).
			Str("func", "syncStateRepository.GetLatest").
			Str("domain", domain).
			Stringer("entity_id", entityID).
			Msg("failed to get latest sync state")
		return models.LatestSyncState{}, r.wrap(ErrExecutingQuery, err)
	}
	d.LastSeen = d.LastSeen.UTC()
	d.CreatedAt = d.CreatedAt.UTC()

	return latest, nil
}

// Commit writes state for its device in one transaction:
//  1. on Postgres, an advisory lock on (user, domain, entity) serialises
//     concurrent commits of the same entity;
//  2. the highest committed version of the entity across the user's devices
//     is re-read, and a higher one than state's fails with
//     [ErrStaleSyncVersion];
//  3. the device's row is updated, or inserted when missing. A unique
//     violation on insert means a concurrent commit won and is reported as
//     [ErrStaleSyncVersion] too.
func (r *syncStateRepository) Commit(ctx context.Context, userID string, state models.SyncState) error {
	log := logger.FromContext(ctx).With().
		Str("func", "syncStateRepository.Commit").
		Str("device_id", state.DeviceID).
		Str("domain", state.Domain).
		Stringer("entity_id", state.EntityID).
		Int64("version", state.LastSyncVersion).
		Logger()

	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Msg("failed to begin transaction")
		return r.wrap(ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if r.isPostgres() {
		query, args, err := buildEntityLockQuery(r.builder, userID, state.Domain, state.EntityID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).Msg("failed to take entity lock")
			return r.wrap(ErrExecutingStatement, err)
		}
	}

	query, args, err := buildMaxVersionQuery(r.builder, userID, state.Domain, state.EntityID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	var current int64
	if err = tx.QueryRowContext(ctx, query, args...).Scan(&current); err != nil {
		log.Err(err).Msg("failed to read current version")
		return r.wrap(ErrExecutingQuery, err)
	}
	if current > state.LastSyncVersion {
		log.Debug().Int64("current_version", current).Msg("commit lost the race to a higher version")
		return ErrStaleSyncVersion
	}

	query, args, err = buildUpdateStateQuery(r.builder, state)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Msg("failed to update sync state")
		return r.wrap(ErrExecutingStatement, err)
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return r.wrap(ErrExecutingStatement, err)
	}

	if updated == 0 {
		query, args, err = buildInsertStateQuery(r.builder, state)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			if r.errorClassificator.IsUniqueViolation(err) {
				log.Debug().Msg("concurrent insert of the same sync state")
				return ErrStaleSyncVersion
			}
			log.Err(err).Msg("failed to insert sync state")
			return r.wrap(ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Msg("failed to commit transaction")
		return r.wrap(ErrCommitingTransaction, err)
	}

	return nil
}

func (r *syncStateRepository) ListForEntity(ctx context.Context, userID, domain string, entityID uuid.UUID) ([]models.SyncState, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListStatesQuery(r.builder, userID, domain, entityID)
	if err != nil {
		log.Err(err).Str("func", "syncStateRepository.ListForEntity").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "syncStateRepository.ListForEntity").Msg("failed to query sync states")
		return nil, r.wrap(ErrExecutingQuery, err)
	}
	defer rows.Close()

	states := make([]models.SyncState, 0, 4)
	for rows.Next() {
		var st models.SyncState
		if err = scanSyncState(rows, &st); err != nil {
			log.Err(err).Str("func", "syncStateRepository.ListForEntity").Msg("failed to scan sync state row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		states = append(states, st)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "syncStateRepository.ListForEntity").Msg("error during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return states, nil
}
