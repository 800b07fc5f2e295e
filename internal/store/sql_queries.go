package store

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/MKhiriev/device-sync/models"
)

const (
	devicesTable    = "devices"
	syncStatesTable = "sync_states"
)

var deviceColumns = []string{
	"device_id",
	"user_id",
	"device_type",
	"priority",
	"device_name",
	"os_type",
	"os_version",
	"app_version",
	"push_token",
	"last_seen",
	"is_active",
	"created_at",
}

var syncStateColumns = []string{
	"device_id",
	"domain",
	"entity_id",
	"last_sync_version",
	"last_modified_at",
	"is_dirty",
	"checksum",
	"payload",
}

// upsertDeviceSuffix keeps priority, device_type, is_active and created_at
// of an existing row. The WHERE clause turns a registration of a device id
// owned by another user into a no-op that affects no row.
const upsertDeviceSuffix = `ON CONFLICT (device_id) DO UPDATE SET
		device_name = excluded.device_name,
		os_type = excluded.os_type,
		os_version = excluded.os_version,
		app_version = excluded.app_version,
		push_token = excluded.push_token,
		last_seen = excluded.last_seen
	WHERE devices.user_id = excluded.user_id`

func qualified(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}

func buildUpsertDeviceQuery(b sq.StatementBuilderType, d models.Device) (string, []any, error) {
	return b.Insert(devicesTable).
		Columns(deviceColumns...).
		Values(
			d.DeviceID,
			d.UserID,
			string(d.DeviceType),
			d.Priority,
			d.DeviceName,
			d.OSType,
			d.OSVersion,
			d.AppVersion,
			d.PushToken,
			d.LastSeen.UTC(),
			true,
			d.CreatedAt.UTC(),
		).
		Suffix(upsertDeviceSuffix).
		ToSql()
}

func buildGetDeviceQuery(b sq.StatementBuilderType, userID, deviceID string) (string, []any, error) {
	return b.Select(deviceColumns...).
		From(devicesTable).
		Where(sq.Eq{"device_id": deviceID, "user_id": userID}).
		ToSql()
}

func buildActiveDevicesQuery(b sq.StatementBuilderType, userID string) (string, []any, error) {
	return b.Select(deviceColumns...).
		From(devicesTable).
		Where(sq.Eq{"user_id": userID, "is_active": true}).
		OrderBy("last_seen DESC", "device_id").
		ToSql()
}

func buildDeactivateDeviceQuery(b sq.StatementBuilderType, userID, deviceID string) (string, []any, error) {
	return b.Update(devicesTable).
		Set("is_active", false).
		Where(sq.Eq{"device_id": deviceID, "user_id": userID}).
		ToSql()
}

// entityOfUser filters joined sync_states s / devices d rows down to one
// entity of one user.
func entityOfUser(userID, domain string, entityID uuid.UUID) sq.Eq {
	return sq.Eq{
		"d.user_id":   userID,
		"s.domain":    domain,
		"s.entity_id": entityID.String(),
	}
}

func buildLatestStateQuery(b sq.StatementBuilderType, userID, domain string, entityID uuid.UUID) (string, []any, error) {
	columns := append(qualified("s", syncStateColumns), qualified("d", deviceColumns)...)
	return b.Select(columns...).
		From(syncStatesTable + " s").
		Join(devicesTable + " d ON d.device_id = s.device_id").
		Where(entityOfUser(userID, domain, entityID)).
		OrderBy("s.last_sync_version DESC", "s.last_modified_at DESC").
		Limit(1).
		ToSql()
}

func buildListStatesQuery(b sq.StatementBuilderType, userID, domain string, entityID uuid.UUID) (string, []any, error) {
	return b.Select(qualified("s", syncStateColumns)...).
		From(syncStatesTable + " s").
		Join(devicesTable + " d ON d.device_id = s.device_id").
		Where(entityOfUser(userID, domain, entityID)).
		OrderBy("s.last_sync_version DESC", "s.device_id").
		ToSql()
}

// buildMaxVersionQuery yields -1 when the entity has no state yet.
func buildMaxVersionQuery(b sq.StatementBuilderType, userID, domain string, entityID uuid.UUID) (string, []any, error) {
	return b.Select("COALESCE(MAX(s.last_sync_version), -1)").
		From(syncStatesTable + " s").
		Join(devicesTable + " d ON d.device_id = s.device_id").
		Where(entityOfUser(userID, domain, entityID)).
		ToSql()
}

// buildEntityLockQuery serialises commits of one entity of one user for the
// lifetime of the surrounding Postgres transaction.
func buildEntityLockQuery(b sq.StatementBuilderType, userID, domain string, entityID uuid.UUID) (string, []any, error) {
	return b.Select().
		Column(sq.Expr("pg_advisory_xact_lock(hashtext(?))", entityLockKey(userID, domain, entityID))).
		ToSql()
}

func entityLockKey(userID, domain string, entityID uuid.UUID) string {
	return userID + "|" + domain + "|" + entityID.String()
}

func buildUpdateStateQuery(b sq.StatementBuilderType, st models.SyncState) (string, []any, error) {
	return b.Update(syncStatesTable).
		SetMap(map[string]any{
			"last_sync_version": st.LastSyncVersion,
			"last_modified_at":  st.LastModifiedAt.UTC(),
			"is_dirty":          st.IsDirty,
			"checksum":          st.Checksum,
			"payload":           string(st.Payload),
		}).
		Where(sq.Eq{
			"device_id": st.DeviceID,
			"domain":    st.Domain,
			"entity_id": st.EntityID.String(),
		}).
		ToSql()
}

func buildInsertStateQuery(b sq.StatementBuilderType, st models.SyncState) (string, []any, error) {
	return b.Insert(syncStatesTable).
		Columns(syncStateColumns...).
		Values(
			st.DeviceID,
			st.Domain,
			st.EntityID.String(),
			st.LastSyncVersion,
			st.LastModifiedAt.UTC(),
			st.IsDirty,
			st.Checksum,
			string(st.Payload),
		).
		ToSql()
}
