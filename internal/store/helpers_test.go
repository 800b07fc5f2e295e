package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/device-sync/internal/config"
	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/models"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// newDBFromSQL wraps a sqlmock connection as a Postgres-flavoured DB.
func newDBFromSQL(db *sql.DB) *DB {
	return NewDB(db, config.DriverPostgres, logger.Nop())
}

// newSQLiteDB opens a private in-memory SQLite database with the schema
// applied.
func newSQLiteDB(t *testing.T) *DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := config.DB{
		DSN:    "file:" + name + "?mode=memory&cache=shared&_txlock=immediate",
		Driver: config.DriverSQLite,
	}

	db, err := NewConnect(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())
	return db
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testDevice(id, userID string, dt models.DeviceType, priority int) models.Device {
	return models.Device{
		DeviceID:   id,
		UserID:     userID,
		DeviceType: dt,
		Priority:   priority,
		DeviceName: id + "-name",
		OSType:     "linux",
		OSVersion:  "6.1",
		AppVersion: "1.0.0",
		LastSeen:   testNow,
		IsActive:   true,
		CreatedAt:  testNow,
	}
}

func deviceRow(rows *sqlmock.Rows, d models.Device) *sqlmock.Rows {
	return rows.AddRow(
		d.DeviceID, d.UserID, string(d.DeviceType), d.Priority, d.DeviceName, d.OSType,
		d.OSVersion, d.AppVersion, d.PushToken, d.LastSeen, d.IsActive, d.CreatedAt,
	)
}
