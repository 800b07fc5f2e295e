package store

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/models"
)

func newTestDeviceRepo(t *testing.T) (DeviceRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTestDB(t)
	return NewDeviceRepository(newDBFromSQL(db), logger.Nop()), mock
}

func TestDeviceRepository_Upsert_Success(t *testing.T) {
	repo, mock := newTestDeviceRepo(t)
	d := testDevice("dev-1", "user-1", models.DeviceTypePhone, 40)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO devices").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM devices").
		WithArgs("dev-1", "user-1").
		WillReturnRows(deviceRow(sqlmock.NewRows(deviceColumns), d))
	mock.ExpectCommit()

	got, err := repo.Upsert(testContext(), d)
	require.NoError(t, err)
	assert.Equal(t, d, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceRepository_Upsert_OwnedByAnotherUser(t *testing.T) {
	repo, mock := newTestDeviceRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO devices").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Upsert(testContext(), testDevice("dev-1", "user-2", models.DeviceTypePhone, 40))
	require.ErrorIs(t, err, ErrDeviceOwnedByAnotherUser)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceRepository_Upsert_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr []error
	}{
		{
			name: "begin fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("conn refused"))
			},
			wantErr: []error{ErrBeginningTransaction},
		},
		{
			name: "insert fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO devices").WillReturnError(errors.New("boom"))
				mock.ExpectRollback()
			},
			wantErr: []error{ErrExecutingStatement},
		},
		{
			name: "serialization failure is transient",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO devices").
					WillReturnError(&pgconn.PgError{Code: pgerrcode.SerializationFailure})
				mock.ExpectRollback()
			},
			wantErr: []error{ErrExecutingStatement, ErrTransient},
		},
		{
			name: "commit fails",
			setup: func(mock sqlmock.Sqlmock) {
				d := testDevice("dev-1", "user-1", models.DeviceTypePhone, 40)
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO devices").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery("SELECT (.+) FROM devices").
					WillReturnRows(deviceRow(sqlmock.NewRows(deviceColumns), d))
				mock.ExpectCommit().WillReturnError(errors.New("disk full"))
			},
			wantErr: []error{ErrCommitingTransaction},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestDeviceRepo(t)
			tt.setup(mock)

			_, err := repo.Upsert(testContext(), testDevice("dev-1", "user-1", models.DeviceTypePhone, 40))
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestDeviceRepository_GetByIDForUser(t *testing.T) {
	d := testDevice("dev-1", "user-1", models.DeviceTypeDesktop, 100)

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		want    models.Device
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM devices WHERE device_id = \\$1 AND user_id = \\$2").
					WithArgs("dev-1", "user-1").
					WillReturnRows(deviceRow(sqlmock.NewRows(deviceColumns), d))
			},
			want: d,
		},
		{
			name: "not found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM devices").
					WillReturnRows(sqlmock.NewRows(deviceColumns))
			},
			wantErr: ErrDeviceNotFound,
		},
		{
			name: "query fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM devices").WillReturnError(errors.New("boom"))
			},
			wantErr: ErrExecutingQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestDeviceRepo(t)
			tt.setup(mock)

			got, err := repo.GetByIDForUser(testContext(), "user-1", "dev-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeviceRepository_GetActiveForUser(t *testing.T) {
	repo, mock := newTestDeviceRepo(t)

	desktop := testDevice("desk", "user-1", models.DeviceTypeDesktop, 100)
	phone := testDevice("phone", "user-1", models.DeviceTypePhone, 40)
	phone.LastSeen = testNow.Add(-time.Hour)

	rows := sqlmock.NewRows(deviceColumns)
	deviceRow(rows, desktop)
	deviceRow(rows, phone)

	mock.ExpectQuery("SELECT (.+) FROM devices WHERE is_active = \\$1 AND user_id = \\$2 ORDER BY last_seen DESC").
		WithArgs(true, "user-1").
		WillReturnRows(rows)

	got, err := repo.GetActiveForUser(testContext(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, []models.Device{desktop, phone}, got)
}

func TestDeviceRepository_GetActiveForUser_Empty(t *testing.T) {
	repo, mock := newTestDeviceRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM devices").WillReturnRows(sqlmock.NewRows(deviceColumns))

	got, err := repo.GetActiveForUser(testContext(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDeviceRepository_GetActiveForUser_RowError(t *testing.T) {
	repo, mock := newTestDeviceRepo(t)

	rows := deviceRow(sqlmock.NewRows(deviceColumns), testDevice("a", "user-1", models.DeviceTypePhone, 40)).
		RowError(0, errors.New("network reset"))
	mock.ExpectQuery("SELECT (.+) FROM devices").WillReturnRows(rows)

	_, err := repo.GetActiveForUser(testContext(), "user-1")
	require.ErrorIs(t, err, ErrScanningRows)
}

func TestDeviceRepository_Deactivate(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "existing device", affected: 1, want: true},
		{name: "unknown device", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestDeviceRepo(t)
			mock.ExpectExec("UPDATE devices SET is_active = \\$1").
				WithArgs(false, "dev-1", "user-1").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			got, err := repo.Deactivate(testContext(), "user-1", "dev-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeviceRepository_Deactivate_Error(t *testing.T) {
	repo, mock := newTestDeviceRepo(t)
	mock.ExpectExec("UPDATE devices").WillReturnError(errors.New("boom"))

	ok, err := repo.Deactivate(testContext(), "user-1", "dev-1")
	require.ErrorIs(t, err, ErrExecutingStatement)
	assert.False(t, ok)
}
