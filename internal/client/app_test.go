package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/device-sync/internal/adapter"
	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/internal/mock"
	"github.com/MKhiriev/device-sync/models"
)

func newTestApp(t *testing.T, stdin string) (*App, *mock.MockSyncClient, *bytes.Buffer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	api := mock.NewMockSyncClient(ctrl)
	out := new(bytes.Buffer)
	return NewApp(api, strings.NewReader(stdin), out, logger.Nop()), api, out
}

func decodeOutput[T any](t *testing.T, out *bytes.Buffer) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(out.Bytes(), &v))
	return v
}

func TestRun_Dispatch(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "no command", args: nil, wantErr: ErrNoCommand},
		{name: "unknown command", args: []string{"pull"}, wantErr: ErrUnknownCommand},
		{name: "missing argument", args: []string{"register", "desk"}, wantErr: ErrUsage},
		{name: "extra argument", args: []string{"devices", "all"}, wantErr: ErrUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _, out := newTestApp(t, "")

			err := app.Run(context.Background(), tt.args)

			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, out.String())
		})
	}
}

func TestRun_Register(t *testing.T) {
	app, api, out := newTestApp(t, "")
	api.EXPECT().
		RegisterDevice(gomock.Any(), models.RegisterDeviceRequest{DeviceID: "desk", DeviceType: models.DeviceTypeDesktop}).
		Return(models.RegisterDeviceResponse{DeviceID: "desk", Priority: 100, Status: models.DeviceStatusRegistered}, nil)

	require.NoError(t, app.Run(context.Background(), []string{"REGISTER", "desk", "Desktop"}))

	got := decodeOutput[models.RegisterDeviceResponse](t, out)
	assert.Equal(t, 100, got.Priority)
}

func TestRun_DevicesAndDeactivate(t *testing.T) {
	app, api, out := newTestApp(t, "")
	api.EXPECT().ListDevices(gomock.Any()).Return([]models.DeviceListItem{{DeviceID: "desk", Priority: 100, IsActive: true}}, nil)
	api.EXPECT().DeactivateDevice(gomock.Any(), "ghost").Return(false, nil)

	require.NoError(t, app.Run(context.Background(), []string{"devices"}))
	devices := decodeOutput[[]models.DeviceListItem](t, out)
	require.Len(t, devices, 1)
	assert.Equal(t, "desk", devices[0].DeviceID)

	out.Reset()
	require.NoError(t, app.Run(context.Background(), []string{"deactivate", "ghost"}))
	assert.False(t, decodeOutput[models.DeactivateDeviceResponse](t, out).Deactivated)
}

func TestRun_SyncFromStdin(t *testing.T) {
	id := uuid.New()
	body := fmt.Sprintf(`{"device_id":"phone","domain":"notes","entity_id":%q,"version":2,"payload":{"kind":"generic","generic":{"title":"x"}}}`, id)

	app, api, out := newTestApp(t, body)
	notified := 1
	api.EXPECT().
		Sync(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.SyncRequest) (models.SyncResponse, error) {
			assert.Equal(t, "phone", req.DeviceID)
			assert.Equal(t, id, req.EntityID)
			assert.Equal(t, int64(2), req.Version)
			return models.SyncResponse{Status: models.SyncStatusSynced, NotifiedDevices: &notified}, nil
		})

	require.NoError(t, app.Run(context.Background(), []string{"sync"}))

	got := decodeOutput[models.SyncResponse](t, out)
	assert.Equal(t, models.SyncStatusSynced, got.Status)
	require.NotNil(t, got.NotifiedDevices)
	assert.Equal(t, 1, *got.NotifiedDevices)
}

func TestRun_SyncRejectedPrintsOutcome(t *testing.T) {
	app, api, out := newTestApp(t, `{"device_id":"ghost","domain":"notes","version":1}`)
	outcome := models.SyncResponse{Status: models.SyncStatusError, ErrorKind: models.SyncErrorUnknownDevice, Message: "device not registered"}
	api.EXPECT().Sync(gomock.Any(), gomock.Any()).Return(outcome, fmt.Errorf("%w: device not registered", adapter.ErrNotFound))

	err := app.Run(context.Background(), []string{"sync"})

	require.ErrorIs(t, err, adapter.ErrNotFound)
	assert.Equal(t, outcome, decodeOutput[models.SyncResponse](t, out))
}

func TestRun_InvalidStdin(t *testing.T) {
	tests := []struct {
		name  string
		cmd   string
		stdin string
	}{
		{name: "sync malformed", cmd: "sync", stdin: "{"},
		{name: "voice unknown field", cmd: "voice", stdin: `{"device":"phone"}`},
		{name: "batch empty", cmd: "batch", stdin: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _, _ := newTestApp(t, tt.stdin)
			require.ErrorIs(t, app.Run(context.Background(), []string{tt.cmd}), ErrInvalidInput)
		})
	}
}

func TestRun_VoiceAndBatch(t *testing.T) {
	id := uuid.New()

	app, api, out := newTestApp(t, fmt.Sprintf(`{"device_id":"phone","entity_id":%q,"version":1,"voice":{"enrollment_id":"e1"}}`, id))
	api.EXPECT().SyncVoice(gomock.Any(), gomock.Any()).
		Return(models.SyncResponse{Status: models.SyncStatusConflictResolved, Resolution: models.ResolutionCurrentWins}, nil)

	require.NoError(t, app.Run(context.Background(), []string{"voice"}))
	assert.Equal(t, models.ResolutionCurrentWins, decodeOutput[models.SyncResponse](t, out).Resolution)

	app, api, out = newTestApp(t, fmt.Sprintf(`{"device_id":"phone","items":[{"domain":"notes","entity_id":%q,"version":1}]}`, id))
	api.EXPECT().SyncBatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.BatchSyncRequest) (models.BatchSyncResponse, error) {
			require.Len(t, req.Items, 1)
			return models.BatchSyncResponse{Synced: 1}, nil
		})

	require.NoError(t, app.Run(context.Background(), []string{"batch"}))
	assert.Equal(t, 1, decodeOutput[models.BatchSyncResponse](t, out).Synced)
}

func TestRun_States(t *testing.T) {
	id := uuid.New()
	app, api, out := newTestApp(t, "")
	api.EXPECT().GetEntityStates(gomock.Any(), "notes", id).
		Return(models.EntityStateResponse{Domain: "notes", EntityID: id}, nil)

	require.NoError(t, app.Run(context.Background(), []string{"states", "notes", id.String()}))
	assert.Equal(t, id, decodeOutput[models.EntityStateResponse](t, out).EntityID)

	require.ErrorIs(t, app.Run(context.Background(), []string{"states", "notes", "not-a-uuid"}), ErrInvalidInput)
}

func TestRun_Version(t *testing.T) {
	app, api, out := newTestApp(t, "")
	api.EXPECT().GetVersion(gomock.Any()).Return(models.BuildInfoResponse{Version: "1.2.3"}, nil)

	require.NoError(t, app.Run(context.Background(), []string{"version"}))
	assert.Equal(t, "1.2.3", decodeOutput[models.BuildInfoResponse](t, out).Version)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: fmt.Errorf("%w: x", adapter.ErrUnauthorized), want: MsgTokenInvalid},
		{err: fmt.Errorf("%w: x", adapter.ErrForbidden), want: MsgAccessDenied},
		{err: fmt.Errorf("%w: x", adapter.ErrNotFound), want: MsgDeviceNotFound},
		{err: ErrNoCommand, want: ErrNoCommand.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.True(t, strings.HasPrefix(UserMessage(tt.err), tt.want))
		})
	}
}
