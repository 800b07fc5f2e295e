package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/models"
)

func TestDispatcher_FanOut(t *testing.T) {
	notification := models.SyncNotification{
		SourceDeviceID: "desktop-1",
		Domain:         "notes",
		EntityID:       uuid.New(),
		Action:         models.ActionRefresh,
		Version:        3,
	}

	online := models.Device{DeviceID: "phone-1"}
	pushOnly := models.Device{DeviceID: "tablet-1", PushToken: "tablet-token"}
	unreachable := models.Device{DeviceID: "laptop-1"}

	tests := []struct {
		name         string
		withPusher   bool
		devices      []models.Device
		wantNotified int
		wantFailed   []string
	}{
		{
			name:         "websocket and push",
			withPusher:   true,
			devices:      []models.Device{online, pushOnly, unreachable},
			wantNotified: 2,
			wantFailed:   []string{"laptop-1"},
		},
		{
			name:         "push disabled",
			devices:      []models.Device{online, pushOnly},
			wantNotified: 1,
			wantFailed:   []string{"tablet-1"},
		},
		{
			name:       "no devices",
			withPusher: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := NewHub(4, logger.Nop())
			client := hub.Register("user-1", online.DeviceID, nil)

			var pusher *FCMPusher
			if tt.withPusher {
				pusher = newTestPusher("http://127.0.0.1:0", 4, staticTokens())
			}
			d := NewDispatcher(hub, pusher, nil, logger.Nop())

			report := d.FanOut(context.Background(), "user-1", tt.devices, notification)

			assert.Equal(t, tt.wantNotified, report.Notified)
			var failed []string
			for _, f := range report.Failures {
				failed = append(failed, f.DeviceID)
				assert.NotEmpty(t, f.Reason)
			}
			assert.Equal(t, tt.wantFailed, failed)

			if len(tt.devices) == 0 {
				return
			}

			var msg struct {
				Payload models.SyncNotification `json:"payload"`
			}
			require.NoError(t, json.Unmarshal(<-client.send, &msg))
			assert.Equal(t, online.DeviceID, msg.Payload.DeviceID)
			assert.Equal(t, notification.SourceDeviceID, msg.Payload.SourceDeviceID)

			if tt.withPusher {
				job := <-pusher.queue
				assert.Equal(t, "tablet-token", job.token)
				assert.Equal(t, pushOnly.DeviceID, job.notification.DeviceID)
			}
		})
	}
}

func TestDispatcher_FanOut_FullBufferFallsBackToPush(t *testing.T) {
	hub := NewHub(1, logger.Nop())
	hub.Register("user-1", "phone-1", nil)
	pusher := newTestPusher("http://127.0.0.1:0", 4, staticTokens())
	d := NewDispatcher(hub, pusher, nil, logger.Nop())

	device := models.Device{DeviceID: "phone-1", PushToken: "phone-token"}
	n := models.SyncNotification{Domain: "notes"}

	first := d.FanOut(context.Background(), "user-1", []models.Device{device}, n)
	second := d.FanOut(context.Background(), "user-1", []models.Device{device}, n)

	assert.Equal(t, 1, first.Notified)
	assert.Equal(t, 1, second.Notified)
	assert.Empty(t, second.Failures)
	assert.Len(t, pusher.queue, 1)
}

func TestDispatcher_FanOut_ReportsBothChannelErrors(t *testing.T) {
	hub := NewHub(1, logger.Nop())
	pusher := newTestPusher("http://127.0.0.1:0", 1, staticTokens())
	require.NoError(t, pusher.Enqueue(models.Device{PushToken: "filler"}, models.SyncNotification{}))
	d := NewDispatcher(hub, pusher, nil, logger.Nop())

	report := d.FanOut(context.Background(), "user-1",
		[]models.Device{{DeviceID: "phone-1", PushToken: "phone-token"}},
		models.SyncNotification{})

	assert.Zero(t, report.Notified)
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0].Reason, ErrNoLiveConnection.Error())
	assert.Contains(t, report.Failures[0].Reason, ErrPushQueueFull.Error())
}
