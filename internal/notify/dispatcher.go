package notify

import (
	"context"
	"errors"

	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/internal/telemetry"
	"github.com/MKhiriev/device-sync/models"
)

// Dispatcher fans a notification out to a set of devices.
type Dispatcher struct {
	hub     *Hub
	pusher  *FCMPusher
	metrics *telemetry.SyncMetrics
	logger  *logger.Logger
}

// NewDispatcher returns a dispatcher over hub. pusher may be nil when push
// delivery is not configured.
func NewDispatcher(hub *Hub, pusher *FCMPusher, metrics *telemetry.SyncMetrics, log *logger.Logger) *Dispatcher {
	if metrics == nil {
		metrics = telemetry.NopSyncMetrics()
	}
	return &Dispatcher{
		hub:     hub,
		pusher:  pusher,
		metrics: metrics,
		logger:  log,
	}
}

// FanOut hands notification to every device in devices, addressing each copy
// to its recipient. A device counts as notified once its copy is queued on a
// websocket or on the push queue. Failures are reported, never returned.
func (d *Dispatcher) FanOut(ctx context.Context, userID string, devices []models.Device, notification models.SyncNotification) models.FanOutReport {
	var report models.FanOutReport

	for _, device := range devices {
		msg := notification
		msg.DeviceID = device.DeviceID

		err := d.hub.PushToUserSync(ctx, userID, msg)
		if err == nil {
			d.metrics.RecordDelivery(ctx, telemetry.ChannelWebsocket, true)
			report.Notified++
			continue
		}
		if !errors.Is(err, ErrNoLiveConnection) {
			d.metrics.RecordDelivery(ctx, telemetry.ChannelWebsocket, false)
		}

		if d.pusher != nil && device.PushToken != "" {
			pushErr := d.pusher.Enqueue(device, msg)
			if pushErr == nil {
				report.Notified++
				continue
			}
			d.metrics.RecordDelivery(ctx, telemetry.ChannelPush, false)
			err = errors.Join(err, pushErr)
		}

		d.logger.Debug().Err(err).
			Str("func", "Dispatcher.FanOut").
			Str("device_id", device.DeviceID).
			Msg("notification not delivered")
		report.Failures = append(report.Failures, models.DeliveryFailure{
			DeviceID: device.DeviceID,
			Reason:   err.Error(),
		})
	}

	return report
}
