package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/MKhiriev/device-sync/models"
)

// Delivery channels reported by RecordDelivery.
const (
	ChannelWebsocket = "websocket"
	ChannelPush      = "push"
)

// SyncMetrics holds the instruments of the sync core.
type SyncMetrics struct {
	outcomes      metric.Int64Counter
	duration      metric.Float64Histogram
	commitRetries metric.Int64Counter
	deliveries    metric.Int64Counter
}

// Meter returns the meter of the globally installed provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// NewSyncMetrics creates the sync instruments on meter.
func NewSyncMetrics(meter metric.Meter) (*SyncMetrics, error) {
	outcomes, err := meter.Int64Counter(
		"devsync.sync.outcomes",
		metric.WithDescription("Sync calls by outcome status"),
		metric.WithUnit("{calls}"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInstrument, err)
	}

	duration, err := meter.Float64Histogram(
		"devsync.sync.duration",
		metric.WithDescription("Sync call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInstrument, err)
	}

	commitRetries, err := meter.Int64Counter(
		"devsync.sync.commit_retries",
		metric.WithDescription("Commits that lost a race and repeated the conflict check"),
		metric.WithUnit("{retries}"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInstrument, err)
	}

	deliveries, err := meter.Int64Counter(
		"devsync.notify.deliveries",
		metric.WithDescription("Notification deliveries by channel and result"),
		metric.WithUnit("{notifications}"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInstrument, err)
	}

	return &SyncMetrics{
		outcomes:      outcomes,
		duration:      duration,
		commitRetries: commitRetries,
		deliveries:    deliveries,
	}, nil
}

// NopSyncMetrics returns instruments that record nothing.
func NopSyncMetrics() *SyncMetrics {
	m, _ := NewSyncMetrics(noop.NewMeterProvider().Meter(instrumentationName))
	return m
}

// RecordOutcome counts one finished sync write.
func (m *SyncMetrics) RecordOutcome(ctx context.Context, domain string, result models.SyncResponse) {
	attrs := []attribute.KeyValue{
		attribute.String("sync.domain", domain),
		attribute.String("sync.status", string(result.Status)),
	}
	switch result.Status {
	case models.SyncStatusError:
		attrs = append(attrs, attribute.String("sync.error_kind", string(result.ErrorKind)))
	case models.SyncStatusConflictResolved:
		attrs = append(attrs, attribute.String("sync.resolution", string(result.Resolution)))
	}

	m.outcomes.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordDuration records the latency of one sync operation ("sync", "batch").
func (m *SyncMetrics) RecordDuration(ctx context.Context, operation string, elapsed time.Duration) {
	m.duration.Record(ctx, float64(elapsed.Microseconds())/1000,
		metric.WithAttributes(attribute.String("sync.operation", operation)))
}

// RecordCommitRetry counts a commit that has to be retried.
func (m *SyncMetrics) RecordCommitRetry(ctx context.Context, domain string) {
	m.commitRetries.Add(ctx, 1, metric.WithAttributes(attribute.String("sync.domain", domain)))
}

// RecordDelivery counts one notification handed to channel.
func (m *SyncMetrics) RecordDelivery(ctx context.Context, channel string, delivered bool) {
	m.deliveries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("notify.channel", channel),
		attribute.Bool("notify.delivered", delivered),
	))
}
