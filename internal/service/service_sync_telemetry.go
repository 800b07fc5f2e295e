package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/MKhiriev/device-sync/internal/telemetry"
	"github.com/MKhiriev/device-sync/models"
)

// SyncTelemetryService records a span and outcome metrics around every call
// of the wrapped SyncService.
type SyncTelemetryService struct {
	inner   SyncService
	metrics *telemetry.SyncMetrics
}

func NewSyncTelemetryService(metrics *telemetry.SyncMetrics) SyncServiceWrapper {
	if metrics == nil {
		metrics = telemetry.NopSyncMetrics()
	}
	return &SyncTelemetryService{metrics: metrics}
}

func (t *SyncTelemetryService) Wrap(inner SyncService) SyncService {
	t.inner = inner
	return t
}

func (t *SyncTelemetryService) SyncAcrossDevices(ctx context.Context, userID, deviceID string, write models.SyncWrite) models.SyncOutcome {
	ctx, span := telemetry.StartSpan(ctx, "SyncService", "SyncAcrossDevices", writeAttributes(deviceID, write.Domain, write.EntityID, write.Version)...)
	defer span.End()

	start := time.Now()
	outcome := t.inner.SyncAcrossDevices(ctx, userID, deviceID, write)
	t.finish(ctx, span, write.Domain, outcome, time.Since(start))

	return outcome
}

func (t *SyncTelemetryService) Sync(ctx context.Context, userID string, req models.SyncRequest) models.SyncOutcome {
	ctx, span := telemetry.StartSpan(ctx, "SyncService", "Sync", writeAttributes(req.DeviceID, req.Domain, req.EntityID, req.Version)...)
	defer span.End()

	start := time.Now()
	outcome := t.inner.Sync(ctx, userID, req)
	t.finish(ctx, span, req.Domain, outcome, time.Since(start))

	return outcome
}

func (t *SyncTelemetryService) SyncBatch(ctx context.Context, userID string, req models.BatchSyncRequest) (models.BatchSyncResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "SyncService", "SyncBatch",
		attribute.String("sync.device_id", req.DeviceID),
		attribute.Int("sync.batch_size", len(req.Items)),
	)
	defer span.End()

	start := time.Now()
	resp, err := t.inner.SyncBatch(ctx, userID, req)
	t.metrics.RecordDuration(ctx, "batch", time.Since(start))
	if err != nil {
		telemetry.RecordError(span, err)
		return resp, err
	}

	for _, r := range resp.Results {
		t.metrics.RecordOutcome(ctx, r.Domain, r.Result)
	}
	span.SetAttributes(
		attribute.Int("sync.synced", resp.Synced),
		attribute.Int("sync.conflicts", resp.Conflicts),
		attribute.Int("sync.errors", resp.Errors),
	)

	return resp, nil
}

func (t *SyncTelemetryService) GetEntityStates(ctx context.Context, userID, domain string, entityID uuid.UUID) ([]models.SyncState, error) {
	ctx, span := telemetry.StartSpan(ctx, "SyncService", "GetEntityStates",
		attribute.String("sync.domain", domain),
		attribute.String("sync.entity_id", entityID.String()),
	)
	defer span.End()

	states, err := t.inner.GetEntityStates(ctx, userID, domain, entityID)
	telemetry.RecordError(span, err)

	return states, err
}

func (t *SyncTelemetryService) finish(ctx context.Context, span trace.Span, domain string, outcome models.SyncOutcome, elapsed time.Duration) {
	span.SetAttributes(
		attribute.String("sync.status", string(outcome.Status)),
		attribute.Int("sync.notified", outcome.NotifiedDevices),
	)
	if outcome.Status == models.SyncStatusError && outcome.ErrorKind == models.SyncErrorStorage {
		telemetry.RecordError(span, outcome.Err)
	}
	t.metrics.RecordOutcome(ctx, domain, outcome.Response())
	t.metrics.RecordDuration(ctx, "sync", elapsed)
}

func writeAttributes(deviceID, domain string, entityID uuid.UUID, version int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("sync.device_id", deviceID),
		attribute.String("sync.domain", domain),
		attribute.String("sync.entity_id", entityID.String()),
		attribute.Int64("sync.version", version),
	}
}
