package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/MKhiriev/device-sync/internal/config"
	"github.com/MKhiriev/device-sync/internal/logger"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func TestStartSpan_RecordError(t *testing.T) {
	rec := installRecorder(t)

	ctx, span := StartSpan(context.Background(), "SyncCoordinator", "SyncAcrossDevices", attribute.String("sync.domain", "notes"))
	assert.NotEmpty(t, TraceID(ctx))
	RecordError(span, nil)
	RecordError(span, errors.New("boom"))
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "SyncCoordinator.SyncAcrossDevices", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "boom", ended[0].Status().Description)
	assert.Len(t, ended[0].Events(), 1)
}

func TestTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantError bool
	}{
		{name: "ok", status: http.StatusOK},
		{name: "conflict is not an error", status: http.StatusConflict},
		{name: "server error", status: http.StatusInternalServerError, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := installRecorder(t)

			var sawTrace string
			h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				sawTrace = TraceID(r.Context())
				w.WriteHeader(tt.status)
			}))

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/sync", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, sawTrace)

			ended := rec.Ended()
			require.Len(t, ended, 1)
			assert.Equal(t, "POST /api/sync", ended[0].Name())
			if tt.wantError {
				assert.Equal(t, codes.Error, ended[0].Status().Code)
			} else {
				assert.NotEqual(t, codes.Error, ended[0].Status().Code)
			}
		})
	}
}

func TestSetup_Disabled(t *testing.T) {
	tel, err := Setup(context.Background(), config.Telemetry{}, "1.0.0", logger.Nop())
	require.NoError(t, err)
	assert.Nil(t, tel.TracerProvider)
	assert.Nil(t, tel.MeterProvider)
	assert.NoError(t, tel.Shutdown(context.Background()))
}
