package telemetry

import "errors"

var (
	ErrResourceSetup = errors.New("failed to build telemetry resource")
	ErrExporterSetup = errors.New("failed to create otlp exporter")
	ErrInstrument    = errors.New("failed to create metric instrument")
)
