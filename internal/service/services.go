package service

import (
	"github.com/MKhiriev/device-sync/internal/config"
	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/internal/store"
	"github.com/MKhiriev/device-sync/internal/telemetry"
	"github.com/MKhiriev/device-sync/models"
)

type Services struct {
	AuthService    AuthService
	DeviceRegistry DeviceRegistry
	SyncService    SyncService
	AppInfoService AppInfoService
}

func NewServices(
	storages *store.Storages,
	notifier Notifier,
	metrics *telemetry.SyncMetrics,
	cfg config.StructuredConfig,
	buildInfo models.AppBuildInfo,
	logger *logger.Logger,
) (*Services, error) {
	appInfo, err := NewAppInfoService(buildInfo, cfg.App, logger)
	if err != nil {
		return nil, err
	}

	coordinator := NewSyncCoordinator(storages.DeviceRepository, storages.SyncStateRepository, notifier, metrics, cfg.Sync, logger)

	return &Services{
		AuthService:    NewAuthService(cfg.App, logger),
		DeviceRegistry: NewDeviceRegistry(storages.DeviceRepository, cfg.Devices.Priorities(), logger),
		SyncService:    NewSyncTelemetryService(metrics).Wrap(coordinator),
		AppInfoService: appInfo,
	}, nil
}
