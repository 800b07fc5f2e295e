package service

import (
	"context"

	"github.com/MKhiriev/device-sync/internal/config"
	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/models"
)

type appInfoService struct {
	buildInfo models.AppBuildInfo

	logger *logger.Logger
}

// NewAppInfoService serves the linker-provided build info. When the binary
// was built without a version, cfg.Version is used instead; with neither the
// constructor fails.
func NewAppInfoService(buildInfo models.AppBuildInfo, cfg config.App, logger *logger.Logger) (AppInfoService, error) {
	if buildInfo.BuildVersion() == "" || buildInfo.BuildVersion() == "N/A" {
		if cfg.Version == "" {
			return nil, ErrVersionIsNotSpecified
		}
		buildInfo = models.NewAppBuildInfo(cfg.Version, buildInfo.BuildDate(), buildInfo.BuildCommit())
	}

	return &appInfoService{
		buildInfo: buildInfo,
		logger:    logger,
	}, nil
}

func (s *appInfoService) GetBuildInfo(ctx context.Context) models.AppBuildInfo {
	return s.buildInfo
}
