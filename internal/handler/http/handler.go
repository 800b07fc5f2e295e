package http

import (
	"time"

	"github.com/MKhiriev/device-sync/internal/config"
	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/internal/notify"
	"github.com/MKhiriev/device-sync/internal/service"
	"github.com/MKhiriev/device-sync/internal/utils"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

type Handler struct {
	services *service.Services
	hub      *notify.Hub

	requestTimeout time.Duration
	verifyHash     bool

	logger *logger.Logger
}

// NewHandler builds the HTTP handler. Body signatures are only checked when
// cfg.HashKey is set.
func NewHandler(services *service.Services, hub *notify.Hub, serverCfg config.Server, appCfg config.App, logger *logger.Logger) *Handler {
	if appCfg.HashKey != "" {
		utils.InitHasherPool(appCfg.HashKey)
	}

	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		hub:            hub,
		requestTimeout: serverCfg.RequestTimeout,
		verifyHash:     appCfg.HashKey != "",
		logger:         logger,
	}
}
